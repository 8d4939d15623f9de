// pkg/csvfile/csvfile.go
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/David-Botos/table-clean/pkg/converter"
	"github.com/David-Botos/table-clean/pkg/model"
)

// ReadTable loads a comma-delimited file into a table. The first record is
// the header row naming the columns; empty cells and textual null tokens
// become absent values.
func ReadTable(path string) (*model.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input file %s has no header row", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	table := model.NewTable(header)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", table.RowCount()+1, err)
		}

		row := make(model.Row, len(header))
		for i, col := range header {
			if converter.IsNullToken(record[i]) {
				row[col] = nil
			} else {
				row[col] = record[i]
			}
		}
		table.AppendRow(row)
	}

	return table, nil
}

// WriteTable writes a table to a comma-delimited file with a header row.
// Absent values are written as empty cells. Tables carry no synthetic
// row-identifier column, so none is ever written.
func WriteTable(path string, table *model.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(table.Columns); err != nil {
		file.Close()
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range table.Rows {
		record := make([]string, len(table.Columns))
		for j, col := range table.Columns {
			record[j] = converter.FormatValue(row[col])
		}
		if err := writer.Write(record); err != nil {
			file.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
