package csvfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/table-clean/pkg/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadTable(t *testing.T) {
	path := writeFile(t, "input.csv",
		"ID,Name,Age\n"+
			"1,Alice,25\n"+
			"2,,30\n"+
			"3,Charlie,null\n")

	table, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Name", "Age"}, table.Columns)
	require.Equal(t, 3, table.RowCount())
	assert.Equal(t, "Alice", table.Rows[0]["Name"])
	assert.Nil(t, table.Rows[1]["Name"])
	assert.Nil(t, table.Rows[2]["Age"])
}

func TestReadTableHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "a,b\n")

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Columns)
	assert.Equal(t, 0, table.RowCount())
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	assert.Error(t, err)
}

func TestReadTableNoHeader(t *testing.T) {
	path := writeFile(t, "blank.csv", "")

	_, err := ReadTable(path)
	assert.Error(t, err)
}

func TestReadTableMalformedRecord(t *testing.T) {
	path := writeFile(t, "ragged.csv", "a,b\n1,2,3\n")

	_, err := ReadTable(path)
	assert.Error(t, err)
}

func TestWriteReadRoundTrip(t *testing.T) {
	table := model.NewTable([]string{"ID", "Name", "Salary"})
	table.AppendRow(model.Row{"ID": "1", "Name": "Alice", "Salary": "50000"})
	table.AppendRow(model.Row{"ID": "2", "Name": nil, "Salary": "60000"})

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteTable(path, table))

	loaded, err := ReadTable(path)
	require.NoError(t, err)

	assert.Equal(t, table.Columns, loaded.Columns)
	require.Equal(t, 2, loaded.RowCount())
	assert.Equal(t, "Alice", loaded.Rows[0]["Name"])
	assert.Nil(t, loaded.Rows[1]["Name"])
}

func TestWriteTableUnwritablePath(t *testing.T) {
	table := model.NewTable([]string{"a"})
	err := WriteTable(filepath.Join(t.TempDir(), "missing-dir", "out.csv"), table)
	assert.Error(t, err)
}
