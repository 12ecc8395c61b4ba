package stock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCSVFile(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	body := "Symbol,OpenPrice,HighPrice,LowPrice,ClosePrice,Volume,Transactions\n" +
		"ACME,100.50,\"1,105.00\",99.25,104.00,\"12,000\",45\n" +
		"NOPE,-,110.00,100.00,105.00,500,12\n"
	path := filepath.Join(dir, "2020_01_02.csv")
	assert.NoError(os.WriteFile(path, []byte(body), 0644))

	rows, err := parseCSVFile(path)
	assert.NoError(err)
	assert.Len(rows, 2)

	acme := rows[0]
	assert.Equal("ACME", acme["Symbol"])
	assert.Equal(100.50, acme["OpenPrice"])
	// Thousands separators are stripped before parsing.
	assert.Equal(1105.0, acme["HighPrice"])
	assert.Equal(12000.0, acme["Volume"])
	assert.Equal(45, acme["Transactions"])
	// The trading date comes from the file name.
	assert.Equal("2020-01-02", acme["Date"])

	// "-" placeholders pass through untouched.
	assert.Equal("-", rows[1]["OpenPrice"])
}

func TestParseCSVFileErrors(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	badDate := filepath.Join(dir, "notadate.csv")
	assert.NoError(os.WriteFile(badDate, []byte("Symbol\nACME\n"), 0644))
	_, err := parseCSVFile(badDate)
	assert.Error(err)

	badNumber := filepath.Join(dir, "2020_01_03.csv")
	assert.NoError(os.WriteFile(badNumber, []byte("Symbol,OpenPrice\nACME,abc\n"), 0644))
	_, err = parseCSVFile(badNumber)
	assert.Error(err)

	headerOnly := filepath.Join(dir, "2020_01_04.csv")
	assert.NoError(os.WriteFile(headerOnly, []byte("Symbol,OpenPrice\n"), 0644))
	rows, err := parseCSVFile(headerOnly)
	assert.NoError(err)
	assert.Empty(rows)
}
