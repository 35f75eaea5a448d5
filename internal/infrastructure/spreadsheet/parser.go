// Package spreadsheet turns uploaded CSV and Excel bytes into the row-major
// table the import analyzer works on.
package spreadsheet

import (
	"fmt"
	"path/filepath"
	"strings"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse dispatches on the file extension. Anything but .csv, .xlsx and .xls
// is rejected as unsupported.
func (p *Parser) Parse(content []byte, filename string) (*domain.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(content)
	case ".xlsx", ".xls":
		return parseXLSX(content)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filename)
	}
}

// newTable pads or truncates each record to the header width so every row has
// a cell for every column.
func newTable(header []string, records [][]string) *domain.Table {
	table := &domain.Table{
		Columns: header,
		Rows:    make([]map[string]string, 0, len(records)),
	}
	for _, record := range records {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
