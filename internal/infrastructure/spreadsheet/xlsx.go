package spreadsheet

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

// parseXLSX reads the first sheet of the workbook.
func parseXLSX(content []byte) (*domain.Table, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrEmptyFile
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyFile
	}

	return newTable(rows[0], rows[1:]), nil
}
