package spreadsheet_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
	"github.com/mohammadpnp/lead-import/internal/infrastructure/spreadsheet"
)

func TestParseRejectsUnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := spreadsheet.NewParser().Parse([]byte("hello"), "leads.pdf")
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseCSV(t *testing.T) {
	t.Parallel()

	content := []byte("\xEF\xBB\xBFemail,name\nann@example.com,Ann\nbob@example.com,Bob\n")
	table, err := spreadsheet.NewParser().Parse(content, "leads.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(table.Columns) != 2 || table.Columns[0] != "email" {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[0]["email"] != "ann@example.com" || table.Rows[1]["name"] != "Bob" {
		t.Fatalf("unexpected cells: %v", table.Rows)
	}
}

func TestParseCSVPadsShortRows(t *testing.T) {
	t.Parallel()

	content := []byte("email,name,phone\nann@example.com,Ann\n")
	table, err := spreadsheet.NewParser().Parse(content, "leads.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Rows[0]["phone"]; got != "" {
		t.Fatalf("missing cell = %q, want empty", got)
	}
}

func TestParseCSVEmpty(t *testing.T) {
	t.Parallel()

	_, err := spreadsheet.NewParser().Parse([]byte(""), "leads.csv")
	if !errors.Is(err, domain.ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestParseCSVWindows1252Fallback(t *testing.T) {
	t.Parallel()

	// "José" with a latin-1 e-acute, invalid as UTF-8.
	content := []byte("name,email\nJos\xE9,jose@example.com\n")
	table, err := spreadsheet.NewParser().Parse(content, "leads.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Rows[0]["name"]; got != "José" {
		t.Fatalf("name = %q, want José", got)
	}
}

func TestParseXLSX(t *testing.T) {
	t.Parallel()

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)
	cells := [][]string{
		{"email", "name"},
		{"ann@example.com", "Ann"},
		{"bob@example.com", "Bob"},
	}
	for i, rowCells := range cells {
		for j, value := range rowCells {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := book.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell: %v", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	table, err := spreadsheet.NewParser().Parse(buf.Bytes(), "leads.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(table.Rows))
	}
	if table.Rows[1]["email"] != "bob@example.com" {
		t.Fatalf("unexpected cells: %v", table.Rows)
	}
}
