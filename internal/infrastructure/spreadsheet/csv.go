package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// parseCSV decodes as UTF-8 when the bytes are valid, otherwise detects the
// charset and falls back to the latin-1/cp1252 family before giving up.
func parseCSV(content []byte) (*domain.Table, error) {
	decoded, err := decodeCSVBytes(content)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	if len(records) == 0 {
		return nil, domain.ErrEmptyFile
	}

	return newTable(records[0], records[1:]), nil
}

func decodeCSVBytes(content []byte) ([]byte, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if utf8.Valid(content) {
		return content, nil
	}

	decoder := charmap.Windows1252.NewDecoder()
	if detected := detectCharset(content); detected == "ISO-8859-1" {
		decoder = charmap.ISO8859_1.NewDecoder()
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(content), decoder))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}
	return decoded, nil
}

func detectCharset(content []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(content)
	if err != nil {
		return ""
	}
	return result.Charset
}
