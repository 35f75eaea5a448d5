package importing

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Table is a fully materialized spreadsheet: ordered columns and row cells
// keyed by column name. Missing cells are empty strings.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// crmField describes one canonical CRM field and the column-name aliases
// that map onto it. Order matters: the first field claiming a column wins.
type crmField struct {
	Name    string
	Aliases []string
}

var crmFields = []crmField{
	{Name: "full_name", Aliases: []string{"name", "fullname", "full name", "contact name", "lead name"}},
	{Name: "first_name", Aliases: []string{"firstname", "first", "fname", "given name"}},
	{Name: "last_name", Aliases: []string{"lastname", "last", "lname", "surname", "family name"}},
	{Name: "email", Aliases: []string{"e-mail", "email address", "emailaddress", "mail"}},
	{Name: "phone", Aliases: []string{"telephone", "tel", "mobile", "cell", "phone number", "phonenumber", "contact number"}},
	{Name: "company", Aliases: []string{"company name", "organization", "org", "business", "employer"}},
	{Name: "source", Aliases: []string{"lead source", "leadsource", "origin", "channel"}},
	{Name: "notes", Aliases: []string{"note", "comments", "comment", "description", "remarks"}},
}

// AvailableCRMFields returns the canonical field names a column can map to.
func AvailableCRMFields() []string {
	names := make([]string, 0, len(crmFields))
	for _, field := range crmFields {
		names = append(names, field.Name)
	}
	return names
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]{7,20}$`)
)

type AnalyzerConfig struct {
	// SparsityThreshold is the minimum fraction of non-empty cells a column
	// needs to survive cleaning.
	SparsityThreshold float64
	SampleRowCount    int
	SniffSampleSize   int
	EmailSniffRatio   float64
	PhoneSniffRatio   float64
}

func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SparsityThreshold: 0.10,
		SampleRowCount:    5,
		SniffSampleSize:   100,
		EmailSniffRatio:   0.8,
		PhoneSniffRatio:   0.7,
	}
}

type AnalysisResult struct {
	TotalRows         int                 `json:"total_rows"`
	DetectedColumns   []string            `json:"detected_columns"`
	RemovedColumns    []string            `json:"removed_columns"`
	SuggestedMappings map[string]string   `json:"suggested_mappings"`
	SampleRows        []map[string]string `json:"sample_rows"`
	ColumnSignature   string              `json:"column_signature"`
}

type Analyzer struct {
	cfg AnalyzerConfig
}

func NewAnalyzer(cfg AnalyzerConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze cleans the table's columns, suggests a column-to-field mapping and
// computes the column signature used for template matching. The table is
// modified in place: removed columns disappear from Columns and from every row.
func (a *Analyzer) Analyze(table *Table) (AnalysisResult, error) {
	if len(table.Rows) == 0 {
		return AnalysisResult{}, ErrEmptyFile
	}

	removed := a.cleanColumns(table)

	if len(table.Columns) == 0 {
		return AnalysisResult{}, ErrNoValidColumns
	}

	return AnalysisResult{
		TotalRows:         len(table.Rows),
		DetectedColumns:   table.Columns,
		RemovedColumns:    removed,
		SuggestedMappings: a.suggestMappings(table),
		SampleRows:        sampleRows(table, a.cfg.SampleRowCount),
		ColumnSignature:   ColumnSignature(table.Columns),
	}, nil
}

// cleanColumns normalizes names and drops placeholder, empty and sparse
// columns, returning the dropped names in removal order. Distinct raw columns
// that normalize to the same name are suffixed name.1, name.2, ... so their
// cells stay separate.
func (a *Analyzer) cleanColumns(table *Table) []string {
	normalized := make([]string, 0, len(table.Columns))
	seen := make(map[string]int)
	for _, col := range table.Columns {
		name := strings.ToLower(strings.TrimSpace(col))
		if name != "" {
			if n, ok := seen[name]; ok {
				seen[name] = n + 1
				name = fmt.Sprintf("%s.%d", name, n)
				seen[name] = 1
			} else {
				seen[name] = 1
			}
		}
		normalized = append(normalized, name)
	}
	renameRows(table, normalized)
	table.Columns = normalized

	removed := make([]string, 0)
	kept := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		if col == "" || strings.HasPrefix(col, "unnamed") {
			removed = append(removed, col)
			continue
		}
		kept = append(kept, col)
	}
	table.Columns = kept

	// Entirely empty columns, then sparse ones below the threshold.
	kept = kept[:0]
	var emptyCols, sparseCols []string
	minFilled := a.cfg.SparsityThreshold * float64(len(table.Rows))
	for _, col := range table.Columns {
		filled := 0
		for _, row := range table.Rows {
			if strings.TrimSpace(row[col]) != "" {
				filled++
			}
		}
		switch {
		case filled == 0:
			emptyCols = append(emptyCols, col)
		case float64(filled) < minFilled:
			sparseCols = append(sparseCols, col)
		default:
			kept = append(kept, col)
		}
	}
	table.Columns = kept
	removed = append(removed, emptyCols...)
	removed = append(removed, sparseCols...)

	dropRemovedCells(table, removed)
	return removed
}

func renameRows(table *Table, normalized []string) {
	for i, row := range table.Rows {
		renamed := make(map[string]string, len(row))
		for j, col := range table.Columns {
			renamed[normalized[j]] = row[col]
		}
		table.Rows[i] = renamed
	}
}

func dropRemovedCells(table *Table, removed []string) {
	if len(removed) == 0 {
		return
	}
	for _, row := range table.Rows {
		for _, col := range removed {
			delete(row, col)
		}
	}
}

// suggestMappings matches column names against the alias dictionary and falls
// back to content sniffing for email- and phone-looking columns. Each CRM
// field is claimed by at most one column, first match in column order.
func (a *Analyzer) suggestMappings(table *Table) map[string]string {
	suggestions := make(map[string]string)
	used := make(map[string]bool)

	for _, col := range table.Columns {
		if field, ok := a.matchAlias(col, used); ok {
			suggestions[col] = field
			used[field] = true
			continue
		}

		sample := a.sampleValues(table, col)
		if len(sample) == 0 {
			continue
		}
		if !used["email"] && ratioMatching(sample, emailPattern) > a.cfg.EmailSniffRatio {
			suggestions[col] = "email"
			used["email"] = true
			continue
		}
		if !used["phone"] && ratioMatching(sample, phonePattern) > a.cfg.PhoneSniffRatio {
			suggestions[col] = "phone"
			used["phone"] = true
		}
	}

	return suggestions
}

func (a *Analyzer) matchAlias(col string, used map[string]bool) (string, bool) {
	for _, field := range crmFields {
		if used[field.Name] {
			continue
		}
		if col == field.Name {
			return field.Name, true
		}
		for _, alias := range field.Aliases {
			if col == alias {
				return field.Name, true
			}
		}
	}
	return "", false
}

func (a *Analyzer) sampleValues(table *Table, col string) []string {
	sample := make([]string, 0, a.cfg.SniffSampleSize)
	for _, row := range table.Rows {
		value := strings.TrimSpace(row[col])
		if value == "" {
			continue
		}
		sample = append(sample, value)
		if len(sample) >= a.cfg.SniffSampleSize {
			break
		}
	}
	return sample
}

func ratioMatching(sample []string, pattern *regexp.Regexp) float64 {
	matches := 0
	for _, value := range sample {
		if pattern.MatchString(value) {
			matches++
		}
	}
	return float64(matches) / float64(len(sample))
}

func sampleRows(table *Table, count int) []map[string]string {
	if count > len(table.Rows) {
		count = len(table.Rows)
	}
	samples := make([]map[string]string, 0, count)
	for _, row := range table.Rows[:count] {
		copied := make(map[string]string, len(table.Columns))
		for _, col := range table.Columns {
			copied[col] = row[col]
		}
		samples = append(samples, copied)
	}
	return samples
}

// ColumnSignature hashes the cleaned column set independent of order, case
// and surrounding whitespace. Equal signatures mean the same column set.
func ColumnSignature(columns []string) string {
	normalized := make([]string, 0, len(columns))
	for _, col := range columns {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(col)))
	}
	sort.Strings(normalized)
	sum := md5.Sum([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(sum[:])
}
