package importing

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mohammadpnp/lead-import/internal/domain/lead"
)

// MergeRule concatenates the values of Sources (skipping empties) with
// Separator into Target, overwriting any existing value.
type MergeRule struct {
	Target    string   `json:"target"`
	Sources   []string `json:"sources"`
	Separator string   `json:"separator"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NormalizedLead is one valid row after normalization. RowNum is the 1-based
// data-row index in the uploaded file (header excluded) and is the join key
// across the dedupe and execute phases.
type NormalizedLead struct {
	RowNum   int         `json:"row_num"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone,omitempty"`
	Company  string      `json:"company,omitempty"`
	Notes    string      `json:"notes,omitempty"`
	Source   lead.Source `json:"source"`
}

type InvalidRow struct {
	RowNum     int               `json:"row_num"`
	Original   map[string]string `json:"original"`
	Normalized map[string]string `json:"normalized"`
	Errors     []FieldError      `json:"errors"`
}

var (
	nonPhoneChars = regexp.MustCompile(`[^\d+]`)
	titleCaser    = cases.Title(language.Und)
)

type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize maps raw rows onto canonical fields, applies merge rules, cleans
// and validates every field, and partitions rows into valid and invalid.
// Deterministic: no external state is consulted.
func (n *Normalizer) Normalize(rows []map[string]string, mapping map[string]string, rules []MergeRule) ([]NormalizedLead, []InvalidRow) {
	valid := make([]NormalizedLead, 0, len(rows))
	invalid := make([]InvalidRow, 0)

	for i, row := range rows {
		rowNum := i + 1
		normalized, errs := n.normalizeRow(row, mapping, rules)
		if len(errs) > 0 {
			invalid = append(invalid, InvalidRow{
				RowNum:     rowNum,
				Original:   row,
				Normalized: partialFields(normalized),
				Errors:     errs,
			})
			continue
		}
		normalized.RowNum = rowNum
		valid = append(valid, normalized)
	}

	return valid, invalid
}

func (n *Normalizer) normalizeRow(row map[string]string, mapping map[string]string, rules []MergeRule) (NormalizedLead, []FieldError) {
	mapped := make(map[string]string)
	for col, value := range row {
		if field, ok := mapping[col]; ok {
			mapped[field] = value
		}
	}
	applyMergeRules(mapped, rules)

	var out NormalizedLead
	var errs []FieldError

	out.FullName = normalizeName(mapped["full_name"])
	if out.FullName == "" {
		out.FullName = mergeNames(mapped["first_name"], mapped["last_name"])
	}
	if out.FullName == "" {
		errs = append(errs, FieldError{Field: "full_name", Message: "Name is required"})
	}

	email, emailErr := normalizeEmail(mapped["email"])
	out.Email = email
	if emailErr != "" {
		errs = append(errs, FieldError{Field: "email", Message: emailErr})
	}

	out.Phone = NormalizePhone(mapped["phone"])
	out.Company = strings.TrimSpace(mapped["company"])
	out.Notes = strings.TrimSpace(mapped["notes"])
	out.Source = lead.ParseSource(mapped["source"])

	return out, errs
}

func applyMergeRules(mapped map[string]string, rules []MergeRule) {
	for _, rule := range rules {
		if rule.Target == "" || len(rule.Sources) == 0 {
			continue
		}
		separator := rule.Separator
		if separator == "" {
			separator = " "
		}
		values := make([]string, 0, len(rule.Sources))
		for _, source := range rule.Sources {
			if value := strings.TrimSpace(mapped[source]); value != "" {
				values = append(values, value)
			}
		}
		if len(values) > 0 {
			mapped[rule.Target] = strings.Join(values, separator)
		}
	}
}

func normalizeName(raw string) string {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return ""
	}
	return titleCaser.String(name)
}

func mergeNames(first, last string) string {
	parts := make([]string, 0, 2)
	if v := strings.TrimSpace(first); v != "" {
		parts = append(parts, v)
	}
	if v := strings.TrimSpace(last); v != "" {
		parts = append(parts, v)
	}
	return normalizeName(strings.Join(parts, " "))
}

func normalizeEmail(raw string) (string, string) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", "Email is required"
	}
	email = strings.ReplaceAll(email, " ", "")
	email = strings.ReplaceAll(email, "..", ".")
	if !emailPattern.MatchString(email) {
		return "", fmt.Sprintf("Invalid email format: %s", email)
	}
	return email, ""
}

// NormalizePhone strips everything but digits and a leading plus. Numbers
// shorter than 7 digits are treated as absent rather than invalid.
func NormalizePhone(raw string) string {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return ""
	}
	hasPlus := strings.HasPrefix(phone, "+")
	digits := nonPhoneChars.ReplaceAllString(phone, "")
	digits = strings.ReplaceAll(digits, "+", "")
	if len(digits) < 7 {
		return ""
	}
	if hasPlus {
		return "+" + digits
	}
	return digits
}

func partialFields(normalized NormalizedLead) map[string]string {
	fields := make(map[string]string)
	if normalized.FullName != "" {
		fields["full_name"] = normalized.FullName
	}
	if normalized.Email != "" {
		fields["email"] = normalized.Email
	}
	if normalized.Phone != "" {
		fields["phone"] = normalized.Phone
	}
	if normalized.Company != "" {
		fields["company"] = normalized.Company
	}
	if normalized.Notes != "" {
		fields["notes"] = normalized.Notes
	}
	fields["source"] = string(normalized.Source)
	return fields
}
