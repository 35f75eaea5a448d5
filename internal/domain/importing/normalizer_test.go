package importing_test

import (
	"testing"

	importing "github.com/mohammadpnp/lead-import/internal/domain/importing"
	"github.com/mohammadpnp/lead-import/internal/domain/lead"
)

var contactMapping = map[string]string{
	"name":   "full_name",
	"email":  "email",
	"phone":  "phone",
	"source": "source",
}

func TestNormalizeValidRow(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		{"name": "  john   SMITH ", "email": " John.Smith@Example.COM ", "phone": "(555) 123-4567", "source": "web"},
	}

	valid, invalid := importing.NewNormalizer().Normalize(rows, contactMapping, nil)
	if len(invalid) != 0 {
		t.Fatalf("unexpected invalid rows: %v", invalid)
	}
	if len(valid) != 1 {
		t.Fatalf("expected 1 valid row, got %d", len(valid))
	}

	got := valid[0]
	if got.RowNum != 1 {
		t.Errorf("row num = %d, want 1", got.RowNum)
	}
	if got.FullName != "John Smith" {
		t.Errorf("full name = %q, want John Smith", got.FullName)
	}
	if got.Email != "john.smith@example.com" {
		t.Errorf("email = %q", got.Email)
	}
	if got.Phone != "5551234567" {
		t.Errorf("phone = %q, want 5551234567", got.Phone)
	}
	if got.Source != lead.SourceWebsite {
		t.Errorf("source = %q, want Website", got.Source)
	}
}

// Normalization is idempotent: feeding a normalized row's fields back through
// an identity mapping yields the same canonical values.
func TestNormalizeIsIdempotent(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		{"name": "  john   SMITH ", "email": " John.Smith@Example..COM ", "phone": "+1 (555) 123-4567", "source": "web"},
	}

	normalizer := importing.NewNormalizer()
	valid, invalid := normalizer.Normalize(rows, contactMapping, nil)
	if len(invalid) != 0 || len(valid) != 1 {
		t.Fatalf("valid=%d invalid=%d: %v", len(valid), len(invalid), invalid)
	}
	first := valid[0]

	identity := map[string]string{
		"full_name": "full_name",
		"email":     "email",
		"phone":     "phone",
		"company":   "company",
		"notes":     "notes",
		"source":    "source",
	}
	again, invalid := normalizer.Normalize([]map[string]string{{
		"full_name": first.FullName,
		"email":     first.Email,
		"phone":     first.Phone,
		"company":   first.Company,
		"notes":     first.Notes,
		"source":    string(first.Source),
	}}, identity, nil)
	if len(invalid) != 0 || len(again) != 1 {
		t.Fatalf("second pass: valid=%d invalid=%d: %v", len(again), len(invalid), invalid)
	}

	second := again[0]
	if second.FullName != first.FullName {
		t.Errorf("full name changed: %q -> %q", first.FullName, second.FullName)
	}
	if second.Email != first.Email {
		t.Errorf("email changed: %q -> %q", first.Email, second.Email)
	}
	if second.Phone != first.Phone {
		t.Errorf("phone changed: %q -> %q", first.Phone, second.Phone)
	}
	if second.Company != first.Company || second.Notes != first.Notes {
		t.Errorf("company/notes changed: %+v -> %+v", first, second)
	}
	if second.Source != first.Source {
		t.Errorf("source changed: %q -> %q", first.Source, second.Source)
	}
}

func TestNormalizeMergesFirstAndLastName(t *testing.T) {
	t.Parallel()

	mapping := map[string]string{"first": "first_name", "last": "last_name", "email": "email"}
	rows := []map[string]string{
		{"first": "ada", "last": "lovelace", "email": "ada@example.com"},
	}

	valid, invalid := importing.NewNormalizer().Normalize(rows, mapping, nil)
	if len(invalid) != 0 || len(valid) != 1 {
		t.Fatalf("valid=%d invalid=%d", len(valid), len(invalid))
	}
	if valid[0].FullName != "Ada Lovelace" {
		t.Errorf("full name = %q, want Ada Lovelace", valid[0].FullName)
	}
}

func TestNormalizeMissingEmail(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		{"name": "Ann", "email": ""},
	}

	valid, invalid := importing.NewNormalizer().Normalize(rows, contactMapping, nil)
	if len(valid) != 0 {
		t.Fatalf("unexpected valid rows: %v", valid)
	}
	if len(invalid) != 1 {
		t.Fatalf("expected 1 invalid row, got %d", len(invalid))
	}
	if invalid[0].RowNum != 1 {
		t.Errorf("row num = %d, want 1", invalid[0].RowNum)
	}
	foundEmailError := false
	for _, fieldErr := range invalid[0].Errors {
		if fieldErr.Field == "email" {
			foundEmailError = true
		}
	}
	if !foundEmailError {
		t.Errorf("expected an email field error, got %v", invalid[0].Errors)
	}
}

func TestNormalizeBadEmailFormat(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		{"name": "Ann", "email": "not-an-email"},
	}

	valid, invalid := importing.NewNormalizer().Normalize(rows, contactMapping, nil)
	if len(valid) != 0 || len(invalid) != 1 {
		t.Fatalf("valid=%d invalid=%d", len(valid), len(invalid))
	}
}

func TestNormalizeCollapsesDoubledDots(t *testing.T) {
	t.Parallel()

	rows := []map[string]string{
		{"name": "Ann", "email": "ann@example..com"},
	}

	valid, invalid := importing.NewNormalizer().Normalize(rows, contactMapping, nil)
	if len(invalid) != 0 || len(valid) != 1 {
		t.Fatalf("valid=%d invalid=%d: %v", len(valid), len(invalid), invalid)
	}
	if valid[0].Email != "ann@example.com" {
		t.Errorf("email = %q, want ann@example.com", valid[0].Email)
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want string
	}{
		{"+1 (555) 123-4567", "+15551234567"},
		{"555.123.4567", "5551234567"},
		{"12345", ""},
		{"", ""},
		{"ext. 42", ""},
	}
	for _, tc := range cases {
		if got := importing.NormalizePhone(tc.raw); got != tc.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeAppliesMergeRules(t *testing.T) {
	t.Parallel()

	mapping := map[string]string{
		"email":  "email",
		"name":   "full_name",
		"note 1": "note_1",
		"note 2": "note_2",
	}
	rules := []importing.MergeRule{
		{Target: "notes", Sources: []string{"note_1", "note_2"}, Separator: "; "},
	}
	rows := []map[string]string{
		{"email": "a@example.com", "name": "Ann", "note 1": "called twice", "note 2": "prefers email"},
	}

	valid, invalid := importing.NewNormalizer().Normalize(rows, mapping, rules)
	if len(invalid) != 0 || len(valid) != 1 {
		t.Fatalf("valid=%d invalid=%d", len(valid), len(invalid))
	}
	if valid[0].Notes != "called twice; prefers email" {
		t.Errorf("notes = %q", valid[0].Notes)
	}
}
