package importing

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mohammadpnp/lead-import/internal/domain/lead"
)

// DuplicateGroup is a cluster of rows inside the uploaded file sharing an
// identifying field.
type DuplicateGroup struct {
	Rows       []int  `json:"rows"`
	MatchType  string `json:"match_type"`
	MatchValue string `json:"match_value"`
	Reason     string `json:"reason"`
}

type LeadSummary struct {
	ID       int64       `json:"id"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Phone    string      `json:"phone,omitempty"`
	Status   lead.Status `json:"status"`
}

type ContactSnapshot struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// ExistingMatch ties one import row to one existing lead. Similarity is a
// percentage and only set for smart matches.
type ExistingMatch struct {
	ImportRow    int             `json:"import_row"`
	ImportData   ContactSnapshot `json:"import_data"`
	ExistingLead LeadSummary     `json:"existing_lead"`
	MatchType    string          `json:"match_type"`
	MatchValue   string          `json:"match_value,omitempty"`
	Similarity   float64         `json:"similarity,omitempty"`
	Reason       string          `json:"reason"`
}

type DuplicateReport struct {
	InFile   []DuplicateGroup `json:"in_file_duplicates"`
	Existing []ExistingMatch  `json:"existing_duplicates"`
	Smart    []ExistingMatch  `json:"smart_matches"`
}

func (r DuplicateReport) Total() int {
	return len(r.InFile) + len(r.Existing) + len(r.Smart)
}

// LeadDirectory is the read side of the lead store the deduplicator needs.
// Lookups are batched: one query per field for the whole import set.
type LeadDirectory interface {
	FindByEmails(ctx context.Context, emails []string) ([]lead.Lead, error)
	FindByPhones(ctx context.Context, phones []string) ([]lead.Lead, error)
	ListRecent(ctx context.Context, limit int) ([]lead.Lead, error)
}

type DeduplicatorConfig struct {
	// NameSimilarityThreshold is the minimum sequence ratio for a smart match.
	NameSimilarityThreshold float64
	// SmartMatchPoolSize bounds how many existing leads are fuzzy-compared.
	SmartMatchPoolSize int
}

func DefaultDeduplicatorConfig() DeduplicatorConfig {
	return DeduplicatorConfig{
		NameSimilarityThreshold: 0.85,
		SmartMatchPoolSize:      1000,
	}
}

type Deduplicator struct {
	cfg DeduplicatorConfig
}

func NewDeduplicator(cfg DeduplicatorConfig) *Deduplicator {
	return &Deduplicator{cfg: cfg}
}

// Detect runs the three passes in order of decreasing confidence. A row
// claimed by an earlier pass is excluded from every later one.
func (d *Deduplicator) Detect(ctx context.Context, rows []NormalizedLead, directory LeadDirectory) (DuplicateReport, error) {
	report := DuplicateReport{
		InFile:   findInFileDuplicates(rows),
		Existing: []ExistingMatch{},
		Smart:    []ExistingMatch{},
	}

	claimed := make(map[int]bool)
	for _, group := range report.InFile {
		for _, rowNum := range group.Rows {
			claimed[rowNum] = true
		}
	}

	existing, err := d.findExistingMatches(ctx, rows, directory, claimed)
	if err != nil {
		return DuplicateReport{}, err
	}
	report.Existing = existing
	for _, match := range existing {
		claimed[match.ImportRow] = true
	}

	smart, err := d.findSmartMatches(ctx, rows, directory, claimed)
	if err != nil {
		return DuplicateReport{}, err
	}
	report.Smart = smart

	return report, nil
}

// findInFileDuplicates clusters rows by email, then clusters the remainder by
// phone. Groups surface in order of first occurrence.
func findInFileDuplicates(rows []NormalizedLead) []DuplicateGroup {
	groups := make([]DuplicateGroup, 0)

	emailRows := groupBy(rows, func(r NormalizedLead) string { return r.Email })
	caught := make(map[int]bool)
	for _, cluster := range emailRows {
		if len(cluster.rows) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			Rows:       cluster.rows,
			MatchType:  "email",
			MatchValue: cluster.key,
			Reason:     fmt.Sprintf("Same email: %s", cluster.key),
		})
		for _, rowNum := range cluster.rows {
			caught[rowNum] = true
		}
	}

	remaining := make([]NormalizedLead, 0, len(rows))
	for _, row := range rows {
		if !caught[row.RowNum] {
			remaining = append(remaining, row)
		}
	}
	for _, cluster := range groupBy(remaining, func(r NormalizedLead) string { return r.Phone }) {
		if len(cluster.rows) < 2 {
			continue
		}
		groups = append(groups, DuplicateGroup{
			Rows:       cluster.rows,
			MatchType:  "phone",
			MatchValue: cluster.key,
			Reason:     fmt.Sprintf("Same phone: %s", cluster.key),
		})
	}

	return groups
}

type rowCluster struct {
	key  string
	rows []int
}

func groupBy(rows []NormalizedLead, key func(NormalizedLead) string) []rowCluster {
	index := make(map[string]int)
	clusters := make([]rowCluster, 0)
	for _, row := range rows {
		k := key(row)
		if k == "" {
			continue
		}
		pos, ok := index[k]
		if !ok {
			pos = len(clusters)
			index[k] = pos
			clusters = append(clusters, rowCluster{key: k})
		}
		clusters[pos].rows = append(clusters[pos].rows, row.RowNum)
	}
	return clusters
}

// findExistingMatches batch-fetches leads whose email or phone intersects the
// import set and matches each unclaimed row, email first, then phone. The
// first hit per row wins.
func (d *Deduplicator) findExistingMatches(ctx context.Context, rows []NormalizedLead, directory LeadDirectory, claimed map[int]bool) ([]ExistingMatch, error) {
	emails := make([]string, 0, len(rows))
	phones := make([]string, 0, len(rows))
	for _, row := range rows {
		if claimed[row.RowNum] {
			continue
		}
		if row.Email != "" {
			emails = append(emails, row.Email)
		}
		if row.Phone != "" {
			phones = append(phones, row.Phone)
		}
	}

	byEmail := make(map[string]lead.Lead)
	if len(emails) > 0 {
		found, err := directory.FindByEmails(ctx, emails)
		if err != nil {
			return nil, fmt.Errorf("lookup leads by email: %w", err)
		}
		for _, l := range found {
			byEmail[strings.ToLower(l.Email)] = l
		}
	}

	byPhone := make(map[string]lead.Lead)
	if len(phones) > 0 {
		found, err := directory.FindByPhones(ctx, phones)
		if err != nil {
			return nil, fmt.Errorf("lookup leads by phone: %w", err)
		}
		for _, l := range found {
			if l.Phone != "" {
				byPhone[l.Phone] = l
			}
		}
	}

	matches := make([]ExistingMatch, 0)
	for _, row := range rows {
		if claimed[row.RowNum] {
			continue
		}
		if existing, ok := byEmail[row.Email]; ok {
			matches = append(matches, newExactMatch(row, existing, "email", row.Email))
			continue
		}
		if row.Phone != "" {
			if existing, ok := byPhone[row.Phone]; ok {
				matches = append(matches, newExactMatch(row, existing, "phone", row.Phone))
			}
		}
	}
	return matches, nil
}

func newExactMatch(row NormalizedLead, existing lead.Lead, matchType, matchValue string) ExistingMatch {
	return ExistingMatch{
		ImportRow:    row.RowNum,
		ImportData:   snapshot(row),
		ExistingLead: summarize(existing),
		MatchType:    matchType,
		MatchValue:   matchValue,
		Reason:       fmt.Sprintf("Same %s: %s", matchType, matchValue),
	}
}

// findSmartMatches fuzzy-compares the names of all still-unclaimed rows
// against a bounded pool of existing leads. Only the first qualifying lead is
// kept per row.
func (d *Deduplicator) findSmartMatches(ctx context.Context, rows []NormalizedLead, directory LeadDirectory, claimed map[int]bool) ([]ExistingMatch, error) {
	candidates := make([]NormalizedLead, 0, len(rows))
	for _, row := range rows {
		if !claimed[row.RowNum] && row.FullName != "" {
			candidates = append(candidates, row)
		}
	}
	if len(candidates) == 0 {
		return []ExistingMatch{}, nil
	}

	pool, err := directory.ListRecent(ctx, d.cfg.SmartMatchPoolSize)
	if err != nil {
		return nil, fmt.Errorf("list leads for smart matching: %w", err)
	}

	matches := make([]ExistingMatch, 0)
	for _, row := range candidates {
		for _, existing := range pool {
			similarity := NameSimilarity(row.FullName, existing.FullName)
			if similarity < d.cfg.NameSimilarityThreshold {
				continue
			}
			percent := math.Round(similarity*1000) / 10
			matches = append(matches, ExistingMatch{
				ImportRow:    row.RowNum,
				ImportData:   snapshot(row),
				ExistingLead: summarize(existing),
				MatchType:    "smart",
				Similarity:   percent,
				Reason:       fmt.Sprintf("Similar name (%.0f%% match)", math.Round(similarity*100)),
			})
			break
		}
	}
	return matches, nil
}

// NameSimilarity is the Ratcliff/Obershelp sequence ratio of the two names,
// case-insensitive and trimmed. 1.0 means identical.
func NameSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}

func snapshot(row NormalizedLead) ContactSnapshot {
	return ContactSnapshot{FullName: row.FullName, Email: row.Email, Phone: row.Phone}
}

func summarize(l lead.Lead) LeadSummary {
	return LeadSummary{ID: l.ID, FullName: l.FullName, Email: l.Email, Phone: l.Phone, Status: l.Status}
}
