package lead

import "strings"

type Source string

const (
	SourceWebsite  Source = "Website"
	SourceReferral Source = "Referral"
	SourceCampaign Source = "Campaign"
	SourceDirect   Source = "Direct"
	SourceOther    Source = "Other"
)

type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusProposal  Status = "Proposal"
	StatusWon       Status = "Won"
	StatusLost      Status = "Lost"
)

// sourceAliases maps common spreadsheet spellings onto the closed Source set.
// Canonical values match case-insensitively; anything else falls back to Other.
var sourceAliases = map[string]Source{
	"website":   SourceWebsite,
	"web":       SourceWebsite,
	"site":      SourceWebsite,
	"referral":  SourceReferral,
	"ref":       SourceReferral,
	"reference": SourceReferral,
	"campaign":  SourceCampaign,
	"ad":        SourceCampaign,
	"ads":       SourceCampaign,
	"marketing": SourceCampaign,
	"direct":    SourceDirect,
	"cold":      SourceDirect,
	"call":      SourceDirect,
	"other":     SourceOther,
}

// ParseSource never fails: unknown or empty input maps to Other.
func ParseSource(raw string) Source {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return SourceOther
	}
	if source, ok := sourceAliases[key]; ok {
		return source
	}
	return SourceOther
}

type Lead struct {
	ID         int64
	FullName   string
	Email      string
	Phone      string
	Source     Source
	Status     Status
	AssignedTo string
	CreatedBy  string
}
