package importing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAnalyzing     Status = "analyzing"
	StatusMapping       Status = "mapping"
	StatusNormalizing   Status = "normalizing"
	StatusDeduplicating Status = "deduplicating"
	StatusReady         Status = "ready"
	StatusCompleted     Status = "completed"
	StatusFailed        Status = "failed"
)

// next encodes the only legal forward transitions. Any state may additionally
// transition to failed.
var next = map[Status]Status{
	StatusAnalyzing:     StatusMapping,
	StatusMapping:       StatusNormalizing,
	StatusNormalizing:   StatusDeduplicating,
	StatusDeduplicating: StatusReady,
	StatusReady:         StatusCompleted,
}

type Decision string

const (
	DecisionSkip   Decision = "skip"
	DecisionUpdate Decision = "update"
	DecisionInsert Decision = "insert"
)

// ParseDecision accepts "create" as an alias for insert.
func ParseDecision(raw string) (Decision, error) {
	switch Decision(raw) {
	case DecisionSkip, DecisionUpdate, DecisionInsert:
		return Decision(raw), nil
	case "create":
		return DecisionInsert, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDecision, raw)
	}
}

type Summary struct {
	TotalRows int `json:"total_rows"`
	Inserted  int `json:"inserted"`
	Updated   int `json:"updated"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

type Actor struct {
	UserID string
	Admin  bool
	Sales  bool
}

// Session is one pass through the upload, mapping, normalize, dedupe, execute
// workflow for a single file. Row numbers stored anywhere in the session are
// 1-based data-row indices into the original file, header excluded.
type Session struct {
	ID     string
	UserID string
	Status Status

	FileName string
	FileData []byte

	Analysis AnalysisResult

	Mapping        map[string]string
	MergeRules     []MergeRule
	IgnoredColumns []string

	TotalRows   int
	ValidRows   int
	ValidLeads  []NormalizedLead
	InvalidRows []InvalidRow

	Duplicates DuplicateReport

	Decisions       map[int]Decision
	Result          *Summary
	InsertedLeadIDs []int64
	UpdatedLeadIDs  []int64

	ErrorMessage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSession starts in the mapping phase: analysis already ran during upload.
func NewSession(userID, fileName string, fileData []byte, analysis AnalysisResult) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    StatusMapping,
		FileName:  fileName,
		FileData:  fileData,
		Analysis:  analysis,
		TotalRows: analysis.TotalRows,
	}
}

// AccessibleBy allows the owning user and admins.
func (s *Session) AccessibleBy(actor Actor) bool {
	return actor.Admin || s.UserID == actor.UserID
}

func (s *Session) Finished() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

func (s *Session) advance(to Status) error {
	if s.Finished() {
		return fmt.Errorf("%w: session is %s", ErrSessionFinished, s.Status)
	}
	if next[s.Status] != to {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrWrongPhase, s.Status, to)
	}
	s.Status = to
	return nil
}

// SubmitMapping records the user-confirmed mapping and moves the session into
// the normalizing phase.
func (s *Session) SubmitMapping(mapping map[string]string, rules []MergeRule, ignored []string) error {
	if err := s.advance(StatusNormalizing); err != nil {
		return err
	}
	s.Mapping = mapping
	s.MergeRules = rules
	s.IgnoredColumns = ignored
	return nil
}

func (s *Session) SetNormalized(valid []NormalizedLead, invalid []InvalidRow) error {
	if err := s.advance(StatusDeduplicating); err != nil {
		return err
	}
	s.ValidLeads = valid
	s.InvalidRows = invalid
	s.ValidRows = len(valid)
	return nil
}

func (s *Session) SetDuplicates(report DuplicateReport) error {
	if err := s.advance(StatusReady); err != nil {
		return err
	}
	s.Duplicates = report
	return nil
}

// SetDecisions stores per-row duplicate decisions without changing phase.
func (s *Session) SetDecisions(decisions map[int]Decision) error {
	if s.Status != StatusReady {
		return fmt.Errorf("%w: decisions require the ready phase, session is %s", ErrWrongPhase, s.Status)
	}
	s.Decisions = decisions
	return nil
}

func (s *Session) Complete(summary Summary, insertedIDs, updatedIDs []int64) error {
	if err := s.advance(StatusCompleted); err != nil {
		return err
	}
	s.Result = &summary
	s.InsertedLeadIDs = insertedIDs
	s.UpdatedLeadIDs = updatedIDs
	return nil
}

// Fail is reachable from any non-finished state.
func (s *Session) Fail(message string) {
	if s.Finished() {
		return
	}
	s.Status = StatusFailed
	s.ErrorMessage = message
}
