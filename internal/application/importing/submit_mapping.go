package importing

import (
	"context"
	"fmt"
	"log"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type SubmitMappingInput struct {
	Actor          domain.Actor
	SessionID      string
	Mapping        map[string]string
	MergeRules     []domain.MergeRule
	IgnoredColumns []string
	// TemplateID, when set, credits the applied template's use counter.
	TemplateID int64
}

type SubmitMappingOutput struct {
	SessionID        string              `json:"session_id"`
	Status           domain.Status       `json:"status"`
	TotalRows        int                 `json:"total_rows"`
	ValidRows        int                 `json:"valid_rows"`
	InvalidRows      int                 `json:"invalid_rows"`
	ValidationErrors []domain.InvalidRow `json:"validation_errors"`
	TotalDuplicates  int                 `json:"total_duplicates"`
}

type SubmitMapping interface {
	Execute(ctx context.Context, in SubmitMappingInput) (SubmitMappingOutput, error)
}

type submitMapping struct {
	parser       TableParser
	analyzer     *domain.Analyzer
	normalizer   *domain.Normalizer
	deduplicator *domain.Deduplicator
	sessions     domain.SessionRepository
	templates    domain.TemplateRepository
	leads        domain.LeadRepository
}

func NewSubmitMapping(
	parser TableParser,
	analyzer *domain.Analyzer,
	normalizer *domain.Normalizer,
	deduplicator *domain.Deduplicator,
	sessions domain.SessionRepository,
	templates domain.TemplateRepository,
	leads domain.LeadRepository,
) SubmitMapping {
	return &submitMapping{
		parser:       parser,
		analyzer:     analyzer,
		normalizer:   normalizer,
		deduplicator: deduplicator,
		sessions:     sessions,
		templates:    templates,
		leads:        leads,
	}
}

// Execute confirms the mapping and runs normalization and duplicate detection
// synchronously, leaving the session in the ready phase. Every transition is
// persisted before the next phase starts.
func (uc *submitMapping) Execute(ctx context.Context, in SubmitMappingInput) (SubmitMappingOutput, error) {
	if err := requireFields(in.Mapping); err != nil {
		return SubmitMappingOutput{}, err
	}

	session, err := loadSessionFor(ctx, uc.sessions, in.SessionID, in.Actor)
	if err != nil {
		return SubmitMappingOutput{}, err
	}

	if err := session.SubmitMapping(in.Mapping, in.MergeRules, in.IgnoredColumns); err != nil {
		return SubmitMappingOutput{}, err
	}
	if err := uc.sessions.Update(ctx, session); err != nil {
		return SubmitMappingOutput{}, fmt.Errorf("persist mapping: %w", err)
	}

	if err := uc.runPipeline(ctx, session); err != nil {
		session.Fail(err.Error())
		if persistErr := uc.sessions.Update(ctx, session); persistErr != nil {
			log.Printf("persist failed session %s: %v", session.ID, persistErr)
		}
		return SubmitMappingOutput{}, err
	}

	if in.TemplateID != 0 {
		if err := uc.templates.IncrementUseCount(ctx, in.TemplateID); err != nil {
			log.Printf("increment template %d use count: %v", in.TemplateID, err)
		}
	}

	return SubmitMappingOutput{
		SessionID:        session.ID,
		Status:           session.Status,
		TotalRows:        session.TotalRows,
		ValidRows:        session.ValidRows,
		InvalidRows:      len(session.InvalidRows),
		ValidationErrors: session.InvalidRows,
		TotalDuplicates:  session.Duplicates.Total(),
	}, nil
}

func (uc *submitMapping) runPipeline(ctx context.Context, session *domain.Session) error {
	// Re-parse the retained file bytes: analysis cleaning is deterministic, so
	// the cleaned rows match the columns the mapping was confirmed against.
	table, err := uc.parser.Parse(session.FileData, session.FileName)
	if err != nil {
		return err
	}
	if _, err := uc.analyzer.Analyze(table); err != nil {
		return err
	}

	valid, invalid := uc.normalizer.Normalize(table.Rows, session.Mapping, session.MergeRules)
	if err := session.SetNormalized(valid, invalid); err != nil {
		return err
	}
	if err := uc.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("persist normalized rows: %w", err)
	}

	report, err := uc.deduplicator.Detect(ctx, session.ValidLeads, uc.leads)
	if err != nil {
		return err
	}
	if err := session.SetDuplicates(report); err != nil {
		return err
	}
	if err := uc.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("persist duplicate report: %w", err)
	}
	return nil
}

func requireFields(mapping map[string]string) error {
	hasEmail, hasName := false, false
	for _, field := range mapping {
		switch field {
		case "email":
			hasEmail = true
		case "full_name", "first_name", "last_name":
			hasName = true
		}
	}
	if !hasEmail {
		return ErrMappingMissingEmail
	}
	if !hasName {
		return ErrMappingMissingName
	}
	return nil
}
