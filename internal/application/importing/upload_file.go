package importing

import (
	"context"
	"errors"
	"fmt"
	"log"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

// TableParser turns uploaded bytes into a row-major table. The concrete
// implementation lives in infrastructure/spreadsheet.
type TableParser interface {
	Parse(content []byte, filename string) (*domain.Table, error)
}

type UploadFileInput struct {
	Actor    domain.Actor
	FileName string
	Content  []byte
}

type TemplateSuggestion struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	UseCount  int    `json:"use_count"`
}

type UploadFileOutput struct {
	SessionID            string               `json:"session_id"`
	TotalRows            int                  `json:"total_rows"`
	DetectedColumns      []string             `json:"detected_columns"`
	RemovedColumns       []string             `json:"removed_columns"`
	SuggestedMappings    map[string]string    `json:"suggested_mappings"`
	SampleRows           []map[string]string  `json:"sample_rows"`
	ColumnSignature      string               `json:"column_signature"`
	AvailableCRMFields   []string             `json:"available_crm_fields"`
	RecommendedTemplates []TemplateSuggestion `json:"recommended_templates"`
}

type UploadFile interface {
	Execute(ctx context.Context, in UploadFileInput) (UploadFileOutput, error)
}

type uploadFile struct {
	parser    TableParser
	analyzer  *domain.Analyzer
	sessions  domain.SessionRepository
	templates domain.TemplateRepository
}

func NewUploadFile(parser TableParser, analyzer *domain.Analyzer, sessions domain.SessionRepository, templates domain.TemplateRepository) UploadFile {
	return &uploadFile{parser: parser, analyzer: analyzer, sessions: sessions, templates: templates}
}

func (uc *uploadFile) Execute(ctx context.Context, in UploadFileInput) (UploadFileOutput, error) {
	if in.FileName == "" || len(in.Content) == 0 {
		return UploadFileOutput{}, ErrNoFile
	}

	table, err := uc.parser.Parse(in.Content, in.FileName)
	if err != nil {
		return UploadFileOutput{}, err
	}

	analysis, err := uc.analyzer.Analyze(table)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyFile) || errors.Is(err, domain.ErrNoValidColumns) {
			return UploadFileOutput{}, err
		}
		return UploadFileOutput{}, fmt.Errorf("%w: %v", ErrAnalyzeFile, err)
	}

	session := domain.NewSession(in.Actor.UserID, in.FileName, in.Content, analysis)
	if err := uc.sessions.Create(ctx, session); err != nil {
		return UploadFileOutput{}, fmt.Errorf("create import session: %w", err)
	}

	return UploadFileOutput{
		SessionID:            session.ID,
		TotalRows:            analysis.TotalRows,
		DetectedColumns:      analysis.DetectedColumns,
		RemovedColumns:       analysis.RemovedColumns,
		SuggestedMappings:    analysis.SuggestedMappings,
		SampleRows:           analysis.SampleRows,
		ColumnSignature:      analysis.ColumnSignature,
		AvailableCRMFields:   domain.AvailableCRMFields(),
		RecommendedTemplates: uc.recommendTemplates(ctx, analysis.ColumnSignature),
	}, nil
}

// recommendTemplates is best-effort: a template lookup failure never blocks
// the upload itself.
func (uc *uploadFile) recommendTemplates(ctx context.Context, signature string) []TemplateSuggestion {
	templates, err := uc.templates.FindBySignature(ctx, signature)
	if err != nil {
		log.Printf("find matching templates failed: %v", err)
		return []TemplateSuggestion{}
	}
	suggestions := make([]TemplateSuggestion, 0, len(templates))
	for _, t := range templates {
		suggestions = append(suggestions, TemplateSuggestion{
			ID:        t.ID,
			Name:      t.Name,
			IsDefault: t.IsDefault,
			UseCount:  t.UseCount,
		})
	}
	return suggestions
}
