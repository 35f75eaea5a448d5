package importing

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type GetPreviewInput struct {
	Actor     domain.Actor
	SessionID string
}

type GetPreviewOutput struct {
	TotalRows        int                     `json:"total_rows"`
	ValidRows        int                     `json:"valid_rows"`
	InvalidRows      int                     `json:"invalid_rows"`
	NormalizedLeads  []domain.NormalizedLead `json:"normalized_leads"`
	ValidationErrors []domain.InvalidRow     `json:"validation_errors"`
}

type GetPreview interface {
	Execute(ctx context.Context, in GetPreviewInput) (GetPreviewOutput, error)
}

type getPreview struct {
	sessions domain.SessionRepository
}

func NewGetPreview(sessions domain.SessionRepository) GetPreview {
	return &getPreview{sessions: sessions}
}

func (uc *getPreview) Execute(ctx context.Context, in GetPreviewInput) (GetPreviewOutput, error) {
	session, err := loadSessionFor(ctx, uc.sessions, in.SessionID, in.Actor)
	if err != nil {
		return GetPreviewOutput{}, err
	}
	if !normalizedAvailable(session.Status) {
		return GetPreviewOutput{}, fmt.Errorf("%w: preview requires a submitted mapping, session is %s", domain.ErrWrongPhase, session.Status)
	}
	return GetPreviewOutput{
		TotalRows:        session.TotalRows,
		ValidRows:        session.ValidRows,
		InvalidRows:      len(session.InvalidRows),
		NormalizedLeads:  session.ValidLeads,
		ValidationErrors: session.InvalidRows,
	}, nil
}

// normalizedAvailable reports whether phase 3 output has been committed.
func normalizedAvailable(status domain.Status) bool {
	switch status {
	case domain.StatusDeduplicating, domain.StatusReady, domain.StatusCompleted:
		return true
	default:
		return false
	}
}
