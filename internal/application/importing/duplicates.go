package importing

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type GetDuplicatesInput struct {
	Actor     domain.Actor
	SessionID string
}

type GetDuplicatesOutput struct {
	TotalDuplicates    int                     `json:"total_duplicates"`
	InFileDuplicates   []domain.DuplicateGroup `json:"in_file_duplicates"`
	ExistingDuplicates []domain.ExistingMatch  `json:"existing_duplicates"`
	SmartMatches       []domain.ExistingMatch  `json:"smart_matches"`
}

type GetDuplicates interface {
	Execute(ctx context.Context, in GetDuplicatesInput) (GetDuplicatesOutput, error)
}

type getDuplicates struct {
	sessions domain.SessionRepository
}

func NewGetDuplicates(sessions domain.SessionRepository) GetDuplicates {
	return &getDuplicates{sessions: sessions}
}

func (uc *getDuplicates) Execute(ctx context.Context, in GetDuplicatesInput) (GetDuplicatesOutput, error) {
	session, err := loadSessionFor(ctx, uc.sessions, in.SessionID, in.Actor)
	if err != nil {
		return GetDuplicatesOutput{}, err
	}
	if session.Status != domain.StatusReady && session.Status != domain.StatusCompleted {
		return GetDuplicatesOutput{}, fmt.Errorf("%w: duplicates require the ready phase, session is %s", domain.ErrWrongPhase, session.Status)
	}
	return GetDuplicatesOutput{
		TotalDuplicates:    session.Duplicates.Total(),
		InFileDuplicates:   session.Duplicates.InFile,
		ExistingDuplicates: session.Duplicates.Existing,
		SmartMatches:       session.Duplicates.Smart,
	}, nil
}
