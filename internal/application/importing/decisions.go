package importing

import (
	"context"
	"fmt"
	"strconv"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type SubmitDecisionsInput struct {
	Actor     domain.Actor
	SessionID string
	// Decisions maps row numbers (as strings, matching the wire format) to
	// skip, update or insert.
	Decisions map[string]string
}

type SubmitDecisionsOutput struct {
	SessionID string        `json:"session_id"`
	Status    domain.Status `json:"status"`
	Stored    int           `json:"stored"`
}

type SubmitDecisions interface {
	Execute(ctx context.Context, in SubmitDecisionsInput) (SubmitDecisionsOutput, error)
}

type submitDecisions struct {
	sessions domain.SessionRepository
}

func NewSubmitDecisions(sessions domain.SessionRepository) SubmitDecisions {
	return &submitDecisions{sessions: sessions}
}

func (uc *submitDecisions) Execute(ctx context.Context, in SubmitDecisionsInput) (SubmitDecisionsOutput, error) {
	decisions, err := ParseDecisions(in.Decisions)
	if err != nil {
		return SubmitDecisionsOutput{}, err
	}

	session, err := loadSessionFor(ctx, uc.sessions, in.SessionID, in.Actor)
	if err != nil {
		return SubmitDecisionsOutput{}, err
	}
	if err := session.SetDecisions(decisions); err != nil {
		return SubmitDecisionsOutput{}, err
	}
	if err := uc.sessions.Update(ctx, session); err != nil {
		return SubmitDecisionsOutput{}, fmt.Errorf("persist decisions: %w", err)
	}

	return SubmitDecisionsOutput{SessionID: session.ID, Status: session.Status, Stored: len(decisions)}, nil
}

// ParseDecisions converts the wire representation into typed decisions keyed
// by row number.
func ParseDecisions(raw map[string]string) (map[int]domain.Decision, error) {
	decisions := make(map[int]domain.Decision, len(raw))
	for key, value := range raw {
		rowNum, err := strconv.Atoi(key)
		if err != nil || rowNum < 1 {
			return nil, fmt.Errorf("%w: row key %q", ErrBadDecisions, key)
		}
		decision, err := domain.ParseDecision(value)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadDecisions, rowNum, err)
		}
		decisions[rowNum] = decision
	}
	return decisions, nil
}
