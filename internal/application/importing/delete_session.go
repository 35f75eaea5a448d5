package importing

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type DeleteSessionInput struct {
	Actor     domain.Actor
	SessionID string
}

type DeleteSession interface {
	Execute(ctx context.Context, in DeleteSessionInput) error
}

type deleteSession struct {
	sessions domain.SessionRepository
}

func NewDeleteSession(sessions domain.SessionRepository) DeleteSession {
	return &deleteSession{sessions: sessions}
}

// Execute hard-deletes the session record. Removal is allowed in every state;
// the completed/failed lock only applies to phase mutations.
func (uc *deleteSession) Execute(ctx context.Context, in DeleteSessionInput) error {
	session, err := loadSessionFor(ctx, uc.sessions, in.SessionID, in.Actor)
	if err != nil {
		return err
	}
	if err := uc.sessions.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("delete import session: %w", err)
	}
	return nil
}
