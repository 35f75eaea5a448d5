package importing

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

// loadSessionFor fetches a session and enforces ownership: only the creating
// user or an admin may touch it.
func loadSessionFor(ctx context.Context, sessions domain.SessionRepository, id string, actor domain.Actor) (*domain.Session, error) {
	session, err := sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.AccessibleBy(actor) {
		return nil, domain.ErrForbidden
	}
	return session, nil
}

type GetSessionInput struct {
	Actor     domain.Actor
	SessionID string
}

type SessionView struct {
	SessionID       string          `json:"session_id"`
	Status          domain.Status   `json:"status"`
	FileName        string          `json:"file_name"`
	TotalRows       int             `json:"total_rows"`
	ValidRows       int             `json:"valid_rows"`
	Result          *domain.Summary `json:"result,omitempty"`
	InsertedLeadIDs []int64         `json:"inserted_lead_ids,omitempty"`
	UpdatedLeadIDs  []int64         `json:"updated_lead_ids,omitempty"`
	ErrorMessage    string          `json:"error_message,omitempty"`
}

type GetSession interface {
	Execute(ctx context.Context, in GetSessionInput) (SessionView, error)
}

type getSession struct {
	sessions domain.SessionRepository
}

func NewGetSession(sessions domain.SessionRepository) GetSession {
	return &getSession{sessions: sessions}
}

func (uc *getSession) Execute(ctx context.Context, in GetSessionInput) (SessionView, error) {
	session, err := loadSessionFor(ctx, uc.sessions, in.SessionID, in.Actor)
	if err != nil {
		return SessionView{}, err
	}
	return newSessionView(session), nil
}

func newSessionView(session *domain.Session) SessionView {
	return SessionView{
		SessionID:       session.ID,
		Status:          session.Status,
		FileName:        session.FileName,
		TotalRows:       session.TotalRows,
		ValidRows:       session.ValidRows,
		Result:          session.Result,
		InsertedLeadIDs: session.InsertedLeadIDs,
		UpdatedLeadIDs:  session.UpdatedLeadIDs,
		ErrorMessage:    session.ErrorMessage,
	}
}

type ListSessionsInput struct {
	Actor  domain.Actor
	Status domain.Status
	Limit  int
}

type ListSessionsOutput struct {
	Sessions []SessionView `json:"sessions"`
}

type ListSessions interface {
	Execute(ctx context.Context, in ListSessionsInput) (ListSessionsOutput, error)
}

type listSessions struct {
	sessions domain.SessionRepository
}

func NewListSessions(sessions domain.SessionRepository) ListSessions {
	return &listSessions{sessions: sessions}
}

func (uc *listSessions) Execute(ctx context.Context, in ListSessionsInput) (ListSessionsOutput, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	sessions, err := uc.sessions.ListByUser(ctx, in.Actor.UserID, in.Status, limit)
	if err != nil {
		return ListSessionsOutput{}, fmt.Errorf("list import sessions: %w", err)
	}
	views := make([]SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, newSessionView(session))
	}
	return ListSessionsOutput{Sessions: views}, nil
}
