package importing

import (
	"context"

	"github.com/mohammadpnp/lead-import/internal/domain/lead"
)

// SessionRepository persists the whole session after every phase transition;
// reads always reflect the latest committed phase.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, status Status, limit int) ([]*Session, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, template *Template) error
	Get(ctx context.Context, id int64) (*Template, error)
	List(ctx context.Context, activeOnly bool) ([]*Template, error)
	FindBySignature(ctx context.Context, signature string) ([]*Template, error)
	Update(ctx context.Context, template *Template) error
	SoftDelete(ctx context.Context, id int64) error
	IncrementUseCount(ctx context.Context, id int64) error
}

// LeadRepository is the import core's window onto the CRM lead store: batched
// lookups for dedupe plus insert/update for execution. Never deletes.
type LeadRepository interface {
	LeadDirectory
	Insert(ctx context.Context, l lead.Lead) (int64, error)
	UpdateContact(ctx context.Context, id int64, fullName, email, phone string) error
}
