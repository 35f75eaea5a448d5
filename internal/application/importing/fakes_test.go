package importing_test

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
	"github.com/mohammadpnp/lead-import/internal/domain/lead"
)

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
	updates  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, id string) (*domain.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) Update(ctx context.Context, session *domain.Session) error {
	if _, ok := f.sessions[session.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	f.sessions[session.ID] = session
	f.updates++
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionRepo) ListByUser(ctx context.Context, userID string, status domain.Status, limit int) ([]*domain.Session, error) {
	out := make([]*domain.Session, 0)
	for _, session := range f.sessions {
		if session.UserID != userID {
			continue
		}
		if status != "" && session.Status != status {
			continue
		}
		out = append(out, session)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type fakeTemplateRepo struct {
	templates   map[int64]*domain.Template
	nextID      int64
	incremented []int64
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[int64]*domain.Template), nextID: 1}
}

func (f *fakeTemplateRepo) Create(ctx context.Context, template *domain.Template) error {
	template.ID = f.nextID
	f.nextID++
	f.templates[template.ID] = template
	return nil
}

func (f *fakeTemplateRepo) Get(ctx context.Context, id int64) (*domain.Template, error) {
	template, ok := f.templates[id]
	if !ok || !template.IsActive {
		return nil, domain.ErrTemplateNotFound
	}
	return template, nil
}

func (f *fakeTemplateRepo) List(ctx context.Context, activeOnly bool) ([]*domain.Template, error) {
	out := make([]*domain.Template, 0)
	for _, template := range f.templates {
		if activeOnly && !template.IsActive {
			continue
		}
		out = append(out, template)
	}
	return out, nil
}

func (f *fakeTemplateRepo) FindBySignature(ctx context.Context, signature string) ([]*domain.Template, error) {
	out := make([]*domain.Template, 0)
	for _, template := range f.templates {
		if template.IsActive && template.ColumnSignature == signature {
			out = append(out, template)
		}
	}
	return out, nil
}

func (f *fakeTemplateRepo) Update(ctx context.Context, template *domain.Template) error {
	if _, ok := f.templates[template.ID]; !ok {
		return domain.ErrTemplateNotFound
	}
	f.templates[template.ID] = template
	return nil
}

func (f *fakeTemplateRepo) SoftDelete(ctx context.Context, id int64) error {
	template, ok := f.templates[id]
	if !ok || !template.IsActive {
		return domain.ErrTemplateNotFound
	}
	template.IsActive = false
	return nil
}

func (f *fakeTemplateRepo) IncrementUseCount(ctx context.Context, id int64) error {
	template, ok := f.templates[id]
	if !ok {
		return domain.ErrTemplateNotFound
	}
	template.UseCount++
	f.incremented = append(f.incremented, id)
	return nil
}

// fakeLeadRepo holds the pre-existing CRM leads and records writes.
type fakeLeadRepo struct {
	existing []lead.Lead
	nextID   int64

	inserted []lead.Lead
	updated  map[int64]domain.ContactSnapshot

	failInsertEmail string
}

func newFakeLeadRepo(existing ...lead.Lead) *fakeLeadRepo {
	return &fakeLeadRepo{
		existing: existing,
		nextID:   1000,
		updated:  make(map[int64]domain.ContactSnapshot),
	}
}

func (f *fakeLeadRepo) FindByEmails(ctx context.Context, emails []string) ([]lead.Lead, error) {
	wanted := make(map[string]bool, len(emails))
	for _, email := range emails {
		wanted[strings.ToLower(email)] = true
	}
	out := make([]lead.Lead, 0)
	for _, l := range f.existing {
		if wanted[strings.ToLower(l.Email)] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeadRepo) FindByPhones(ctx context.Context, phones []string) ([]lead.Lead, error) {
	wanted := make(map[string]bool, len(phones))
	for _, phone := range phones {
		wanted[phone] = true
	}
	out := make([]lead.Lead, 0)
	for _, l := range f.existing {
		if l.Phone != "" && wanted[l.Phone] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLeadRepo) ListRecent(ctx context.Context, limit int) ([]lead.Lead, error) {
	if len(f.existing) > limit {
		return f.existing[:limit], nil
	}
	return f.existing, nil
}

func (f *fakeLeadRepo) Insert(ctx context.Context, l lead.Lead) (int64, error) {
	if f.failInsertEmail != "" && l.Email == f.failInsertEmail {
		return 0, fmt.Errorf("insert lead: duplicate key")
	}
	f.nextID++
	l.ID = f.nextID
	f.inserted = append(f.inserted, l)
	return l.ID, nil
}

func (f *fakeLeadRepo) UpdateContact(ctx context.Context, id int64, fullName, email, phone string) error {
	f.updated[id] = domain.ContactSnapshot{FullName: fullName, Email: email, Phone: phone}
	return nil
}
