package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
	"github.com/mohammadpnp/lead-import/internal/domain/lead"
	"github.com/mohammadpnp/lead-import/internal/infrastructure/db/models"
	"github.com/mohammadpnp/lead-import/internal/infrastructure/repository"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	if err := db.AutoMigrate(&models.ImportSession{}, &models.MappingTemplate{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestImportSessionRepositoryRoundTripIntegration(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewImportSessionRepository(db)
	ctx := context.Background()

	session := domain.NewSession("user-it-1", "leads.csv", []byte("email,name\na@b.com,Ann\n"), domain.AnalysisResult{
		TotalRows:         1,
		DetectedColumns:   []string{"email", "name"},
		SuggestedMappings: map[string]string{"email": "email", "name": "full_name"},
	})
	if err := repo.Create(ctx, session); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(context.Background(), session.ID) })

	if err := session.SubmitMapping(map[string]string{"email": "email", "name": "full_name"}, nil, nil); err != nil {
		t.Fatalf("submit mapping: %v", err)
	}
	if err := session.SetNormalized([]domain.NormalizedLead{
		{RowNum: 1, FullName: "Ann", Email: "a@b.com", Source: lead.SourceOther},
	}, nil); err != nil {
		t.Fatalf("set normalized: %v", err)
	}
	if err := repo.Update(ctx, session); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	loaded, err := repo.Get(ctx, session.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if loaded.Status != domain.StatusDeduplicating {
		t.Fatalf("status = %s, want deduplicating", loaded.Status)
	}
	if len(loaded.ValidLeads) != 1 || loaded.ValidLeads[0].Email != "a@b.com" {
		t.Fatalf("valid leads = %+v", loaded.ValidLeads)
	}
	if loaded.Mapping["email"] != "email" {
		t.Fatalf("mapping = %v", loaded.Mapping)
	}
	if string(loaded.FileData) == "" {
		t.Fatal("file bytes were not persisted")
	}

	listed, err := repo.ListByUser(ctx, "user-it-1", "", 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) == 0 {
		t.Fatal("expected at least one session for the user")
	}
}

func TestImportSessionRepositoryNotFoundIntegration(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewImportSessionRepository(db)

	_, err := repo.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if err := repo.Delete(context.Background(), "00000000-0000-0000-0000-000000000000"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound on delete, got %v", err)
	}
}

func TestMappingTemplateRepositoryIntegration(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewMappingTemplateRepository(db)
	ctx := context.Background()

	template := &domain.Template{
		Name:            "Integration Sheet",
		CreatedBy:       "user-it-1",
		IsActive:        true,
		Mapping:         map[string]string{"email": "email"},
		ColumnSignature: domain.ColumnSignature([]string{"email", "name"}),
	}
	if err := repo.Create(ctx, template); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM mapping_templates WHERE id = ?", template.ID)
	})

	if err := repo.IncrementUseCount(ctx, template.ID); err != nil {
		t.Fatalf("increment failed: %v", err)
	}

	matches, err := repo.FindBySignature(ctx, template.ColumnSignature)
	if err != nil {
		t.Fatalf("find by signature failed: %v", err)
	}
	found := false
	for _, m := range matches {
		if m.ID == template.ID {
			found = true
			if m.UseCount != 1 {
				t.Fatalf("use count = %d, want 1", m.UseCount)
			}
		}
	}
	if !found {
		t.Fatal("created template not returned by signature lookup")
	}

	if err := repo.SoftDelete(ctx, template.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, template.ID); !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound after soft delete, got %v", err)
	}
}
