package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
	"github.com/mohammadpnp/lead-import/internal/infrastructure/db/models"
)

type ImportSessionRepository struct {
	db *gorm.DB
}

func NewImportSessionRepository(db *gorm.DB) *ImportSessionRepository {
	return &ImportSessionRepository{db: db}
}

// JSON column payloads. Everything the workflow accumulates beyond scalar
// counters is serialized through these at the storage boundary.
type mappingPayload struct {
	Mapping        map[string]string  `json:"mapping"`
	MergeRules     []domain.MergeRule `json:"merge_rules"`
	IgnoredColumns []string           `json:"ignored_columns"`
}

type normalizedPayload struct {
	Valid   []domain.NormalizedLead `json:"valid"`
	Invalid []domain.InvalidRow     `json:"invalid"`
}

type resultPayload struct {
	Summary         domain.Summary `json:"summary"`
	InsertedLeadIDs []int64        `json:"inserted_lead_ids"`
	UpdatedLeadIDs  []int64        `json:"updated_lead_ids"`
}

func (r *ImportSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	row, err := toSessionModel(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create import session: %w", err)
	}
	session.CreatedAt = row.CreatedAt
	session.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *ImportSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var row models.ImportSession
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get import session: %w", err)
	}
	return toDomainSession(&row)
}

func (r *ImportSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	row, err := toSessionModel(session)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("update import session: %w", err)
	}
	return nil
}

func (r *ImportSessionRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.ImportSession{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete import session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *ImportSessionRepository) ListByUser(ctx context.Context, userID string, status domain.Status, limit int) ([]*domain.Session, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var rows []models.ImportSession
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list import sessions: %w", err)
	}

	sessions := make([]*domain.Session, 0, len(rows))
	for i := range rows {
		session, err := toDomainSession(&rows[i])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, nil
}

func toSessionModel(session *domain.Session) (*models.ImportSession, error) {
	analysis, err := marshalColumn(session.Analysis)
	if err != nil {
		return nil, err
	}
	mapping, err := marshalColumn(mappingPayload{
		Mapping:        session.Mapping,
		MergeRules:     session.MergeRules,
		IgnoredColumns: session.IgnoredColumns,
	})
	if err != nil {
		return nil, err
	}
	normalized, err := marshalColumn(normalizedPayload{
		Valid:   session.ValidLeads,
		Invalid: session.InvalidRows,
	})
	if err != nil {
		return nil, err
	}
	duplicates, err := marshalColumn(session.Duplicates)
	if err != nil {
		return nil, err
	}
	decisions, err := marshalColumn(session.Decisions)
	if err != nil {
		return nil, err
	}
	result, err := marshalColumn(resultPayload{
		Summary:         derefSummary(session.Result),
		InsertedLeadIDs: session.InsertedLeadIDs,
		UpdatedLeadIDs:  session.UpdatedLeadIDs,
	})
	if err != nil {
		return nil, err
	}

	row := &models.ImportSession{
		ID:         session.ID,
		UserID:     session.UserID,
		Status:     string(session.Status),
		FileName:   session.FileName,
		FileData:   session.FileData,
		TotalRows:  session.TotalRows,
		ValidRows:  session.ValidRows,
		Analysis:   analysis,
		Mapping:    mapping,
		Normalized: normalized,
		Duplicates: duplicates,
		Decisions:  decisions,
		Result:     result,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}
	if session.ErrorMessage != "" {
		row.ErrorMessage = &session.ErrorMessage
	}
	return row, nil
}

func toDomainSession(row *models.ImportSession) (*domain.Session, error) {
	session := &domain.Session{
		ID:        row.ID,
		UserID:    row.UserID,
		Status:    domain.Status(row.Status),
		FileName:  row.FileName,
		FileData:  row.FileData,
		TotalRows: row.TotalRows,
		ValidRows: row.ValidRows,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.ErrorMessage != nil {
		session.ErrorMessage = *row.ErrorMessage
	}

	if err := unmarshalColumn(row.Analysis, &session.Analysis); err != nil {
		return nil, err
	}

	var mapping mappingPayload
	if err := unmarshalColumn(row.Mapping, &mapping); err != nil {
		return nil, err
	}
	session.Mapping = mapping.Mapping
	session.MergeRules = mapping.MergeRules
	session.IgnoredColumns = mapping.IgnoredColumns

	var normalized normalizedPayload
	if err := unmarshalColumn(row.Normalized, &normalized); err != nil {
		return nil, err
	}
	session.ValidLeads = normalized.Valid
	session.InvalidRows = normalized.Invalid

	if err := unmarshalColumn(row.Duplicates, &session.Duplicates); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(row.Decisions, &session.Decisions); err != nil {
		return nil, err
	}

	var result resultPayload
	if err := unmarshalColumn(row.Result, &result); err != nil {
		return nil, err
	}
	if session.Status == domain.StatusCompleted {
		summary := result.Summary
		session.Result = &summary
	}
	session.InsertedLeadIDs = result.InsertedLeadIDs
	session.UpdatedLeadIDs = result.UpdatedLeadIDs

	return session, nil
}

func marshalColumn(value any) (datatypes.JSON, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal session column: %w", err)
	}
	return datatypes.JSON(data), nil
}

func unmarshalColumn(data datatypes.JSON, target any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshal session column: %w", err)
	}
	return nil
}

func derefSummary(summary *domain.Summary) domain.Summary {
	if summary == nil {
		return domain.Summary{}
	}
	return *summary
}
