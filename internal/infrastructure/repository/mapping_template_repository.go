package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
	"github.com/mohammadpnp/lead-import/internal/infrastructure/db/models"
)

type MappingTemplateRepository struct {
	db *gorm.DB
}

func NewMappingTemplateRepository(db *gorm.DB) *MappingTemplateRepository {
	return &MappingTemplateRepository{db: db}
}

func (r *MappingTemplateRepository) Create(ctx context.Context, template *domain.Template) error {
	row, err := toTemplateModel(template)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create mapping template: %w", err)
	}
	template.ID = row.ID
	template.CreatedAt = row.CreatedAt
	template.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *MappingTemplateRepository) Get(ctx context.Context, id int64) (*domain.Template, error) {
	var row models.MappingTemplate
	err := r.db.WithContext(ctx).First(&row, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("get mapping template: %w", err)
	}
	return toDomainTemplate(&row)
}

func (r *MappingTemplateRepository) List(ctx context.Context, activeOnly bool) ([]*domain.Template, error) {
	query := r.db.WithContext(ctx)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.MappingTemplate
	if err := query.Order("use_count DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list mapping templates: %w", err)
	}
	return toDomainTemplates(rows)
}

// FindBySignature returns active templates with exactly that signature,
// most-used first.
func (r *MappingTemplateRepository) FindBySignature(ctx context.Context, signature string) ([]*domain.Template, error) {
	var rows []models.MappingTemplate
	err := r.db.WithContext(ctx).
		Where("column_signature = ? AND is_active = ?", signature, true).
		Order("use_count DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find templates by signature: %w", err)
	}
	return toDomainTemplates(rows)
}

func (r *MappingTemplateRepository) Update(ctx context.Context, template *domain.Template) error {
	row, err := toTemplateModel(template)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(row).Error; err != nil {
		return fmt.Errorf("update mapping template: %w", err)
	}
	return nil
}

func (r *MappingTemplateRepository) SoftDelete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.MappingTemplate{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("soft delete mapping template: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *MappingTemplateRepository) IncrementUseCount(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).
		Model(&models.MappingTemplate{}).
		Where("id = ?", id).
		UpdateColumn("use_count", gorm.Expr("use_count + 1"))
	if result.Error != nil {
		return fmt.Errorf("increment template use count: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func toTemplateModel(template *domain.Template) (*models.MappingTemplate, error) {
	mapping, err := marshalColumn(template.Mapping)
	if err != nil {
		return nil, err
	}
	mergeRules, err := marshalColumn(template.MergeRules)
	if err != nil {
		return nil, err
	}
	ignored, err := marshalColumn(template.IgnoredColumns)
	if err != nil {
		return nil, err
	}
	return &models.MappingTemplate{
		ID:              template.ID,
		Name:            template.Name,
		Description:     template.Description,
		CreatedBy:       template.CreatedBy,
		IsDefault:       template.IsDefault,
		IsActive:        template.IsActive,
		Mapping:         mapping,
		MergeRules:      mergeRules,
		IgnoredColumns:  ignored,
		ColumnSignature: template.ColumnSignature,
		UseCount:        template.UseCount,
		CreatedAt:       template.CreatedAt,
		UpdatedAt:       template.UpdatedAt,
	}, nil
}

func toDomainTemplate(row *models.MappingTemplate) (*domain.Template, error) {
	template := &domain.Template{
		ID:              row.ID,
		Name:            row.Name,
		Description:     row.Description,
		CreatedBy:       row.CreatedBy,
		IsDefault:       row.IsDefault,
		IsActive:        row.IsActive,
		ColumnSignature: row.ColumnSignature,
		UseCount:        row.UseCount,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if err := unmarshalColumn(row.Mapping, &template.Mapping); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(row.MergeRules, &template.MergeRules); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(row.IgnoredColumns, &template.IgnoredColumns); err != nil {
		return nil, err
	}
	return template, nil
}

func toDomainTemplates(rows []models.MappingTemplate) ([]*domain.Template, error) {
	templates := make([]*domain.Template, 0, len(rows))
	for i := range rows {
		template, err := toDomainTemplate(&rows[i])
		if err != nil {
			return nil, err
		}
		templates = append(templates, template)
	}
	return templates, nil
}
