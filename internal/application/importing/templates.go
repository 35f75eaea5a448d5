package importing

import (
	"context"
	"fmt"

	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type TemplateView struct {
	ID              int64              `json:"id"`
	Name            string             `json:"name"`
	Description     string             `json:"description,omitempty"`
	IsDefault       bool               `json:"is_default"`
	Mapping         map[string]string  `json:"mapping"`
	MergeRules      []domain.MergeRule `json:"merge_rules"`
	IgnoredColumns  []string           `json:"ignored_columns"`
	ColumnSignature string             `json:"column_signature"`
	UseCount        int                `json:"use_count"`
}

func newTemplateView(t *domain.Template) TemplateView {
	return TemplateView{
		ID:              t.ID,
		Name:            t.Name,
		Description:     t.Description,
		IsDefault:       t.IsDefault,
		Mapping:         t.Mapping,
		MergeRules:      t.MergeRules,
		IgnoredColumns:  t.IgnoredColumns,
		ColumnSignature: t.ColumnSignature,
		UseCount:        t.UseCount,
	}
}

type CreateTemplateInput struct {
	Actor          domain.Actor
	Name           string
	Description    string
	IsDefault      bool
	Mapping        map[string]string
	MergeRules     []domain.MergeRule
	IgnoredColumns []string
	// Columns, when provided, derive the signature server-side.
	Columns []string
}

type CreateTemplate interface {
	Execute(ctx context.Context, in CreateTemplateInput) (TemplateView, error)
}

type createTemplate struct {
	templates domain.TemplateRepository
}

func NewCreateTemplate(templates domain.TemplateRepository) CreateTemplate {
	return &createTemplate{templates: templates}
}

func (uc *createTemplate) Execute(ctx context.Context, in CreateTemplateInput) (TemplateView, error) {
	template := &domain.Template{
		Name:            in.Name,
		Description:     in.Description,
		CreatedBy:       in.Actor.UserID,
		IsDefault:       in.IsDefault,
		IsActive:        true,
		Mapping:         in.Mapping,
		MergeRules:      in.MergeRules,
		IgnoredColumns:  in.IgnoredColumns,
		ColumnSignature: domain.ColumnSignature(in.Columns),
	}
	if err := uc.templates.Create(ctx, template); err != nil {
		return TemplateView{}, fmt.Errorf("create mapping template: %w", err)
	}
	return newTemplateView(template), nil
}

type GetTemplateInput struct {
	ID int64
}

type GetTemplate interface {
	Execute(ctx context.Context, in GetTemplateInput) (TemplateView, error)
}

type getTemplate struct {
	templates domain.TemplateRepository
}

func NewGetTemplate(templates domain.TemplateRepository) GetTemplate {
	return &getTemplate{templates: templates}
}

func (uc *getTemplate) Execute(ctx context.Context, in GetTemplateInput) (TemplateView, error) {
	template, err := uc.templates.Get(ctx, in.ID)
	if err != nil {
		return TemplateView{}, err
	}
	return newTemplateView(template), nil
}

type ListTemplatesInput struct {
	// Signature filters to templates matching that column signature; empty
	// lists all active templates. Both orderings are most-used first.
	Signature string
}

type ListTemplatesOutput struct {
	Templates []TemplateView `json:"templates"`
}

type ListTemplates interface {
	Execute(ctx context.Context, in ListTemplatesInput) (ListTemplatesOutput, error)
}

type listTemplates struct {
	templates domain.TemplateRepository
}

func NewListTemplates(templates domain.TemplateRepository) ListTemplates {
	return &listTemplates{templates: templates}
}

func (uc *listTemplates) Execute(ctx context.Context, in ListTemplatesInput) (ListTemplatesOutput, error) {
	var (
		templates []*domain.Template
		err       error
	)
	if in.Signature != "" {
		templates, err = uc.templates.FindBySignature(ctx, in.Signature)
	} else {
		templates, err = uc.templates.List(ctx, true)
	}
	if err != nil {
		return ListTemplatesOutput{}, fmt.Errorf("list mapping templates: %w", err)
	}
	views := make([]TemplateView, 0, len(templates))
	for _, template := range templates {
		views = append(views, newTemplateView(template))
	}
	return ListTemplatesOutput{Templates: views}, nil
}

type UpdateTemplateInput struct {
	ID             int64
	Name           *string
	Description    *string
	IsDefault      *bool
	Mapping        map[string]string
	MergeRules     []domain.MergeRule
	IgnoredColumns []string
}

type UpdateTemplate interface {
	Execute(ctx context.Context, in UpdateTemplateInput) (TemplateView, error)
}

type updateTemplate struct {
	templates domain.TemplateRepository
}

func NewUpdateTemplate(templates domain.TemplateRepository) UpdateTemplate {
	return &updateTemplate{templates: templates}
}

func (uc *updateTemplate) Execute(ctx context.Context, in UpdateTemplateInput) (TemplateView, error) {
	template, err := uc.templates.Get(ctx, in.ID)
	if err != nil {
		return TemplateView{}, err
	}
	if in.Name != nil {
		template.Name = *in.Name
	}
	if in.Description != nil {
		template.Description = *in.Description
	}
	if in.IsDefault != nil {
		template.IsDefault = *in.IsDefault
	}
	if in.Mapping != nil {
		template.Mapping = in.Mapping
	}
	if in.MergeRules != nil {
		template.MergeRules = in.MergeRules
	}
	if in.IgnoredColumns != nil {
		template.IgnoredColumns = in.IgnoredColumns
	}
	if err := uc.templates.Update(ctx, template); err != nil {
		return TemplateView{}, fmt.Errorf("update mapping template: %w", err)
	}
	return newTemplateView(template), nil
}

type DeleteTemplateInput struct {
	ID int64
}

type DeleteTemplate interface {
	Execute(ctx context.Context, in DeleteTemplateInput) error
}

type deleteTemplate struct {
	templates domain.TemplateRepository
}

func NewDeleteTemplate(templates domain.TemplateRepository) DeleteTemplate {
	return &deleteTemplate{templates: templates}
}

// Execute soft-deletes: the template stops matching and listing but keeps its
// history.
func (uc *deleteTemplate) Execute(ctx context.Context, in DeleteTemplateInput) error {
	return uc.templates.SoftDelete(ctx, in.ID)
}
