package echo

import (
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/lead-import/internal/application/importing"
	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type TemplateHandler struct {
	create app.CreateTemplate
	get    app.GetTemplate
	list   app.ListTemplates
	update app.UpdateTemplate
	remove app.DeleteTemplate
}

func NewTemplateHandler(
	create app.CreateTemplate,
	get app.GetTemplate,
	list app.ListTemplates,
	update app.UpdateTemplate,
	remove app.DeleteTemplate,
) *TemplateHandler {
	return &TemplateHandler{create: create, get: get, list: list, update: update, remove: remove}
}

type createTemplateRequest struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	IsDefault      bool               `json:"is_default"`
	Mapping        map[string]string  `json:"mapping"`
	MergeRules     []domain.MergeRule `json:"merge_rules"`
	IgnoredColumns []string           `json:"ignored_columns"`
	Columns        []string           `json:"columns"`
}

func (r createTemplateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Mapping, validation.Required),
		validation.Field(&r.Columns, validation.Required),
	)
}

func (h *TemplateHandler) Create(c echo.Context) error {
	var req createTemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.create.Execute(c.Request().Context(), app.CreateTemplateInput{
		Actor:          actorFrom(c),
		Name:           req.Name,
		Description:    req.Description,
		IsDefault:      req.IsDefault,
		Mapping:        req.Mapping,
		MergeRules:     req.MergeRules,
		IgnoredColumns: req.IgnoredColumns,
		Columns:        req.Columns,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *TemplateHandler) Get(c echo.Context) error {
	id, err := templateID(c)
	if err != nil {
		return badRequest(c, "invalid template id")
	}
	out, err := h.get.Execute(c.Request().Context(), app.GetTemplateInput{ID: id})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

// List returns active templates, optionally filtered to a column signature.
func (h *TemplateHandler) List(c echo.Context) error {
	out, err := h.list.Execute(c.Request().Context(), app.ListTemplatesInput{
		Signature: c.QueryParam("signature"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

type updateTemplateRequest struct {
	Name           *string            `json:"name"`
	Description    *string            `json:"description"`
	IsDefault      *bool              `json:"is_default"`
	Mapping        map[string]string  `json:"mapping"`
	MergeRules     []domain.MergeRule `json:"merge_rules"`
	IgnoredColumns []string           `json:"ignored_columns"`
}

func (r updateTemplateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 255)),
	)
}

func (h *TemplateHandler) Update(c echo.Context) error {
	id, err := templateID(c)
	if err != nil {
		return badRequest(c, "invalid template id")
	}
	var req updateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.update.Execute(c.Request().Context(), app.UpdateTemplateInput{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		IsDefault:      req.IsDefault,
		Mapping:        req.Mapping,
		MergeRules:     req.MergeRules,
		IgnoredColumns: req.IgnoredColumns,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *TemplateHandler) Delete(c echo.Context) error {
	id, err := templateID(c)
	if err != nil {
		return badRequest(c, "invalid template id")
	}
	if err := h.remove.Execute(c.Request().Context(), app.DeleteTemplateInput{ID: id}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func templateID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
