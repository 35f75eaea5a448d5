package echo

import (
	"errors"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/lead-import/internal/application/importing"
	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
)

type ImportHandler struct {
	upload     app.UploadFile
	getSession app.GetSession
	list       app.ListSessions
	mapping    app.SubmitMapping
	preview    app.GetPreview
	duplicates app.GetDuplicates
	decisions  app.SubmitDecisions
	execute    app.ExecuteImport
	remove     app.DeleteSession
}

func NewImportHandler(
	upload app.UploadFile,
	getSession app.GetSession,
	list app.ListSessions,
	mapping app.SubmitMapping,
	preview app.GetPreview,
	duplicates app.GetDuplicates,
	decisions app.SubmitDecisions,
	execute app.ExecuteImport,
	remove app.DeleteSession,
) *ImportHandler {
	return &ImportHandler{
		upload:     upload,
		getSession: getSession,
		list:       list,
		mapping:    mapping,
		preview:    preview,
		duplicates: duplicates,
		decisions:  decisions,
		execute:    execute,
		remove:     remove,
	}
}

// Upload accepts a multipart file upload and opens an import session.
func (h *ImportHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "multipart field \"file\" is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "unable to open uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return badRequest(c, "unable to read uploaded file")
	}

	out, err := h.upload.Execute(c.Request().Context(), app.UploadFileInput{
		Actor:    actorFrom(c),
		FileName: fileHeader.Filename,
		Content:  content,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, apiResponse{Data: out})
}

func (h *ImportHandler) Status(c echo.Context) error {
	out, err := h.getSession.Execute(c.Request().Context(), app.GetSessionInput{
		Actor:     actorFrom(c),
		SessionID: c.Param("id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) List(c echo.Context) error {
	var query struct {
		Status string `query:"status"`
		Limit  int    `query:"limit"`
	}
	if err := c.Bind(&query); err != nil {
		return badRequest(c, "invalid query parameters")
	}
	out, err := h.list.Execute(c.Request().Context(), app.ListSessionsInput{
		Actor:  actorFrom(c),
		Status: domain.Status(query.Status),
		Limit:  query.Limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

type submitMappingRequest struct {
	Mapping        map[string]string  `json:"mapping"`
	MergeRules     []domain.MergeRule `json:"merge_rules"`
	IgnoredColumns []string           `json:"ignored_columns"`
	TemplateID     int64              `json:"template_id"`
}

func (r submitMappingRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Mapping, validation.Required),
	)
}

func (h *ImportHandler) SubmitMapping(c echo.Context) error {
	var req submitMappingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.mapping.Execute(c.Request().Context(), app.SubmitMappingInput{
		Actor:          actorFrom(c),
		SessionID:      c.Param("id"),
		Mapping:        req.Mapping,
		MergeRules:     req.MergeRules,
		IgnoredColumns: req.IgnoredColumns,
		TemplateID:     req.TemplateID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) Preview(c echo.Context) error {
	out, err := h.preview.Execute(c.Request().Context(), app.GetPreviewInput{
		Actor:     actorFrom(c),
		SessionID: c.Param("id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) Duplicates(c echo.Context) error {
	out, err := h.duplicates.Execute(c.Request().Context(), app.GetDuplicatesInput{
		Actor:     actorFrom(c),
		SessionID: c.Param("id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

type decisionsRequest struct {
	Decisions map[string]string `json:"decisions"`
}

func (h *ImportHandler) SubmitDecisions(c echo.Context) error {
	var req decisionsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	out, err := h.decisions.Execute(c.Request().Context(), app.SubmitDecisionsInput{
		Actor:     actorFrom(c),
		SessionID: c.Param("id"),
		Decisions: req.Decisions,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

// Execute commits the batch. The body may carry last-minute decision
// overrides and is optional: an absent body decodes as EOF, including on
// chunked requests where ContentLength is unknown.
func (h *ImportHandler) Execute(c echo.Context) error {
	var req decisionsRequest
	if err := c.Bind(&req); err != nil && !errors.Is(err, io.EOF) {
		return badRequest(c, "invalid request body")
	}
	out, err := h.execute.Execute(c.Request().Context(), app.ExecuteImportInput{
		Actor:     actorFrom(c),
		SessionID: c.Param("id"),
		Decisions: req.Decisions,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, apiResponse{Data: out})
}

func (h *ImportHandler) Delete(c echo.Context) error {
	err := h.remove.Execute(c.Request().Context(), app.DeleteSessionInput{
		Actor:     actorFrom(c),
		SessionID: c.Param("id"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
