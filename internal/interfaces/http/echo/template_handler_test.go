package echo_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	app "github.com/mohammadpnp/lead-import/internal/application/importing"
	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
	httpecho "github.com/mohammadpnp/lead-import/internal/interfaces/http/echo"
)

type fakeCreateTemplate struct {
	out app.TemplateView
	err error
}

func (f *fakeCreateTemplate) Execute(ctx context.Context, in app.CreateTemplateInput) (app.TemplateView, error) {
	return f.out, f.err
}

type fakeGetTemplate struct {
	out app.TemplateView
	err error
}

func (f *fakeGetTemplate) Execute(ctx context.Context, in app.GetTemplateInput) (app.TemplateView, error) {
	return f.out, f.err
}

type fakeListTemplates struct {
	out app.ListTemplatesOutput
	err error
}

func (f *fakeListTemplates) Execute(ctx context.Context, in app.ListTemplatesInput) (app.ListTemplatesOutput, error) {
	return f.out, f.err
}

type fakeUpdateTemplate struct {
	out app.TemplateView
	err error
}

func (f *fakeUpdateTemplate) Execute(ctx context.Context, in app.UpdateTemplateInput) (app.TemplateView, error) {
	return f.out, f.err
}

type fakeDeleteTemplate struct {
	err error
}

func (f *fakeDeleteTemplate) Execute(ctx context.Context, in app.DeleteTemplateInput) error {
	return f.err
}

func newFakeTemplateHandler() *httpecho.TemplateHandler {
	return httpecho.NewTemplateHandler(
		&fakeCreateTemplate{}, &fakeGetTemplate{}, &fakeListTemplates{},
		&fakeUpdateTemplate{}, &fakeDeleteTemplate{},
	)
}

func newTemplateServer(handler *httpecho.TemplateHandler) *echo.Echo {
	e := echo.New()
	importHandler := httpecho.NewImportHandler(
		&fakeUpload{}, &fakeGetSession{}, &fakeListSessions{}, &fakeSubmitMapping{},
		&fakePreview{}, &fakeDuplicates{}, &fakeDecisions{}, &fakeExecute{}, &fakeDeleteSession{},
	)
	httpecho.RegisterRoutes(e, importHandler, handler)
	return e
}

func TestCreateTemplateSuccess(t *testing.T) {
	t.Parallel()

	e := newTemplateServer(httpecho.NewTemplateHandler(
		&fakeCreateTemplate{out: app.TemplateView{ID: 3, Name: "HubSpot Export"}},
		&fakeGetTemplate{}, &fakeListTemplates{}, &fakeUpdateTemplate{}, &fakeDeleteTemplate{},
	))

	body := []byte(`{"name":"HubSpot Export","mapping":{"Email Address":"email"},"columns":["Email Address","Name"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/templates", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	data, ok := decodeResponse(t, rec)["data"].(map[string]any)
	if !ok || data["name"] != "HubSpot Export" {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
}

func TestCreateTemplateMissingName(t *testing.T) {
	t.Parallel()

	e := newTemplateServer(newFakeTemplateHandler())

	body := []byte(`{"mapping":{"Email Address":"email"},"columns":["Email Address"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/templates", bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetTemplateNotFound(t *testing.T) {
	t.Parallel()

	e := newTemplateServer(httpecho.NewTemplateHandler(
		&fakeCreateTemplate{}, &fakeGetTemplate{err: domain.ErrTemplateNotFound},
		&fakeListTemplates{}, &fakeUpdateTemplate{}, &fakeDeleteTemplate{},
	))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/import/templates/99", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetTemplateBadID(t *testing.T) {
	t.Parallel()

	e := newTemplateServer(newFakeTemplateHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/import/templates/abc", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDeleteTemplate(t *testing.T) {
	t.Parallel()

	e := newTemplateServer(newFakeTemplateHandler())

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/import/templates/3", nil)
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
