package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	app "github.com/mohammadpnp/lead-import/internal/application/importing"
	domain "github.com/mohammadpnp/lead-import/internal/domain/importing"
	"github.com/mohammadpnp/lead-import/internal/infrastructure/repository"
	"github.com/mohammadpnp/lead-import/internal/infrastructure/spreadsheet"
	httpecho "github.com/mohammadpnp/lead-import/internal/interfaces/http/echo"
)

func NewHTTPServer(db *gorm.DB, pool *pgxpool.Pool) *echo.Echo {
	server := echo.New()
	server.HideBanner = true

	server.Use(middleware.Recover())
	server.Use(middleware.RequestID())
	server.Use(middleware.BodyLimit("10M"))

	sessionRepo := repository.NewImportSessionRepository(db)
	templateRepo := repository.NewMappingTemplateRepository(db)
	leadRepo := repository.NewLeadRepository(pool)

	parser := spreadsheet.NewParser()
	analyzer := domain.NewAnalyzer(domain.DefaultAnalyzerConfig())
	normalizer := domain.NewNormalizer()
	deduplicator := domain.NewDeduplicator(domain.DefaultDeduplicatorConfig())

	importHandler := httpecho.NewImportHandler(
		app.NewUploadFile(parser, analyzer, sessionRepo, templateRepo),
		app.NewGetSession(sessionRepo),
		app.NewListSessions(sessionRepo),
		app.NewSubmitMapping(parser, analyzer, normalizer, deduplicator, sessionRepo, templateRepo, leadRepo),
		app.NewGetPreview(sessionRepo),
		app.NewGetDuplicates(sessionRepo),
		app.NewSubmitDecisions(sessionRepo),
		app.NewExecuteImport(sessionRepo, leadRepo),
		app.NewDeleteSession(sessionRepo),
	)
	templateHandler := httpecho.NewTemplateHandler(
		app.NewCreateTemplate(templateRepo),
		app.NewGetTemplate(templateRepo),
		app.NewListTemplates(templateRepo),
		app.NewUpdateTemplate(templateRepo),
		app.NewDeleteTemplate(templateRepo),
	)

	httpecho.RegisterRoutes(server, importHandler, templateHandler)

	server.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	return server
}
