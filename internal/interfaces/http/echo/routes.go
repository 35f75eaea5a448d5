package echo

import e "github.com/labstack/echo/v4"

func RegisterRoutes(server *e.Echo, importHandler *ImportHandler, templateHandler *TemplateHandler) {
	api := server.Group("/api/v1/import", RequireActor)

	api.POST("/upload", importHandler.Upload)
	api.GET("/sessions", importHandler.List)
	api.GET("/:id/status", importHandler.Status)
	api.POST("/:id/mapping", importHandler.SubmitMapping)
	api.GET("/:id/preview", importHandler.Preview)
	api.GET("/:id/duplicates", importHandler.Duplicates)
	api.POST("/:id/decisions", importHandler.SubmitDecisions)
	api.POST("/:id/execute", importHandler.Execute)
	api.DELETE("/:id", importHandler.Delete)

	api.POST("/templates", templateHandler.Create)
	api.GET("/templates", templateHandler.List)
	api.GET("/templates/:id", templateHandler.Get)
	api.PUT("/templates/:id", templateHandler.Update)
	api.DELETE("/templates/:id", templateHandler.Delete)
}
