package router

import (
	"github.com/labstack/echo/v4"

	"ingestd/internal/cache"
	"ingestd/internal/database"
	"ingestd/internal/handler"
	"ingestd/internal/handler/auth"
	"ingestd/internal/handler/documents"
	"ingestd/internal/handler/jobs"
	"ingestd/internal/handler/users"
	"ingestd/internal/ingest"
	"ingestd/internal/middleware"
	"ingestd/internal/queue"
)

// Setup registers all routes and their middleware.
func Setup(e *echo.Echo, db database.DB, rdb cache.Cache, sub *ingest.Submitter, q *queue.Queue) {
	api := e.Group("/api")

	// Health check (requires login)
	api.GET("/ping", handler.PingHandler(db, rdb), middleware.RequireAuth)

	api.POST("/auth/login", auth.LoginHandler(db))

	// Ingestion jobs (requires login)
	api.POST("/ingest", jobs.SubmitHandler(sub), middleware.RequireAuth)
	api.GET("/ingest/:job_id", jobs.StatusHandler(sub), middleware.RequireAuth)
	api.GET("/queue/stats", jobs.StatsHandler(q), middleware.RequireAuth)

	// Stored documents (requires login)
	apiDocs := api.Group("/documents", middleware.RequireAuth)
	apiDocs.GET("", documents.ListDocumentsHandler(db))
	apiDocs.GET("/:doc_id", documents.GetDocumentHandler(db))

	// Admin-only user management
	apiUsers := api.Group("/users", middleware.RequireAdmin)
	apiUsers.GET("/:user_id", users.GetUserHandler(db))
	apiUsers.DELETE("/:user_id", users.DeleteUserHandler(db))
}
