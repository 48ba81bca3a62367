// Package server wires the dev server's middleware, repositories and routes.
package server

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-insights/internal/backend/analyses"
	"resume-insights/internal/backend/feedback"
	"resume-insights/internal/backend/resumes"
	"resume-insights/internal/backend/users"
	"resume-insights/internal/shared/config"
	"resume-insights/internal/shared/server/middleware"
	"resume-insights/internal/shared/server/respond"
	"resume-insights/internal/shared/storage/db"
	localstore "resume-insights/internal/shared/storage/object/local"
	"resume-insights/internal/shared/telemetry"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
// With DATABASE_URL set, repositories run on Postgres; otherwise everything
// lives in memory, which is the default for local dashboard development.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
	)

	store := localstore.New(cfg.LocalStoreDir)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.DefaultServerOptions())
		if err != nil {
			telemetry.Warn("db.connect_failed", map[string]any{"error": err.Error()})
		} else if err := db.RunMigrations(context.Background(), conn); err != nil {
			telemetry.Warn("db.migrate_failed", map[string]any{"error": err.Error()})
		} else {
			sqlDB = conn
		}
	}

	var (
		userRepo     users.Repo
		resumeRepo   resumes.Repo
		analysisRepo analyses.Repo
	)
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		resumeRepo = &resumes.PGRepo{DB: sqlDB}
		analysisRepo = &analyses.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		analysisRepo = analyses.NewMemoryRepo()
	}

	userHandler := users.NewHandler(&users.Service{Repo: userRepo})
	resumeHandler := resumes.NewHandler(&resumes.Service{Store: store, Repo: resumeRepo})
	analysisHandler := analyses.NewHandler(&analyses.Service{
		Repo:    analysisRepo,
		Resumes: resumeRepo,
		Store:   store,
		Delay:   cfg.AnalysisDelay,
	})
	feedbackHandler := feedback.NewHandler(&feedback.Service{
		Resumes:  resumeRepo,
		Analyses: analysisRepo,
	})

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	userHandler.RegisterRoutes(r)
	resumeHandler.RegisterRoutes(r)
	analysisHandler.RegisterRoutes(r)
	feedbackHandler.RegisterRoutes(r)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3001"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
