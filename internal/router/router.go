package router

import (
	"time"

	"partsadmin/internal/config"
	"partsadmin/internal/handler"
	"partsadmin/internal/infra"
	"partsadmin/internal/middleware"
	"partsadmin/internal/model"
	"partsadmin/internal/repository"
	"partsadmin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb may be nil: the terms cache and the rate limiter are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	var cache service.TermsCache = service.NoopTermsCache{}
	if rdb != nil {
		cache = infra.NewRedisTermsCache(rdb, cfg.CacheTTL())
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	partRepo := repository.NewPartRepository(db)
	overrideRepo := repository.NewOverrideRepository(db)
	scopeRepo := repository.NewScopeRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	refRepo := repository.NewReferenceRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	partSvc := service.NewPartService(partRepo, overrideRepo, scopeRepo, orgRepo, refRepo, cache)
	importSvc := service.NewImportService(partRepo, overrideRepo, scopeRepo, orgRepo)
	catalogSvc := service.NewCatalogService(partRepo, overrideRepo, orgRepo, refRepo, cache)

	// ── Handlers ─────────────────────────────────────────────────────────────
	partsH := handler.NewPartsHandler(partSvc)
	importH := handler.NewImportHandler(importSvc, cfg.MaxImportBytes)
	catalogH := handler.NewCatalogHandler(catalogSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Protected routes
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	{
		// Catalog: every authenticated role, scoped to the caller's organization
		v1.GET("/parts", catalogH.List)
		v1.GET("/parts/:id", catalogH.Get)

		readers := middleware.RequireRole(model.RoleAdmin, model.RoleCyntekAdmin, model.RoleOrgAdmin)
		writers := middleware.RequireRole(model.RoleAdmin, model.RoleCyntekAdmin)

		admin := v1.Group("/admin/parts")
		{
			admin.GET("", readers, partsH.List)
			admin.GET("/template", readers, importH.Template)
			admin.GET("/:id", readers, partsH.Get)
			admin.POST("", writers, partsH.Create)
			admin.POST("/bulk-upload", writers, importH.BulkUpload)
			admin.PUT("/:id", writers, partsH.Update)
			admin.DELETE("/:id", writers, partsH.Delete)
		}
	}

	return r
}
