// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, sessions, the trash retention sweep, idempotency,
// and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Every data route behind a logged-in session
package httpapi

import (
	"context"
	"net/http"
	"path"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/clinica/susceptibles/docs"
	"github.com/clinica/susceptibles/internal/config"
	"github.com/clinica/susceptibles/internal/domain"
	"github.com/clinica/susceptibles/internal/http/handlers"
	"github.com/clinica/susceptibles/internal/http/middleware"
	"github.com/clinica/susceptibles/internal/repo"
	"github.com/clinica/susceptibles/internal/services"
	"github.com/clinica/susceptibles/internal/session"
)

// periodRepoShim adapts the repository free functions to the
// services.PeriodRepo interface expected by the PeriodService.
type periodRepoShim struct{}

func (periodRepoShim) CreateYear(ctx context.Context, db *gorm.DB, year string) (int64, error) {
	return repo.CreateYear(ctx, db, year)
}

func (periodRepoShim) HasLiveYear(ctx context.Context, db *gorm.DB, year string) (bool, error) {
	return repo.HasLiveYear(ctx, db, year)
}

func (periodRepoShim) ListYears(ctx context.Context, db *gorm.DB) ([]repo.YearSummary, error) {
	return repo.ListYears(ctx, db)
}

func (periodRepoShim) ListPeriods(ctx context.Context, db *gorm.DB, year string) ([]domain.Period, error) {
	return repo.ListPeriods(ctx, db, year)
}

func (periodRepoShim) GetPeriod(ctx context.Context, db *gorm.DB, year, month string) (*domain.Period, error) {
	return repo.GetPeriod(ctx, db, year, month)
}

func (periodRepoShim) ListVariants(ctx context.Context, db *gorm.DB, year, base string) ([]string, error) {
	return repo.ListVariants(ctx, db, year, base)
}

func (periodRepoShim) InsertPeriod(ctx context.Context, db *gorm.DB, p *domain.Period) error {
	return repo.InsertPeriod(ctx, db, p)
}

func (periodRepoShim) UpdatePeriodMetadata(ctx context.Context, db *gorm.DB, year, month, responsible, municipality, facility string) error {
	return repo.UpdatePeriodMetadata(ctx, db, year, month, responsible, municipality, facility)
}

// recordRepoShim adapts the repository free functions to services.RecordRepo.
type recordRepoShim struct{}

func (recordRepoShim) CreateRecord(ctx context.Context, db *gorm.DB, year, month string, f repo.RecordFields) (*domain.Record, error) {
	return repo.CreateRecord(ctx, db, year, month, f)
}

func (recordRepoShim) GetRecord(ctx context.Context, db *gorm.DB, id uint, year, month string) (*domain.Record, error) {
	return repo.GetRecord(ctx, db, id, year, month)
}

func (recordRepoShim) UpdateRecord(ctx context.Context, db *gorm.DB, id uint, year, month string, f repo.RecordFields) error {
	return repo.UpdateRecord(ctx, db, id, year, month, f)
}

func (recordRepoShim) ListRecordsPage(ctx context.Context, db *gorm.DB, year, month, query string, offset, limit int) ([]domain.Record, error) {
	return repo.ListRecordsPage(ctx, db, year, month, query, offset, limit)
}

func (recordRepoShim) CountRecords(ctx context.Context, db *gorm.DB, year, month, query string) (int64, error) {
	return repo.CountRecords(ctx, db, year, month, query)
}

func (recordRepoShim) CountPending(ctx context.Context, db *gorm.DB, year, month string) (int64, error) {
	return repo.CountPending(ctx, db, year, month)
}

func (recordRepoShim) RecordsStats(ctx context.Context, db *gorm.DB, year, month string) (int64, *time.Time, error) {
	return repo.RecordsStats(ctx, db, year, month)
}

// idempotencyStore keeps POST /records outcomes in the idempotency table.
type idempotencyStore struct {
	db  *gorm.DB
	ttl time.Duration
}

func (s idempotencyStore) Lookup(ctx context.Context, userID, periodKey, key string, now time.Time) (uint, bool) {
	rec, err := repo.GetIdempotency(ctx, s.db, userID, periodKey, key, now)
	if err != nil || rec == nil {
		return 0, false
	}
	return rec.RecordID, true
}

func (s idempotencyStore) Remember(ctx context.Context, userID, periodKey, key string, recordID uint, status int) {
	if _, err := repo.CreateIdempotency(ctx, s.db, userID, periodKey, key, recordID, status, s.ttl); err != nil {
		log.Warn().Err(err).Str("period", periodKey).Uint("record_id", recordID).Msg("idempotency remember failed")
	}
}

// Deps are the collaborators RegisterRoutes needs beyond configuration.
// Clock may be nil (system clock).
type Deps struct {
	DB       *gorm.DB
	Sessions session.Store
	Clock    services.Clock
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), CORS and security
// headers, health and metrics endpoints, and then mounts the versioned API
// under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: access log + request-scoped logger (plus RedactingLogger in debug)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip (optional)
//  7. Metrics
//  8. CORS and Security headers
//
// API group:
//  9. Session load/commit
//  10. Retention sweep (expired trash is gone before any handler reads it)
//
// Protected group (everything but login/logout):
//  11. RequireUser
//  12. Idempotency validator on POST, scoped to the active period
//  13. Rate limiter (per user, bypass on replay)
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true
	db := deps.DB

	if err := handlers.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("register validators")
	}

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging; scrubbed header dump only when debugging
	r.Use(middleware.Logger())
	if cfg.LogLevel == "debug" {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{middleware.HeaderIdempotencyKey},
		}))
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compression
	if cfg.GzipEnabled {
		r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	}

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "If-None-Match", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Idempotency-Replayed", "Retry-After"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header.
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist.
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: true, // the session cookie crosses origins
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers; patient data stays out of shared caches but the
	// browser may revalidate ETags. Login and session answers are never stored.
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS: cfg.Security.EnableHSTS,
		HSTSMaxAge: cfg.Security.HSTSMaxAge,
		Cache:      middleware.CachePrivateRevalidate,
		NoStorePaths: []string{
			path.Join(cfg.APIBasePath, "auth"),
			path.Join(cfg.APIBasePath, "session"),
		},
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/clock
	periodSvc := services.NewPeriodService(db, periodRepoShim{})
	recordSvc := services.NewRecordService(db, recordRepoShim{})
	trashSvc := services.NewTrashService(db, deps.Clock, cfg.RetentionWindow)
	authSvc := services.NewAuthService(cfg.Admin.User, cfg.Admin.PasswordHash)
	sweeper := services.NewRetentionSweeper(db, deps.Clock, cfg.RetentionWindow)
	idem := idempotencyStore{db: db, ttl: cfg.IdempotencyTTL}

	h := handlers.New(periodSvc, recordSvc, trashSvc, authSvc, idem)

	sessions := session.NewManager(deps.Sessions, cfg.Session.CookieName, cfg.Session.TTL, cfg.Session.Secure)
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	loginRL := middleware.NewRateLimiter(cfg.LoginRPS, cfg.LoginBurst, middleware.KeyByIP())

	// 9-10) Sessions and the retention sweep for every API request
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(session.Middleware(sessions))
	api.Use(middleware.RetentionSweep(func(ctx context.Context) (int64, error) {
		res, err := sweeper.Sweep(ctx)
		return res.Total(), err
	}, cfg.SweepInterval))

	// Public: login is rate limited per IP
	api.POST("/auth/login", loginRL.Handler(), h.Login)
	api.POST("/auth/logout", h.Logout)

	// 11-13) Everything else needs a logged-in user
	protected := api.Group("")
	protected.Use(middleware.RequireUser())
	protected.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, periodKey, key string, now time.Time) (bool, error) {
			_, found := idem.Lookup(ctx, userID, periodKey, key, now)
			return found, nil
		},
	))
	protected.Use(rl.Handler())
	{
		// Session
		protected.GET("/session", h.GetSession)

		// Years and periods
		protected.GET("/years", h.ListYears)
		protected.POST("/years", h.SelectYear)
		protected.DELETE("/years/:year", h.DeleteYear)
		protected.GET("/years/:year/periods", h.ListPeriods)
		protected.POST("/years/:year/periods/select", h.SelectPeriod)
		protected.POST("/years/:year/periods/duplicate", h.DuplicatePeriod)
		protected.DELETE("/years/:year/periods/:month", h.DeletePeriod)
		protected.POST("/years/:year/periods/:month/clear", h.ClearPeriod)

		// Active period
		protected.GET("/period/metadata", h.GetMetadata)
		protected.PUT("/period/metadata", h.UpdateMetadata)

		// Records
		protected.GET("/records", h.ListRecords)
		protected.POST("/records", h.CreateRecord)
		protected.GET("/records/:id", h.GetRecord)
		protected.PUT("/records/:id", h.UpdateRecord)
		protected.DELETE("/records/:id", h.DeleteRecord)

		// Trash
		protected.GET("/trash", h.GetTrash)
		protected.POST("/trash/recover/:scope/*key", h.Recover)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
