package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/skinvaults/skinvaults-api/internal/config"
	"github.com/skinvaults/skinvaults-api/internal/domain/auth"
	"github.com/skinvaults/skinvaults-api/internal/domain/automod"
	"github.com/skinvaults/skinvaults-api/internal/domain/chat"
	"github.com/skinvaults/skinvaults-api/internal/domain/ledger"
	"github.com/skinvaults/skinvaults-api/internal/domain/pro"
	"github.com/skinvaults/skinvaults-api/internal/domain/spin"
	"github.com/skinvaults/skinvaults-api/internal/domain/stipend"
	"github.com/skinvaults/skinvaults-api/internal/domain/voucher"
	"github.com/skinvaults/skinvaults-api/internal/middleware"
	"github.com/skinvaults/skinvaults-api/internal/pkg/database"
	"github.com/skinvaults/skinvaults-api/internal/pkg/jwt"
	pkgresponse "github.com/skinvaults/skinvaults-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting SkinVaults API")

	// An empty DATABASE_URL is allowed: handlers degrade to 503 instead of
	// the process refusing to start. A configured-but-unreachable database
	// is still fatal.
	sqlDB, err := connectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(sqlDB)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories & services ----------
	var (
		ledgerService  *ledger.Service
		voucherService *voucher.Service
		stipendService *stipend.Service
		authService    *auth.Service
		automodRepo    *automod.Repository
	)

	if sqlDB != nil {
		ledgerService = ledger.NewService(ledger.NewRepository(sqlDB))
		proRepo := pro.NewRepository(sqlDB)
		voucherService = voucher.NewService(voucher.NewRepository(sqlDB), ledgerService, proRepo, cfg.MaxVoucherBatch)
		stipendService = stipend.NewService(stipend.NewRepository(sqlDB), ledgerService, proRepo, cfg.StipendCredits)
		authService = auth.NewService(auth.NewRepository(sqlDB), jwtService)
		automodRepo = automod.NewRepository(sqlDB)
	}

	var spinService *spin.Service
	if sqlDB != nil && redisClient != nil {
		spinService = spin.NewService(ledgerService, redisClient, nil)
	}

	// ---------- WebSocket hub ----------
	chatHub := chat.NewHub(redisClient)
	go chatHub.Run()

	var settingsProvider chat.SettingsProvider = defaultSettingsProvider{}
	if automodRepo != nil {
		settingsProvider = automodRepo
	}

	// ---------- Handlers ----------
	ledgerHandler := ledger.NewHandler(ledgerService)
	voucherHandler := voucher.NewHandler(voucherService)
	spinHandler := spin.NewHandler(spinService)
	stipendHandler := stipend.NewHandler(stipendService)
	automodHandler := automod.NewHandler(automodRepo)
	authHandler := auth.NewHandler(authService)
	chatHandler := chat.NewHandler(chatHub, settingsProvider, cfg.AllowedOrigins)

	authMiddleware := middleware.Auth(jwtService)
	requireAdmin := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress)
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(chatHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Route("/api/v1", func(r chi.Router) {
			r.Mount("/credits", ledgerHandler.Routes(authMiddleware))
			r.Mount("/vouchers", voucherHandler.Routes(authMiddleware))
			r.Mount("/spins", spinHandler.Routes(authMiddleware))
			r.Mount("/stipends", stipendHandler.Routes(authMiddleware))
		})

		r.Route("/api/admin", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Mount("/vouchers", voucherHandler.AdminRoutes(authMiddleware, requireAdmin))
			r.Mount("/stipends", stipendHandler.AdminRoutes(authMiddleware, requireAdmin))
			r.Mount("/automod", automodHandler.AdminRoutes(authMiddleware, requireAdmin))
			// Credits tooling and ledger search live at the admin root:
			// /credits/adjust, /credits/grant, /ledger, ...
			r.Mount("/", ledgerHandler.AdminRoutes(authMiddleware, requireAdmin))
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	chatHub.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func connectPostgres(databaseURL string) (*sqlx.DB, error) {
	if databaseURL == "" {
		log.Warn().Msg("Database URL not configured, running in degraded mode")
		return nil, nil
	}
	return database.NewPostgres(databaseURL)
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}

// defaultSettingsProvider serves the built-in automod settings when no
// database is configured, so chat keeps working in degraded mode.
type defaultSettingsProvider struct{}

func (defaultSettingsProvider) Get(ctx context.Context) (automod.Settings, error) {
	return automod.DefaultSettings(), nil
}
