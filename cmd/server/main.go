package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/ToprakKamburoglu/madlen-chat-app/internal/api/handlers"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/config"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/logger"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/repository/postgres"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/chat"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/openrouter"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/service/session"
	"github.com/ToprakKamburoglu/madlen-chat-app/internal/telemetry"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// corsMiddleware restricts browser access to the configured origins and
// answers preflight requests.
func corsMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	// .env is optional; real deployments configure through the environment
	if err := godotenv.Load(); err == nil {
		logger.Log.Info("Loaded configuration from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load configuration")
	}

	ctx := context.Background()

	tracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize tracing")
	}
	defer func() {
		if err := tracing.Shutdown(ctx); err != nil {
			logger.Log.WithError(err).Warn("Error shutting down tracer provider")
		}
	}()

	logger.Log.Info("Initializing database...")
	database, err := postgres.NewPostgresDB(cfg.Database)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close()

	// Wire services explicitly; no package-level singletons
	provider := openrouter.NewClient(cfg.OpenRouter, tracing.TracerProvider())
	sessionService := session.NewService(database, tracing.TracerProvider())
	chatService := chat.NewService(provider, sessionService, tracing.TracerProvider())
	h := handlers.New(provider, chatService, sessionService, cfg.Telemetry.Enabled)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.RootHandler)
	mux.HandleFunc("GET /health", h.HealthHandler)
	mux.HandleFunc("POST /chat/{$}", h.ChatHandler)
	mux.HandleFunc("GET /models/{$}", h.GetModelsHandler)
	mux.HandleFunc("GET /sessions/{$}", h.GetSessionsHandler)
	mux.HandleFunc("POST /sessions/{$}", h.CreateSessionHandler)
	mux.HandleFunc("GET /sessions/{id}", h.GetSessionHandler)
	mux.HandleFunc("PATCH /sessions/{id}", h.UpdateSessionHandler)
	mux.HandleFunc("DELETE /sessions/{id}", h.DeleteSessionHandler)

	handler := corsMiddleware(cfg.CORS.AllowedOrigins,
		otelhttp.NewHandler(mux, "madlen-chat-backend", otelhttp.WithTracerProvider(tracing.TracerProvider())))

	logger.Log.WithField("port", cfg.Server.Port).Info("Server starting")
	logger.Log.WithField("origins", strings.Join(cfg.CORS.AllowedOrigins, ", ")).Info("CORS origins configured")

	if err := http.ListenAndServe(":"+cfg.Server.Port, handler); err != nil {
		logger.Log.WithError(err).Fatal("Server failed to start")
	}
}
