package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/programme-lv/contests/auth"
	"github.com/programme-lv/contests/conf"
	"github.com/programme-lv/contests/contest/contesthttp"
	"github.com/programme-lv/contests/httpjson"
	"github.com/programme-lv/contests/logger"
)

func newRouter(cfg conf.Config, app *application) http.Handler {
	router := chi.NewRouter()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	httpLogger := httplog.NewLogger("contests", httplog.Options{
		JSON:             true,
		LogLevel:         level,
		Concise:          true,
		RequestHeaders:   false,
		MessageFieldName: "message",
		QuietDownRoutes:  []string{"/health"},
		Tags: map[string]string{
			"contest_store": cfg.ContestStore,
			"judge":         cfg.Judge,
		},
	})

	router.Use(middleware.RequestID)
	router.Use(httplog.RequestLogger(httpLogger))
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httpjson.WriteSuccessJson(w, map[string]string{"status": "healthy"})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.GetJwtAuthMiddleware([]byte(cfg.JwtKey)))
		contesthttp.NewContestHttpHandler(app.contestSrvc).RegisterRoutes(r)
	})

	return router
}

// requestLogger hands the per-request httplog logger to the service layer.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithLogger(r.Context(), httplog.LogEntry(r.Context()))
		ctx = logger.WithRequestID(ctx, middleware.GetReqID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
