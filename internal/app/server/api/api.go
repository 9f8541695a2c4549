// Сервер документов: коллекции JSON-документов, которые клиент edusync
// использует как удаленное хранилище.
//
//GET    /api/v1/health                                  # Проверка хранилища (публичный)
//GET    /api/v1/collections/{collection}/documents      # Список документов (auth)
//POST   /api/v1/collections/{collection}/documents      # Создать документ (auth)
//GET    /api/v1/collections/{collection}/documents/{id} # Получить документ (auth)
//PUT    /api/v1/collections/{collection}/documents/{id} # Создать или перезаписать (auth)
//DELETE /api/v1/collections/{collection}/documents/{id} # Удалить документ (auth)
//GET    /metrics                                        # Prometheus

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slog"

	documentAPI "edusync/internal/app/server/api/http/document"
	healthAPI "edusync/internal/app/server/api/http/health"
	"edusync/internal/app/server/api/http/middleware"
	"edusync/internal/app/server/api/http/middleware/auth"
	"edusync/internal/app/server/api/http/middleware/logger"
	"edusync/internal/domain/document"
	"edusync/internal/infrastructure/metrics"
)

type Handlers struct {
	Health   *healthAPI.Handler
	Document *documentAPI.Handler
}

// New создает *chi.Mux с ВСЕМИ операциями через huma.Register
func New(documents document.Servicer, tokenHash string, reg *prometheus.Registry, log *slog.Logger) *chi.Mux {
	mux := chi.NewMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	config := huma.DefaultConfig("Edusync Document API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer"},
	}

	API := humachi.New(mux, config)

	h := handlers(API, documents, tokenHash, metrics.NewHTTP(reg), log)
	h.Health.SetupRoutes(API)
	h.Document.SetupRoutes(API)

	return mux
}

func handlers(api huma.API, documents document.Servicer, tokenHash string, httpMetrics *metrics.HTTP, log *slog.Logger) *Handlers {
	authMW := auth.New(api, tokenHash, log)
	if !authMW.Enabled() {
		log.Warn("API token hash is empty, authentication disabled")
	}
	loggerMW := logger.New(log, httpMetrics)
	middlewares := middleware.NewContainer()

	middlewares.Add(loggerMW.Middleware())
	healthHandler := healthAPI.NewHandler(documents, log, middlewares.GetAllAndClear())

	middlewares.Add(loggerMW.Middleware())
	middlewares.Add(authMW.Middleware())
	documentHandler := documentAPI.NewHandler(documents, log, middlewares.GetAllAndClear())

	return &Handlers{
		Health:   healthHandler,
		Document: documentHandler,
	}
}
