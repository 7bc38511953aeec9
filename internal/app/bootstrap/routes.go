// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	chatfeature "github.com/vhht/vhhtbot/internal/app/features/chat"
	healthfeature "github.com/vhht/vhhtbot/internal/app/features/health"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// Startup have completed. The router serves:
//   - /health   liveness and backend reachability
//   - /chat     one chat turn per POST
//   - /metrics  Prometheus exposition
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	s := currentServices()
	if s == nil {
		return nil, errors.New("BuildHandler called before Startup")
	}

	var cache healthfeature.Pinger
	if deps.Cache != nil {
		cache = deps.Cache
	}

	r := chi.NewRouter()

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, cache, logger)))

	chatHandler := chatfeature.NewHandler(s.pipeline, s.sessions, s.limiter, appCfg.TrustBodyUserID, logger)
	r.Mount("/chat", chatfeature.Routes(chatHandler, s.verifier))

	r.Handle("/metrics", promhttp.Handler())

	return r, nil
}
