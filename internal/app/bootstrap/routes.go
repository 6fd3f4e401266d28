// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	gqlfeature "github.com/dalemusser/yelpcamp/internal/app/features/graphql"
	healthfeature "github.com/dalemusser/yelpcamp/internal/app/features/health"
	"github.com/dalemusser/yelpcamp/internal/app/graph"
	"github.com/dalemusser/yelpcamp/internal/app/system/auth"
	"github.com/dalemusser/yelpcamp/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. The router serves:
//   - /graphql: the API (POST, and GET for queries and the playground)
//   - /health: MongoDB liveness for load balancers
//
// Every request passes through CORS, panic recovery and the access log.
// Bearer credentials are resolved once, before the GraphQL engine runs;
// the per-IP rate limit applies to /graphql only.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if deps.Services == nil || deps.Services.Resolver == nil {
		return nil, errors.New("startup did not build the resolver")
	}

	schema, err := graph.NewSchema(deps.Services.Resolver, graph.SchemaOptions(
		appCfg.GraphQLMaxDepth, appCfg.GraphQLMaxParallelism, panicLogger{log: logger})...)
	if err != nil {
		logger.Error("graphql schema parse failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(accessLog(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", gqlfeature.RequestIDHeader},
		ExposedHeaders:   []string{gqlfeature.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	limiter := ratelimit.New(appCfg.RateLimitRequests, appCfg.RateLimitWindow)
	deps.Services.Limiter = limiter
	tokens := auth.NewTokens(appCfg.JWTSecret, appCfg.TokenTTL)

	gqlHandler := gqlfeature.NewHandler(schema, appCfg.GraphQLPlayground, logger)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware(gqlfeature.TooManyRequests))
		r.Use(auth.Middleware(tokens, logger))
		r.Mount(gqlfeature.Path, gqlfeature.Routes(gqlHandler))
	})

	return r, nil
}

// panicLogger reports resolver panics through zap.
type panicLogger struct {
	log *zap.Logger
}

func (p panicLogger) LogPanic(ctx context.Context, value interface{}) {
	p.log.Error("graphql resolver panic",
		zap.String("request_id", gqlfeature.RequestID(ctx)),
		zap.Any("panic", value),
		zap.Stack("stack"))
}

// accessLog logs one line per request.
func accessLog(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", ratelimit.ClientIP(r)),
				zap.String("request_id", ww.Header().Get(gqlfeature.RequestIDHeader)))
		})
	}
}
