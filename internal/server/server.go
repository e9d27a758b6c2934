package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/ButyrinIA/blogapi/internal/config"
	"github.com/ButyrinIA/blogapi/internal/graphql"
	"github.com/ButyrinIA/blogapi/internal/metrics"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"
)

type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	handler http.Handler
}

func New(cfg *config.Config, posts graphql.PostService, logger *zap.Logger, m *metrics.Metrics) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var auth *Authenticator
	if cfg.Auth.Secret != "" {
		auth = NewAuthenticator(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	}

	schema, err := graphql.NewSchema(graphql.NewResolver(posts, auth != nil, logger))
	if err != nil {
		return nil, err
	}

	var api http.Handler = graphql.LoaderMiddleware(posts, &relay.Handler{Schema: schema})
	if auth != nil {
		api = auth.middleware(logger, api)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.Path, api)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	if m != nil {
		mux.Handle("/metrics", m.Handler())
	}
	if auth != nil {
		mux.HandleFunc("/token", auth.tokenHandler)
	}
	if cfg.Server.Playground && cfg.Server.Path != "/" {
		mux.Handle("/{$}", playground.Handler("GraphQL playground", cfg.Server.Path))
	}

	return &Server{
		cfg:     cfg,
		logger:  logger,
		handler: logRequests(logger, mux),
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Server.Port)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("GraphQL API запущен",
			zap.String("addr", ln.Addr().String()),
			zap.String("path", s.cfg.Server.Path))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Остановка сервера")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("HTTP-запрос",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeJSONError отвечает в форме GraphQL-ответа, чтобы клиенты разбирали ошибку единообразно
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"errors": []map[string]interface{}{{
			"message":    message,
			"extensions": map[string]string{"code": code},
		}},
	})
}
