package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"tictactoe/communication"
	"tictactoe/searcher"
)

const maxRequestBytes = 1 << 16

type Config struct {
	DefaultBudget time.Duration
	MaxBudget     time.Duration // 0 means unbounded
	MaxIterations int           // 0 means unbounded
	Decision      searcher.Decision
}

type ServerCommunicator struct {
	config Config
	router chi.Router
}

// NewServerCommunicator builds the HTTP handler serving move requests. Every
// request runs its own search, so concurrent requests share no state.
func NewServerCommunicator(config Config) *ServerCommunicator {
	sc := &ServerCommunicator{config: config}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", sc.handleHealth)
	r.Post("/findmove", sc.handleFindMove)
	sc.router = r
	return sc
}

func (sc *ServerCommunicator) Handler() http.Handler {
	return sc.router
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (sc *ServerCommunicator) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           sc.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()
	log.Info().Msgf("move server listening on %s", addr)

	select {
	case err := <-serverErrCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown failed")
		return server.Close()
	}
	log.Info().Msg("move server stopped")
	return nil
}

func (sc *ServerCommunicator) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (sc *ServerCommunicator) handleFindMove(w http.ResponseWriter, r *http.Request) {
	var req communication.FindMoveRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "bad request: "+err.Error())
		return
	}
	if req.State == nil {
		writeError(w, http.StatusBadRequest, "bad request: missing state")
		return
	}
	if req.State.IsTerminal() {
		writeError(w, http.StatusBadRequest, "bad request: game is already over")
		return
	}

	mcts := searcher.NewMCTS(sc.options(req)...)
	move, metric := mcts.Search(*req.State)

	writeJSON(w, http.StatusOK, communication.FindMoveResponse{
		Move:       move,
		Iterations: metric.Iterations,
		Nodes:      metric.Nodes,
		DurationMs: float64(metric.Duration.Microseconds()) / 1000,
	})
}

func (sc *ServerCommunicator) options(req communication.FindMoveRequest) []searcher.Option {
	budget := sc.config.DefaultBudget
	if req.BudgetMs > 0 {
		budget = time.Duration(req.BudgetMs) * time.Millisecond
	}
	if sc.config.MaxBudget > 0 {
		budget = min(budget, sc.config.MaxBudget)
	}

	options := []searcher.Option{
		searcher.WithDuration(budget),
		searcher.WithDecision(sc.config.Decision),
		searcher.WithMetrics(),
	}
	if iterations := req.Iterations; iterations > 0 {
		if sc.config.MaxIterations > 0 {
			iterations = min(iterations, sc.config.MaxIterations)
		}
		options = append(options, searcher.WithIterations(iterations))
	}
	if req.Seed != nil {
		options = append(options, searcher.WithSeed(*req.Seed))
	}
	return options
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, communication.ErrorResponse{Error: message})
}
