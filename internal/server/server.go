//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=server_mocks
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/dparedesb/servicetimes/internal/rows"
	"github.com/dparedesb/servicetimes/internal/screen"
)

// Board is the slice of the row controller the HTTP layer needs.
type Board interface {
	AddRow(ctx context.Context) rows.Row
	DeleteRow(ctx context.Context, id string) error
	MarkField(ctx context.Context, id, field string) error
	ToggleItem(ctx context.Context, id, item string) error
	RemovePrepPair(ctx context.Context, id, item string, index int) error
	SetQuantity(ctx context.Context, id, item string, qty int) error
	SetDescription(ctx context.Context, id, value string) error
	SetObservation(ctx context.Context, id, value string) error
	SetTurn(ctx context.Context, id, value string) error
	SetPaymentMethod(ctx context.Context, id, method string) error
	SetEditing(id string, editing bool)
	SetConsumption(ctx context.Context, id string, on bool) error
	Submit(ctx context.Context, id string) error
	Rows() []rows.Row
	Screen() screen.Config
}

// Server exposes one board's operations to the terminal UI over HTTP.
type Server struct {
	board  Board
	logger *zap.Logger
	server *http.Server

	authUser string
	authHash string
}

func New(board Board, logger *zap.Logger, authUser, authHash string) *Server {
	return &Server{
		board:    board,
		logger:   logger,
		authUser: authUser,
		authHash: authHash,
	}
}

func (s *Server) Run(port string) error {
	router := s.routes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.logger.Info("terminal API listening", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/rows").Subrouter()
	api.Use(s.basicAuthMiddleware)

	api.HandleFunc("", s.handleListRows).Methods(http.MethodGet)
	api.HandleFunc("", s.handleAddRow).Methods(http.MethodPost)
	api.HandleFunc("/{id}", s.handleDeleteRow).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/times/{field}", s.handleMarkField).Methods(http.MethodPost)
	api.HandleFunc("/{id}/items/{item}/toggle", s.handleToggleItem).Methods(http.MethodPost)
	api.HandleFunc("/{id}/items/{item}/pairs/{index}", s.handleRemovePair).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/items/{item}/quantity", s.handleSetQuantity).Methods(http.MethodPut)
	api.HandleFunc("/{id}/description", s.handleSetDescription).Methods(http.MethodPut)
	api.HandleFunc("/{id}/observation", s.handleSetObservation).Methods(http.MethodPut)
	api.HandleFunc("/{id}/turn", s.handleSetTurn).Methods(http.MethodPut)
	api.HandleFunc("/{id}/payment", s.handleSetPayment).Methods(http.MethodPut)
	api.HandleFunc("/{id}/editing", s.handleSetEditing).Methods(http.MethodPut)
	api.HandleFunc("/{id}/consumption", s.handleSetConsumption).Methods(http.MethodPut)
	api.HandleFunc("/{id}/submit", s.handleSubmit).Methods(http.MethodPost)

	return r
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
