package server

import (
	"context"
	"encoding/json"
	"errors"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/engine"
	"necrolens-server/internal/version"
	"necrolens-server/pkg/api"
	"necrolens-server/pkg/logger"
	"net/http"
	_ "net/http/pprof" // Profiling
	"strconv"
	"time"
)

// HistoryReader - источник истории этажей для /history
type HistoryReader interface {
	Latest(ctx context.Context, limit int) ([]domain.FloorRecord, error)
}

type Server struct {
	Engine  *engine.TrackerService
	History HistoryReader // может быть nil
	Port    string
}

func New(engine *engine.TrackerService, history HistoryReader, port string) *Server {
	return &Server{
		Engine:  engine,
		History: history,
		Port:    port,
	}
}

// Routes собирает все роуты трекера
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	// WebSocket: хост шлёт события, оверлей получает снимки
	mux.HandleFunc("/ws/feed", s.handleFeed)
	mux.HandleFunc("/ws/overlay", s.handleOverlay)

	// Запросы состояния
	mux.HandleFunc("/state", enableCORS(s.handleState))
	mux.HandleFunc("/objects", enableCORS(s.handleObjects))
	mux.HandleFunc("/idle", enableCORS(s.handleIdle))
	mux.HandleFunc("/history", enableCORS(s.handleHistory))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Engine)
	debugHandler.RegisterRoutes(mux)
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	return mux
}

// Run запускает HTTP сервер и останавливает его по отмене ctx
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("HTTP shutdown failed")
		}
	}()

	logger.Log.Infof("NecroLens tracker running on :%s", s.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Оверлей открывается как локальная страница
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

// handleFeed - сокет хоста
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewFeedClient(s.Engine, conn)
	go client.readPump()
}

// handleOverlay - сокет оверлея, только чтение снимков
func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("Upgrade error:", err)
		return
	}

	client := NewOverlayClient(s.Engine, conn)
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.View().Snapshot)
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Engine.View().Registry)
}

// /idle?entity=1073741830
func (s *Server) handleIdle(w http.ResponseWriter, r *http.Request) {
	var id domain.EntityID
	if err := id.UnmarshalText([]byte(r.URL.Query().Get("entity"))); err != nil {
		http.Error(w, "entity must be a decimal entity id", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.Engine.View().IdleFor(id))
}

// /history?limit=20
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		writeJSON(w, []domain.FloorRecord{})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive number", http.StatusBadRequest)
			return
		}
		limit = n
	}

	rows, err := s.History.Latest(r.Context(), limit)
	if err != nil {
		logger.Log.WithError(err).Warn("History query failed")
		http.Error(w, "history unavailable", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []domain.FloorRecord{}
	}
	writeJSON(w, rows)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(version.Info())
}

// errorResponse - ответ хосту на отвергнутое событие
func errorResponse(event string, err error) api.ServerResponse {
	return api.ServerResponse{Type: "ERROR", Event: event, Msg: err.Error()}
}
