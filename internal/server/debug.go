package server

import (
	"encoding/json"
	"necrolens-server/internal/engine"
	"necrolens-server/internal/systems"
	"net/http"
	"sort"
)

// DebugHandler предоставляет доступ к внутреннему состоянию трекера
type DebugHandler struct {
	Service *engine.TrackerService
}

func NewDebugHandler(s *engine.TrackerService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/idle", h.handleIdle)
	mux.HandleFunc("/debug/stats", h.handleStats)
}

// /debug/idle - все трекеры покоя, включая позицию и время последнего наблюдения
func (h *DebugHandler) handleIdle(w http.ResponseWriter, r *http.Request) {
	view := h.Service.View()
	entries := make([]systems.IdleEntry, 0, len(view.Idle))
	for _, entry := range view.Idle {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EntityID < entries[j].EntityID
	})
	writeJSON(w, entries)
}

// /debug/stats - счётчики цикла
func (h *DebugHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	type Stats struct {
		Processed   int64  `json:"processed"`
		Failed      int64  `json:"failed"`
		Subscribers int    `json:"subscribers"`
		State       string `json:"state"`
		Queue       int    `json:"queue"`
	}

	writeJSON(w, Stats{
		Processed:   h.Service.Processed(),
		Failed:      h.Service.Failed(),
		Subscribers: h.Service.Hub.SubscriberCount(),
		State:       h.Service.View().Snapshot.State,
		Queue:       len(h.Service.CommandChan),
	})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (оверлей - локальная страница)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
