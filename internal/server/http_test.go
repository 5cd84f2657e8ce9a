package server

import (
	"context"
	"encoding/json"
	"errors"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/engine"
	"necrolens-server/internal/network"
	"necrolens-server/internal/session"
	"necrolens-server/pkg/api"
	"necrolens-server/pkg/logger"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeHistory struct {
	rows []domain.FloorRecord
	err  error
}

func (f *fakeHistory) Latest(_ context.Context, limit int) ([]domain.FloorRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.rows) {
		return f.rows[:limit], nil
	}
	return f.rows, nil
}

func newTestServer(t *testing.T, history HistoryReader) (*Server, *engine.TrackerService) {
	t.Helper()
	catalog, err := domain.DefaultCatalog()
	if err != nil {
		t.Fatal(err)
	}
	tracker := engine.NewService(session.New(catalog, nil, nil), network.NewBroadcaster(), nil)
	return New(tracker, history, "0"), tracker
}

func enterPotD(t *testing.T, tracker *engine.TrackerService) {
	t.Helper()
	payload, _ := json.Marshal(api.EnteredInstancePayload{ContentID: 60001, Floor: 1})
	if _, err := tracker.Execute(domain.InternalCommand{Event: domain.EventEnteredInstance, At: 1000, Payload: payload}); err != nil {
		t.Fatal(err)
	}
}

func TestHTTP_Queries(t *testing.T) {
	history := &fakeHistory{rows: []domain.FloorRecord{
		{RunID: "r1", ContentID: 60001, Variant: domain.VariantPotD, Floor: 2, Seconds: 40, Cleared: true},
		{RunID: "r1", ContentID: 60001, Variant: domain.VariantPotD, Floor: 1, Seconds: 80, Cleared: true},
	}}
	srv, tracker := newTestServer(t, history)
	enterPotD(t, tracker)
	mux := srv.Routes()

	tests := []struct {
		name     string
		path     string
		status   int
		contains string
	}{
		{"health", "/health", http.StatusOK, "ok"},
		{"version", "/version", http.StatusOK, `"calculated"`},
		{"state", "/state", http.StatusOK, `"state":"ON_FLOOR"`},
		{"objects", "/objects", http.StatusOK, "[]"},
		{"idle unknown", "/idle?entity=1073741830", http.StatusOK, `"idleMs":-1`},
		{"idle bad id", "/idle?entity=abc", http.StatusBadRequest, "entity"},
		{"history", "/history?limit=1", http.StatusOK, `"seconds":40`},
		{"history bad limit", "/history?limit=-3", http.StatusBadRequest, "limit"},
		{"debug stats", "/debug/stats", http.StatusOK, `"state":"ON_FLOOR"`},
		{"debug idle", "/debug/idle", http.StatusOK, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.contains)
			}
		})
	}
}

func TestHTTP_HistoryVariants(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)
		rec := httptest.NewRecorder()
		srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
		if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Errorf("got %d %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("store error", func(t *testing.T) {
		srv, _ := newTestServer(t, &fakeHistory{err: errors.New("disk gone")})
		rec := httptest.NewRecorder()
		srv.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d", rec.Code)
		}
	})
}

func wsURL(base, path string) string {
	return "ws" + strings.TrimPrefix(base, "http") + path
}

func TestWebSocket_FeedToOverlay(t *testing.T) {
	srv, tracker := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go tracker.Run(ctx)

	ts := httptest.NewServer(srv.Routes())
	defer ts.Close()

	overlay, _, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, "/ws/overlay"), nil)
	if err != nil {
		t.Fatalf("dial overlay: %v", err)
	}
	defer overlay.Close()

	feed, _, err := websocket.DefaultDialer.Dial(wsURL(ts.URL, "/ws/feed"), nil)
	if err != nil {
		t.Fatalf("dial feed: %v", err)
	}
	defer feed.Close()

	// Первый снимок приходит сразу
	var first api.SnapshotView
	overlay.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := overlay.ReadJSON(&first); err != nil {
		t.Fatalf("initial snapshot: %v", err)
	}
	if first.State != "OUTSIDE" {
		t.Errorf("initial state = %s", first.State)
	}

	// Неизвестное событие - ошибка хосту
	if err := feed.WriteJSON(api.ClientMessage{Type: "DANCE"}); err != nil {
		t.Fatal(err)
	}
	var resp api.ServerResponse
	feed.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := feed.ReadJSON(&resp); err != nil {
		t.Fatalf("error response: %v", err)
	}
	if resp.Type != "ERROR" || resp.Event != "DANCE" {
		t.Errorf("unexpected response: %+v", resp)
	}

	payload, _ := json.Marshal(api.EnteredInstancePayload{ContentID: 60001, Floor: 1})
	if err := feed.WriteJSON(api.ClientMessage{Type: "ENTERED_INSTANCE", At: 5000, Payload: payload}); err != nil {
		t.Fatal(err)
	}

	for {
		var snap api.SnapshotView
		if err := overlay.ReadJSON(&snap); err != nil {
			t.Fatalf("waiting for ON_FLOOR: %v", err)
		}
		if snap.State == "ON_FLOOR" {
			if snap.Floor == nil || snap.Floor.Number != 1 {
				t.Errorf("floor view mismatch: %+v", snap.Floor)
			}
			return
		}
	}
}
