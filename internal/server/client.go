package server

import (
	"necrolens-server/internal/engine"
	"necrolens-server/pkg/api"
	"necrolens-server/pkg/logger"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // кадр с сотней объектов
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// FeedClient - сокет хоста. Читает события и отвечает только на ошибки.
type FeedClient struct {
	Tracker *engine.TrackerService
	Conn    *websocket.Conn
}

func NewFeedClient(tracker *engine.TrackerService, conn *websocket.Conn) *FeedClient {
	return &FeedClient{Tracker: tracker, Conn: conn}
}

func (c *FeedClient) readPump() {
	log := logger.Component("feed")
	defer func() {
		if err := c.Conn.Close(); err != nil {
			log.WithError(err).Warn("failed to close websocket connection")
		}
		log.Info("Host disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	log.Info("Host connected")

	for {
		var msg api.ClientMessage
		err := c.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Errorf("WS Error: %v", err)
			}
			break
		}

		if err := c.Tracker.ProcessMessage(msg); err != nil {
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.WithError(err).Warn("failed to set write deadline")
			}
			if err := c.Conn.WriteJSON(errorResponse(msg.Type, err)); err != nil {
				log.WithError(err).Debug("write error response failed")
				break
			}
		}
	}
}

// OverlayClient - подписчик оверлея
type OverlayClient struct {
	Tracker *engine.TrackerService
	Conn    *websocket.Conn
	Send    chan api.SnapshotView
	ID      string
}

func NewOverlayClient(tracker *engine.TrackerService, conn *websocket.Conn) *OverlayClient {
	c := &OverlayClient{
		Tracker: tracker,
		Conn:    conn,
		ID:      uuid.NewString(),
	}
	c.Send = tracker.Hub.Register(c.ID)

	// Первый снимок сразу, не дожидаясь следующего события
	if view := tracker.View(); view != nil {
		tracker.Hub.SendTo(c.ID, view.Snapshot)
	}
	return c
}

// readPump нужен только чтобы заметить закрытие и обработать pong
func (c *OverlayClient) readPump() {
	defer func() {
		c.Tracker.Hub.Unregister(c.ID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close overlay connection")
		}
		logger.Log.WithField("subscriber", c.ID).Info("Overlay disconnected")
	}()

	c.Conn.SetReadLimit(512)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	logger.Log.WithField("subscriber", c.ID).Info("Overlay connected")
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// writePump отправляет снимки + Ping
func (c *OverlayClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
