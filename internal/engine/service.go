package engine

import (
	"context"
	"fmt"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/engine/handlers"
	"necrolens-server/internal/engine/handlers/events"
	"necrolens-server/internal/network"
	"necrolens-server/internal/session"
	"necrolens-server/pkg/api"
	"necrolens-server/pkg/logger"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Journal - куда пишутся входящие события (для воспроизведения)
type Journal interface {
	Append(entry domain.JournalEntry) error
	Flush() error
}

// TrackerService владеет сессией забега и единственным циклом, который её меняет.
// Все остальные (HTTP, оверлей) видят только опубликованные снимки.
type TrackerService struct {
	session *session.Session

	CommandChan chan domain.InternalCommand
	Hub         *network.Broadcaster

	handlers map[domain.EventType]handlers.HandlerFunc
	journal  Journal
	clock    *hostClock

	view atomic.Pointer[ReadModel]

	processed atomic.Int64
	failed    atomic.Int64
}

func NewService(sess *session.Session, hub *network.Broadcaster, journal Journal) *TrackerService {
	s := &TrackerService{
		session:     sess,
		CommandChan: make(chan domain.InternalCommand, 256),
		Hub:         hub,
		handlers:    make(map[domain.EventType]handlers.HandlerFunc),
		journal:     journal,
		clock:       newHostClock(nil),
	}
	s.registerHandlers()
	s.publish(s.clock.Now())
	return s
}

func (s *TrackerService) registerHandlers() {
	s.handlers[domain.EventEnteredInstance] = handlers.WithPayload(events.HandleEnteredInstance)
	s.handlers[domain.EventTransferInitiated] = handlers.WithEmptyPayload(events.HandleTransferInitiated)
	s.handlers[domain.EventFloorLoaded] = handlers.WithEmptyPayload(events.HandleFloorLoaded)
	s.handlers[domain.EventItemUsed] = handlers.WithPayload(events.HandleItemUsed)
	s.handlers[domain.EventAltItemUsed] = handlers.WithPayload(events.HandleAltItemUsed)
	s.handlers[domain.EventBonusOpened] = handlers.WithEmptyPayload(events.HandleBonusOpened)
	s.handlers[domain.EventBonusItemGranted] = handlers.WithPayload(events.HandleBonusItemGranted)
	s.handlers[domain.EventLeftInstance] = handlers.WithEmptyPayload(events.HandleLeftInstance)
	s.handlers[domain.EventInteracted] = handlers.WithPayload(events.HandleInteracted)
	s.handlers[domain.EventFrame] = handlers.WithPayload(events.HandleFrame)
}

// ProcessMessage принимает событие от хоста (WebSocket) и ставит его в очередь цикла.
func (s *TrackerService) ProcessMessage(msg api.ClientMessage) error {
	event := domain.ParseEvent(msg.Type)
	if event == domain.EventUnknown {
		return fmt.Errorf("unknown event type %q", msg.Type)
	}

	s.CommandChan <- domain.InternalCommand{
		Event:   event,
		At:      msg.At,
		Payload: msg.Payload,
	}
	return nil
}

// --- LOOP ---

// Run крутит цикл до отмены ctx. Таймер этажа и чистка трекера идут по тикеру.
func (s *TrackerService) Run(ctx context.Context) {
	log := logger.Component("engine")
	log.Info("Tracker loop started")

	ticker := time.NewTicker(time.Duration(domain.FloorTimerInterval) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.flushJournal()
			log.Info("Tracker loop stopped")
			return

		case cmd := <-s.CommandChan:
			_, _ = s.Execute(cmd)

		case <-ticker.C:
			s.Tick(s.clock.Now())
		}
	}
}

// Execute обрабатывает одно событие синхронно. Вызывается только из цикла (или при воспроизведении).
func (s *TrackerService) Execute(cmd domain.InternalCommand) (handlers.Result, error) {
	if cmd.At == 0 {
		cmd.At = s.clock.Now()
	} else {
		s.clock.Observe(cmd.At)
	}

	s.record(cmd)

	handler, ok := s.handlers[cmd.Event]
	if !ok {
		return handlers.EmptyResult(), fmt.Errorf("no handler for %s", cmd.Event)
	}

	ctx := handlers.Context{
		Session: s.session,
		Now:     cmd.At,
	}

	result, err := handler(ctx, cmd.Payload)
	s.processed.Add(1)

	log := logger.Log.WithFields(logrus.Fields{
		"component": "engine",
		"event":     cmd.Event,
		"floor":     s.session.Floor(),
	})
	if err != nil {
		s.failed.Add(1)
		log.WithError(err).Warn("Event rejected")
		return result, err
	}

	if result.Msg != "" {
		switch result.MsgType {
		case "WARN":
			log.Warn(result.Msg)
		case "DEBUG":
			log.Debug(result.Msg)
		default:
			log.Info(result.Msg)
		}
	}

	if result.Publish {
		s.publish(cmd.At)
	}
	return result, nil
}

// Tick - периодическая работа: таблица времени этажей, чистка трекера покоя, сброс журнала
func (s *TrackerService) Tick(now int64) {
	s.tickTimers(now)
	s.flushJournal()
	s.publish(now)
}

// tickTimers - часть тика, которая меняет сессию
func (s *TrackerService) tickTimers(now int64) {
	s.session.TickFloorTimer(now)
	s.session.PruneIdle(now)
}

func (s *TrackerService) record(cmd domain.InternalCommand) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(domain.JournalEntry{At: cmd.At, Event: cmd.Event, Payload: cmd.Payload}); err != nil {
		logger.Component("engine").WithError(err).Warn("Journal append failed")
	}
}

func (s *TrackerService) flushJournal() {
	if s.journal == nil {
		return
	}
	if err := s.journal.Flush(); err != nil {
		logger.Component("engine").WithError(err).Warn("Journal flush failed")
	}
}

// publish строит снимок, кладёт его для читателей и рассылает оверлеям
func (s *TrackerService) publish(now int64) {
	model := s.buildReadModel(now)
	s.view.Store(model)
	if s.Hub != nil {
		s.Hub.Broadcast(model.Snapshot)
	}
}

// View - последний опубликованный снимок. Безопасно из любой горутины.
func (s *TrackerService) View() *ReadModel {
	return s.view.Load()
}

func (s *TrackerService) Processed() int64 { return s.processed.Load() }
func (s *TrackerService) Failed() int64    { return s.failed.Load() }
