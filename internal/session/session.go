// Package session - конечный автомат забега по подземелью.
//
// Session владеет номером этажа, расписанием респауна, активными эффектами помандеров,
// реестром объектов этажа, трекером покоя монстров и связями "двойных" сундуков.
// Все методы вызываются из одного потока (цикл движка), блокировок здесь нет.
package session

import (
	"errors"
	"fmt"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/systems"
	"necrolens-server/pkg/logger"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/zyedidia/generic/mapset"
)

// ErrUnknownContent - ContentID нет в каталоге, вход в подземелье пропущен
var ErrUnknownContent = errors.New("unknown content id")

// State - состояние автомата
type State uint8

const (
	StateOutside State = iota
	StateOnFloor
	StateTransferPending
)

func (s State) String() string {
	switch s {
	case StateOnFloor:
		return "ON_FLOOR"
	case StateTransferPending:
		return "TRANSFER_PENDING"
	default:
		return "OUTSIDE"
	}
}

// Exporter принимает содержимое реестра при уходе с этажа.
// Реализация обязана не блокировать вызывающего.
type Exporter interface {
	Submit(dump domain.FloorDump)
}

// FloorRecorder сохраняет длительность пройденных этажей
type FloorRecorder interface {
	RecordFloor(rec domain.FloorRecord)
}

type Session struct {
	catalog  *domain.Catalog
	exporter Exporter
	recorder FloorRecorder

	state   State
	runID   string
	partyID string
	info    domain.FloorSetInfo

	floor           int
	floorStart      int64
	floorStarted    bool
	nextRespawn     int64
	respawnInterval int64 // секунды
	floorTimes      map[int]int

	active      mapset.Set[domain.Pomander]
	used        []domain.Pomander
	bonusOpened bool
	interacted  mapset.Set[domain.EntityID]

	registry *systems.FloorRegistry
	idle     *systems.IdleTracker
	chests   *systems.DoubleChestCorrelator

	playerPos domain.Position
	visible   []domain.ObjectSample
}

// New создает сессию. exporter и recorder могут быть nil.
func New(catalog *domain.Catalog, exporter Exporter, recorder FloorRecorder) *Session {
	return &Session{
		catalog:    catalog,
		exporter:   exporter,
		recorder:   recorder,
		floorTimes: make(map[int]int),
		active:     mapset.New[domain.Pomander](),
		interacted: mapset.New[domain.EntityID](),
		registry:   systems.NewFloorRegistry(),
		idle:       systems.NewIdleTracker(),
		chests:     systems.NewDoubleChestCorrelator(),
	}
}

func (s *Session) log() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"component":  "session",
		"run_id":     s.runID,
		"content_id": s.info.ContentID,
		"floor":      s.floor,
	})
}

// --- ПЕРЕХОДЫ ---

// Enter - хост сообщил, что мы внутри подземелья на этаже floor.
// Если мы уже внутри, это просто загрузка следующего этажа.
func (s *Session) Enter(contentID, floor int, partyID string, now int64) error {
	if s.state != StateOutside {
		s.Advance(now)
		return nil
	}

	info, ok := s.catalog.Lookup(contentID)
	if !ok {
		logger.Log.WithFields(logrus.Fields{
			"component":  "session",
			"content_id": contentID,
		}).Warn("Entered unknown content, tracking skipped")
		return fmt.Errorf("enter content %d: %w", contentID, ErrUnknownContent)
	}

	// 1. Новый забег
	s.runID = ulid.Make().String()
	s.partyID = partyID
	s.info = info
	s.respawnInterval = int64(info.RespawnTime)

	// 2. Таблица времени этажей текущего набора
	clear(s.floorTimes)
	for f := info.StartFloor; f < info.StartFloor+domain.FloorsPerSet; f++ {
		s.floorTimes[f] = 0
	}

	s.registry.Clear()
	s.chests.Clear()

	// 3. Advance прибавит единицу, так что все эффекты идут по одному пути
	s.floor = floor - 1
	s.floorStarted = false
	s.state = StateTransferPending
	s.Advance(now)

	s.log().WithField("variant", info.Variant).Info("Entered deep dungeon")
	return nil
}

// BeginTransfer - начался переход на следующий этаж.
// Отдаём реестр в экспорт и очищаем его.
func (s *Session) BeginTransfer() {
	if s.state != StateOnFloor {
		return
	}
	s.state = StateTransferPending
	s.dump()
	s.registry.Clear()
	s.log().Debug("Floor transfer initiated")
}

// Advance - следующий этаж загружен. Без ожидающего перехода ничего не делает.
func (s *Session) Advance(now int64) bool {
	if s.state != StateTransferPending {
		return false
	}

	// 1. Пройденный этаж в историю
	if s.floorStarted {
		s.record(now, true)
	}

	// 2. Всё, что относилось к этажу
	s.registry.Clear()
	s.chests.Clear()
	s.interacted = mapset.New[domain.EntityID]()
	s.visible = s.visible[:0]

	// 3. На новый этаж переходят только эффекты, использованные на прошлом
	next := mapset.New[domain.Pomander]()
	for _, item := range s.used {
		if item.CarriesForward() {
			next.Put(item.Base())
		}
	}
	s.active = next
	s.used = s.used[:0]

	s.bonusOpened = false
	s.floor++
	s.floorStart = now
	s.floorStarted = true
	s.nextRespawn = now + s.respawnInterval*1000
	s.state = StateOnFloor

	s.log().WithField("active_effects", s.ActiveEffects()).Info("Next floor")
	return true
}

// Leave - мы вышли из подземелья. Последний экспорт и полная очистка.
func (s *Session) Leave(now int64) {
	if s.state == StateOutside {
		return
	}
	s.dump()
	if s.floorStarted {
		s.record(now, false)
	}
	s.log().Info("Left deep dungeon")
	s.Clear()
}

// Clear сбрасывает всё состояние, включая трекер покоя
func (s *Session) Clear() {
	s.state = StateOutside
	s.runID = ""
	s.partyID = ""
	s.info = domain.FloorSetInfo{}
	s.floor = 0
	s.floorStart = 0
	s.floorStarted = false
	s.nextRespawn = 0
	s.respawnInterval = 0
	clear(s.floorTimes)

	s.active = mapset.New[domain.Pomander]()
	s.used = s.used[:0]
	s.bonusOpened = false
	s.interacted = mapset.New[domain.EntityID]()

	s.registry.Clear()
	s.idle.Clear()
	s.chests.Clear()
	s.visible = nil
}

func (s *Session) dump() {
	if s.exporter == nil {
		return
	}
	s.exporter.Submit(domain.FloorDump{
		PartyID:   s.partyID,
		ContentID: s.info.ContentID,
		Floor:     s.floor,
		Objects:   s.registry.Snapshot(),
	})
}

func (s *Session) record(now int64, cleared bool) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordFloor(domain.FloorRecord{
		RunID:      s.runID,
		ContentID:  s.info.ContentID,
		Variant:    s.info.Variant,
		Floor:      s.floor,
		Seconds:    int((now - s.floorStart) / 1000),
		Cleared:    cleared,
		FinishedAt: now,
	})
}

// SetParty запоминает группу (хост может прислать её позже входа)
func (s *Session) SetParty(partyID string) {
	s.partyID = partyID
}

// --- ГЕТТЕРЫ ---

func (s *Session) State() State                  { return s.state }
func (s *Session) Inside() bool                  { return s.state != StateOutside }
func (s *Session) TransferPending() bool         { return s.state == StateTransferPending }
func (s *Session) Floor() int                    { return s.floor }
func (s *Session) FloorStart() int64             { return s.floorStart }
func (s *Session) NextRespawn() int64            { return s.nextRespawn }
func (s *Session) Info() domain.FloorSetInfo     { return s.info }
func (s *Session) RunID() string                 { return s.runID }
func (s *Session) PartyID() string               { return s.partyID }
func (s *Session) BonusOpened() bool             { return s.bonusOpened }
func (s *Session) PlayerPos() domain.Position    { return s.playerPos }
func (s *Session) Catalog() *domain.Catalog      { return s.catalog }
func (s *Session) IdleTracked() int              { return s.idle.Len() }
func (s *Session) RegistryLen() int              { return s.registry.Len() }
func (s *Session) Idle() []systems.IdleEntry     { return s.idle.Snapshot() }
func (s *Session) Objects() []domain.FloorObject { return s.registry.Snapshot() }

// FloorTimes - копия таблицы этаж -> секунды
func (s *Session) FloorTimes() map[int]int {
	out := make(map[int]int, len(s.floorTimes))
	for f, sec := range s.floorTimes {
		out[f] = sec
	}
	return out
}

// Visible - копия объектов последнего кадра
func (s *Session) Visible() []domain.ObjectSample {
	out := make([]domain.ObjectSample, len(s.visible))
	copy(out, s.visible)
	return out
}
