package systems

import (
	"necrolens-server/internal/domain"
	"necrolens-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// idleTrack - что мы знаем про одну сущность
type idleTrack struct {
	pos      domain.Position
	lastSeen int64
	idle     int64 // domain.IdleUnknown, если не знаем
}

// IdleTracker выводит, сколько времени монстр стоит на месте.
// Время - миллисекунды монотонных часов хоста.
//
// Проблема в том, что толчок от столкновения выглядит у хоста так же, как обычная ходьба,
// а сущности пропадают из вида на произвольное время. Поэтому трекер не угадывает,
// а держит верхнюю оценку или честное "неизвестно".
type IdleTracker struct {
	tracks    map[domain.EntityID]*idleTrack
	lastPrune int64
	pruned    bool
}

func NewIdleTracker() *IdleTracker {
	return &IdleTracker{
		tracks: make(map[domain.EntityID]*idleTrack),
	}
}

// Observe принимает очередное наблюдение и возвращает текущую оценку покоя.
func (t *IdleTracker) Observe(id domain.EntityID, pos domain.Position, motion domain.MotionIndicator, now int64) int64 {
	track, ok := t.tracks[id]

	// 1. Первое наблюдение: ничего не знаем
	if !ok {
		t.tracks[id] = &idleTrack{pos: pos, lastSeen: now, idle: domain.IdleUnknown}
		return domain.IdleUnknown
	}

	// Кадр старше последнего учтённого (пришёл не по порядку) ничего не меняет
	if now < track.lastSeen {
		return track.idle
	}

	gap := now - track.lastSeen

	// 2. Стоит на месте. Позицию не трогаем, чтобы медленный дрейф всё-таки заметить.
	if pos.DistanceTo(track.pos) < domain.IdlePositionEpsilon {
		if track.idle != domain.IdleUnknown {
			track.idle += gap
		}
		track.lastSeen = now
		return track.idle
	}

	// 3. Сдвинулся
	if gap < domain.IdleRevalidationThreshold {
		switch motion {
		case domain.MotionJustAppeared:
			// Модель только что подгрузилась, анимация ещё не выставлена.
			// Решим на следующем тике.
			track.lastSeen = now
			return track.idle
		case domain.MotionStationary:
			track.idle = gap
		case domain.MotionMoving:
			track.idle = 0
		}
	} else {
		logger.Log.WithFields(logrus.Fields{
			"component": "idle_tracker",
			"entity_id": id,
			"gap_ms":    gap,
		}).Debug("Entity moved while out of sight, idle time reset to unknown")
		track.idle = domain.IdleUnknown
	}

	track.pos = pos
	track.lastSeen = now
	return track.idle
}

// Elapsed - текущая оценка покоя. Для неизвестной сущности - IdleUnknown.
func (t *IdleTracker) Elapsed(id domain.EntityID) int64 {
	if track, ok := t.tracks[id]; ok {
		return track.idle
	}
	return domain.IdleUnknown
}

// Prune удаляет трекеры, которые давно не обновлялись.
// Работает не чаще раза в IdlePruneInterval, возвращает число удалённых.
func (t *IdleTracker) Prune(now int64) int {
	if t.pruned && now-t.lastPrune < domain.IdlePruneInterval {
		return 0
	}
	t.pruned = true
	t.lastPrune = now

	removed := 0
	for id, track := range t.tracks {
		if now-track.lastSeen > domain.IdleStaleAfter {
			delete(t.tracks, id)
			removed++
		}
	}

	if removed > 0 {
		logger.Log.WithFields(logrus.Fields{
			"component": "idle_tracker",
			"removed":   removed,
			"left":      len(t.tracks),
		}).Debug("Stale idle trackers pruned")
	}
	return removed
}

// Len - количество отслеживаемых сущностей
func (t *IdleTracker) Len() int {
	return len(t.tracks)
}

// Clear забывает всё (выход из подземелья)
func (t *IdleTracker) Clear() {
	clear(t.tracks)
	t.pruned = false
}

// IdleEntry - копия состояния трекера для отладочных ручек
type IdleEntry struct {
	EntityID domain.EntityID `json:"entityId"`
	Pos      domain.Position `json:"pos"`
	LastSeen int64           `json:"lastSeen"`
	Idle     int64           `json:"idle"`
}

// Snapshot возвращает копию всех трекеров
func (t *IdleTracker) Snapshot() []IdleEntry {
	out := make([]IdleEntry, 0, len(t.tracks))
	for id, track := range t.tracks {
		out = append(out, IdleEntry{
			EntityID: id,
			Pos:      track.pos,
			LastSeen: track.lastSeen,
			Idle:     track.idle,
		})
	}
	return out
}
