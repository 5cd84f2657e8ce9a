package session

import (
	"necrolens-server/internal/domain"
	"necrolens-server/internal/systems"
)

// ObserveFrame - всё, что хост увидел за тик.
// Объекты идут в реестр этажа, монстры - в трекер покоя.
func (s *Session) ObserveFrame(frame domain.Frame) {
	if s.state == StateOutside {
		return
	}

	s.playerPos = frame.PlayerPos
	s.visible = append(s.visible[:0], frame.Objects...)

	for _, obj := range frame.Objects {
		// Во время перехода на экране ещё старый этаж
		if s.state == StateOnFloor {
			s.registry.Record(domain.FloorObject{
				EntityID:     obj.EntityID,
				DataID:       obj.DataID,
				NameID:       obj.NameID,
				Name:         obj.Name,
				ContentID:    s.info.ContentID,
				Floor:        s.floor,
				HitboxRadius: obj.HitboxRadius,
			})
		}

		if obj.IsHostile() {
			s.idle.Observe(obj.EntityID, obj.Pos, obj.Motion, frame.At)
		}
	}

	s.idle.Prune(frame.At)
}

// IdleElapsed - сколько монстр стоит на месте (мс), domain.IdleUnknown если неизвестно
func (s *Session) IdleElapsed(id domain.EntityID) int64 {
	return s.idle.Elapsed(id)
}

// PruneIdle - принудительная чистка трекера (по таймеру движка)
func (s *Session) PruneIdle(now int64) int {
	return s.idle.Prune(now)
}

// GrantBonusItem - из сундука выпал второй предмет. Ищем сундук рядом с игроком.
func (s *Session) GrantBonusItem(kind domain.ItemKind, itemID uint32, playerPos domain.Position) (domain.EntityID, bool) {
	if s.state == StateOutside {
		return 0, false
	}
	return s.chests.Correlate(systems.BonusItem{Kind: kind, ItemID: itemID}, playerPos, s.visible)
}

// ContainingItem - что выпало вторым предметом из сундука
func (s *Session) ContainingItem(chest domain.EntityID) (systems.BonusItem, bool) {
	return s.chests.ContainingItem(chest)
}

// DoubleChests - копия всех связей сундук -> предмет
func (s *Session) DoubleChests() map[domain.EntityID]systems.BonusItem {
	return s.chests.Snapshot()
}

// ChestOpenSafe - не рискуем ли нарваться на мимика. Вне подземелья мимиков нет.
func (s *Session) ChestOpenSafe(kind domain.ChestKind) bool {
	if s.state == StateOutside {
		return true
	}
	return s.info.ChestOpenSafe(kind)
}

// MarkInteracted - с объектом уже взаимодействовали на этом этаже
func (s *Session) MarkInteracted(id domain.EntityID) {
	if s.state == StateOutside || !id.IsValid() {
		return
	}
	s.interacted.Put(id)
}

func (s *Session) HasInteracted(id domain.EntityID) bool {
	return s.interacted.Has(id)
}

func (s *Session) InteractedCount() int {
	return s.interacted.Size()
}
