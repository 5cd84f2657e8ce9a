package session

import (
	"necrolens-server/internal/domain"
	"slices"
)

// ApplyItemUse - использован помандер (или протомандер).
// Эффекты, действующие со следующего этажа, только встают в очередь.
func (s *Session) ApplyItemUse(raw domain.Pomander) {
	if s.state == StateOutside {
		return
	}

	item := domain.NormalizeItem(s.info.Variant, raw)
	s.used = append(s.used, item)
	if !item.CarriesForward() {
		s.active.Put(item)
	}

	s.log().WithField("item", item).Debug("Pomander used")
}

// ApplyAltItemUse - использован демиклон. Эффект помандера даёт только Mazeroot Incense.
func (s *Session) ApplyAltItemUse(d domain.Demiclone) {
	if s.state == StateOutside {
		return
	}

	effect, ok := d.RevealEffect()
	if !ok {
		return
	}
	s.active.Put(effect)
	s.used = append(s.used, effect)

	s.log().WithField("demiclone", d).Debug("Demiclone used")
}

// hasActive проверяет эффект с учётом протомандеров
func (s *Session) hasActive(base domain.Pomander) bool {
	found := false
	s.active.Each(func(item domain.Pomander) {
		if item.Base() == base {
			found = true
		}
	})
	return found
}

// TrapStatus - Safety важнее Sight
func (s *Session) TrapStatus() domain.TrapStatus {
	if s.hasActive(domain.PomanderSafety) {
		return domain.TrapsInactive
	}
	if s.hasActive(domain.PomanderSight) {
		return domain.TrapsVisible
	}
	return domain.TrapsActive
}

// IsActive - действует ли эффект на текущем этаже
func (s *Session) IsActive(item domain.Pomander) bool {
	return s.active.Has(item)
}

// IsNextFloorWith - использован ли предмет на этом этаже (для эффектов следующего этажа)
// Протомандер и обычный помандер считаются одним предметом.
func (s *Session) IsNextFloorWith(item domain.Pomander) bool {
	return slices.ContainsFunc(s.used, func(used domain.Pomander) bool {
		return used.Base() == item.Base()
	})
}

// ActiveEffects - отсортированная копия активных эффектов
func (s *Session) ActiveEffects() []domain.Pomander {
	out := make([]domain.Pomander, 0, s.active.Size())
	s.active.Each(func(item domain.Pomander) {
		out = append(out, item)
	})
	slices.Sort(out)
	return out
}

// UsedItems - копия списка использованных на этаже предметов (в порядке использования)
func (s *Session) UsedItems() []domain.Pomander {
	return slices.Clone(s.used)
}

// MarkBonusOpened - открыт Accursed Hoard
func (s *Session) MarkBonusOpened() {
	if s.state == StateOutside {
		return
	}
	s.bonusOpened = true
}
