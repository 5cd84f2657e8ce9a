package systems

import (
	"necrolens-server/internal/domain"
	"necrolens-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// BonusItem - предмет, который выпал из сундука вторым
type BonusItem struct {
	Kind   domain.ItemKind `json:"kind"`
	ItemID uint32          `json:"itemId"`
}

// DoubleChestCorrelator связывает выдачу бонусного предмета с сундуком, у которого стоит игрок.
// Живёт один этаж.
type DoubleChestCorrelator struct {
	chests map[domain.EntityID]BonusItem
}

func NewDoubleChestCorrelator() *DoubleChestCorrelator {
	return &DoubleChestCorrelator{
		chests: make(map[domain.EntityID]BonusItem),
	}
}

// Correlate ищет среди объектов кадра сундук нужного уровня в радиусе DoubleChestRadius от игрока.
// Из нескольких подходящих берётся ближайший, при равенстве - первый в кадре.
// Если ничего не нашлось, выдача просто теряется.
func (c *DoubleChestCorrelator) Correlate(item BonusItem, playerPos domain.Position, objects []domain.ObjectSample) (domain.EntityID, bool) {
	log := logger.Log.WithFields(logrus.Fields{
		"component": "double_chest",
		"item_kind": item.Kind,
		"item_id":   item.ItemID,
	})

	chestDataID, ok := domain.BonusChestFor(item.Kind)
	if !ok {
		log.Debug("Bonus item kind has no chest tier")
		return 0, false
	}

	var (
		best     domain.EntityID
		bestDist float64
		found    bool
	)
	for _, obj := range objects {
		if obj.DataID != chestDataID || !obj.EntityID.IsValid() {
			continue
		}
		dist := playerPos.Distance2DTo(obj.Pos)
		if dist > domain.DoubleChestRadius {
			continue
		}
		if !found || dist < bestDist {
			best, bestDist, found = obj.EntityID, dist, true
		}
	}

	if !found {
		log.Debug("No chest near player, bonus item dropped")
		return 0, false
	}

	c.chests[best] = item
	log.WithFields(logrus.Fields{
		"entity_id": best,
		"distance":  bestDist,
	}).Info("Double chest found")
	return best, true
}

// ContainingItem - что выпало из сундука вторым предметом
func (c *DoubleChestCorrelator) ContainingItem(chest domain.EntityID) (BonusItem, bool) {
	item, ok := c.chests[chest]
	return item, ok
}

func (c *DoubleChestCorrelator) Len() int {
	return len(c.chests)
}

// Snapshot возвращает копию связей сундук -> предмет
func (c *DoubleChestCorrelator) Snapshot() map[domain.EntityID]BonusItem {
	out := make(map[domain.EntityID]BonusItem, len(c.chests))
	for id, item := range c.chests {
		out[id] = item
	}
	return out
}

func (c *DoubleChestCorrelator) Clear() {
	clear(c.chests)
}
