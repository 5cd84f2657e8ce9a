package engine

import (
	"necrolens-server/internal/domain"
	"necrolens-server/internal/systems"
	"necrolens-server/pkg/api"
	"sort"
)

// ReadModel - неизменяемый снимок, который цикл отдаёт читателям
type ReadModel struct {
	Snapshot api.SnapshotView

	// Registry - содержимое реестра этажа (для /objects)
	Registry []domain.FloorObject

	// Idle - копия трекера покоя (для /idle и /debug/idle)
	Idle map[domain.EntityID]systems.IdleEntry
}

// IdleFor - оценка покоя для сущности. Неизвестная сущность - IdleUnknown.
func (m *ReadModel) IdleFor(id domain.EntityID) api.IdleView {
	view := api.IdleView{EntityID: id.String(), IdleMs: domain.IdleUnknown}
	if entry, ok := m.Idle[id]; ok {
		view.IdleMs = entry.Idle
	}
	view.Known = view.IdleMs != domain.IdleUnknown
	return view
}

// buildReadModel собирает снимок состояния сессии на момент now
func (s *TrackerService) buildReadModel(now int64) *ReadModel {
	sess := s.session

	model := &ReadModel{
		Snapshot: api.SnapshotView{
			Type:  "SNAPSHOT",
			At:    now,
			State: sess.State().String(),
		},
		Registry: sess.Objects(),
		Idle:     make(map[domain.EntityID]systems.IdleEntry, sess.IdleTracked()),
	}

	for _, entry := range sess.Idle() {
		model.Idle[entry.EntityID] = entry
	}

	// Вне подземелья только состояние
	if !sess.Inside() {
		return model
	}

	info := sess.Info()
	model.Snapshot.Run = &api.RunView{
		RunID:      sess.RunID(),
		PartyID:    sess.PartyID(),
		ContentID:  info.ContentID,
		Variant:    info.Variant.String(),
		StartFloor: info.StartFloor,
		FloorTimes: floorTimes(sess.FloorTimes()),
	}

	model.Snapshot.Floor = &api.FloorView{
		Number:          sess.Floor(),
		ElapsedSeconds:  int((now - sess.FloorStart()) / 1000),
		TimeTillRespawn: sess.TimeTillRespawn(now),
		HasRespawn:      sess.HasRespawn(),
		TrapStatus:      sess.TrapStatus().String(),
		ActiveEffects:   pomanderNames(sess.ActiveEffects()),
		NextFloor:       carriedNames(sess.UsedItems()),
		BonusOpened:     sess.BonusOpened(),
		Recorded:        sess.RegistryLen(),
	}

	model.Snapshot.Objects = s.objectViews(model)
	return model
}

func (s *TrackerService) objectViews(model *ReadModel) []api.ObjectView {
	sess := s.session
	visible := sess.Visible()
	out := make([]api.ObjectView, 0, len(visible))

	for _, obj := range visible {
		kind := domain.ClassifyObject(obj.DataID)
		view := api.ObjectView{
			EntityID:     obj.EntityID.String(),
			DataID:       uint32(obj.DataID),
			Name:         obj.Name,
			Pos:          api.PosView{X: obj.Pos.X, Y: obj.Pos.Y, Z: obj.Pos.Z},
			HitboxRadius: obj.HitboxRadius,
			Kind:         kind.String(),
			Interacted:   sess.HasInteracted(obj.EntityID),
			InBattle:     obj.InBattle,
		}

		if kind == domain.ObjectMonster {
			idle := domain.IdleUnknown
			if entry, ok := model.Idle[obj.EntityID]; ok {
				idle = entry.Idle
			}
			view.IdleMs = &idle
		}

		if chest := domain.ClassifyChest(obj.DataID); chest != domain.ChestNone {
			safe := sess.ChestOpenSafe(chest)
			view.ChestSafe = &safe
			if item, ok := sess.ContainingItem(obj.EntityID); ok {
				view.Bonus = &api.BonusView{Kind: item.Kind.String(), ItemID: item.ItemID}
			}
		}

		out = append(out, view)
	}
	return out
}

func floorTimes(m map[int]int) []api.FloorTime {
	out := make([]api.FloorTime, 0, len(m))
	for floor, sec := range m {
		out = append(out, api.FloorTime{Floor: floor, Seconds: sec})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Floor < out[j].Floor
	})
	return out
}

func pomanderNames(items []domain.Pomander) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.String()
	}
	return out
}

// carriedNames - использованные предметы, которые подействуют на следующем этаже
func carriedNames(used []domain.Pomander) []string {
	var out []string
	for _, item := range used {
		if item.CarriesForward() {
			out = append(out, item.Base().String())
		}
	}
	return out
}
