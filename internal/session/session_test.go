package session

import (
	"errors"
	"necrolens-server/internal/domain"
	"testing"
)

func TestSession_EndToEnd(t *testing.T) {
	s, exp, rec := newTestSession(t)

	// 1. Вход на первый этаж
	if err := s.Enter(contentPotD, 1, "party-1", 1000); err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if s.Floor() != 1 {
		t.Fatalf("expected floor 1, got %d", s.Floor())
	}
	if s.State() != StateOnFloor {
		t.Fatalf("expected ON_FLOOR, got %v", s.State())
	}
	if want := int64(1000 + 60*1000); s.NextRespawn() != want {
		t.Errorf("next respawn = %d, want %d", s.NextRespawn(), want)
	}
	if len(rec.records) != 0 {
		t.Errorf("entering must not record a floor, got %d records", len(rec.records))
	}

	// 2. Flight встаёт в очередь
	s.ApplyItemUse(domain.PomanderFlight)
	if s.IsActive(domain.PomanderFlight) {
		t.Error("flight must not be active on the floor where it was used")
	}
	if !s.IsNextFloorWith(domain.PomanderFlight) {
		t.Error("flight should be queued for next floor")
	}

	// 3. Кадр заполняет реестр
	s.ObserveFrame(domain.Frame{At: 2000, Objects: []domain.ObjectSample{monster(100, 0)}})
	if s.RegistryLen() != 1 {
		t.Fatalf("expected 1 registry record, got %d", s.RegistryLen())
	}

	// 4. Переход: экспорт и очистка реестра
	s.BeginTransfer()
	if len(exp.dumps) != 1 {
		t.Fatalf("expected 1 export, got %d", len(exp.dumps))
	}
	dump := exp.dumps[0]
	if dump.ContentID != contentPotD || dump.Floor != 1 || dump.PartyID != "party-1" || len(dump.Objects) != 1 {
		t.Errorf("unexpected dump %+v", dump)
	}
	if s.RegistryLen() != 0 {
		t.Error("registry should be cleared on transfer")
	}
	if s.State() != StateTransferPending {
		t.Errorf("expected TRANSFER_PENDING, got %v", s.State())
	}

	// 5. Следующий этаж
	if !s.Advance(31000) {
		t.Fatal("Advance should run when transfer is pending")
	}
	if s.Floor() != 2 {
		t.Errorf("expected floor 2, got %d", s.Floor())
	}
	if !s.IsActive(domain.PomanderFlight) {
		t.Error("flight should be active on the next floor")
	}
	if s.IsNextFloorWith(domain.PomanderFlight) {
		t.Error("used list should be cleared after advance")
	}

	if len(rec.records) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(rec.records))
	}
	if r := rec.records[0]; r.Floor != 1 || r.Seconds != 30 || !r.Cleared {
		t.Errorf("unexpected history record %+v", r)
	}
}

func TestSession_CarryForward(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentPotD, 1, "", 0)

	s.ApplyItemUse(domain.PomanderAlteration)
	s.ApplyItemUse(domain.PomanderSafety)

	if got := s.TrapStatus(); got != domain.TrapsInactive {
		t.Errorf("safety used: trap status = %v, want INACTIVE", got)
	}

	s.BeginTransfer()
	s.Advance(1000)

	active := s.ActiveEffects()
	if len(active) != 1 || active[0] != domain.PomanderAlteration {
		t.Errorf("next floor active = %v, want [Alteration]", active)
	}
	if got := s.TrapStatus(); got != domain.TrapsActive {
		t.Errorf("safety must not carry forward, trap status = %v", got)
	}

	s.ApplyItemUse(domain.PomanderSight)
	if got := s.TrapStatus(); got != domain.TrapsVisible {
		t.Errorf("sight used: trap status = %v, want VISIBLE", got)
	}

	s.ApplyItemUse(domain.PomanderSafety)
	if got := s.TrapStatus(); got != domain.TrapsInactive {
		t.Errorf("safety wins over sight, got %v", got)
	}
}

func TestSession_EORemap(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentEO, 1, "", 0)

	s.ApplyItemUse(domain.ProtomanderFlight)
	if s.IsActive(domain.PomanderFlight) || s.IsActive(domain.ProtomanderFlight) {
		t.Error("protomander of flight should only be queued")
	}
	if !s.IsNextFloorWith(domain.PomanderFlight) {
		t.Error("protomander should be normalized to the base pomander")
	}
	if !s.IsNextFloorWith(domain.ProtomanderFlight) {
		t.Error("queued check by protomander id should match the base pomander")
	}

	s.ApplyItemUse(domain.ProtomanderSight)
	if got := s.TrapStatus(); got != domain.TrapsVisible {
		t.Errorf("protomander of sight: trap status = %v", got)
	}

	s.BeginTransfer()
	s.Advance(1000)
	if !s.IsActive(domain.PomanderFlight) {
		t.Error("flight should carry forward in EO")
	}
}

func TestSession_Demiclone(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentPT, 1, "", 0)

	s.ApplyAltItemUse(domain.DemicloneUnei)
	if got := s.TrapStatus(); got != domain.TrapsActive {
		t.Errorf("unei should not touch traps, got %v", got)
	}

	s.ApplyAltItemUse(domain.DemicloneMazerootIncense)
	if got := s.TrapStatus(); got != domain.TrapsVisible {
		t.Errorf("mazeroot incense should reveal traps, got %v", got)
	}
	if !s.IsNextFloorWith(domain.PomanderSight) {
		t.Error("mazeroot incense should be recorded as sight")
	}
}

func TestSession_UnknownContent(t *testing.T) {
	s, _, _ := newTestSession(t)

	err := s.Enter(99999, 1, "", 0)
	if !errors.Is(err, ErrUnknownContent) {
		t.Fatalf("expected ErrUnknownContent, got %v", err)
	}
	if s.Inside() {
		t.Error("session must stay outside after unknown content")
	}

	// Операции вне подземелья - no-op
	s.ApplyItemUse(domain.PomanderSafety)
	s.BeginTransfer()
	if s.Advance(10) {
		t.Error("Advance outside must be a no-op")
	}
	if s.TrapStatus() != domain.TrapsActive || s.Floor() != 0 {
		t.Error("state must not change outside")
	}
}

func TestSession_AdvanceWithoutTransfer(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentPotD, 5, "", 0)

	if s.Advance(1000) {
		t.Error("Advance without pending transfer must be a no-op")
	}
	if s.Floor() != 5 {
		t.Errorf("floor changed to %d", s.Floor())
	}
}

func TestSession_ReenterActsAsFloorLoaded(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentPotD, 3, "", 0)
	runID := s.RunID()

	s.BeginTransfer()
	if err := s.Enter(contentPotD, 4, "", 5000); err != nil {
		t.Fatalf("re-enter: %v", err)
	}
	if s.Floor() != 4 {
		t.Errorf("expected floor 4, got %d", s.Floor())
	}
	if s.RunID() != runID {
		t.Error("re-enter must keep the run")
	}
}

func TestSession_RegistryGuardDuringTransfer(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentPotD, 1, "", 0)
	s.BeginTransfer()

	s.ObserveFrame(domain.Frame{At: 100, Objects: []domain.ObjectSample{monster(100, 0)}})
	if s.RegistryLen() != 0 {
		t.Error("objects must not be recorded while transfer is pending")
	}
	if s.IdleTracked() != 1 {
		t.Error("idle tracker should still see monsters during transfer")
	}
}

func TestSession_Leave(t *testing.T) {
	s, exp, rec := newTestSession(t)
	s.Enter(contentPotD, 1, "party", 0)
	s.ObserveFrame(domain.Frame{At: 100, Objects: []domain.ObjectSample{monster(100, 0)}})
	s.MarkInteracted(100)

	s.Leave(10000)

	if len(exp.dumps) != 1 || len(exp.dumps[0].Objects) != 1 {
		t.Fatalf("leave should export the registry once, got %+v", exp.dumps)
	}
	if len(rec.records) != 1 || rec.records[0].Cleared {
		t.Errorf("leave should record an uncleared floor, got %+v", rec.records)
	}
	if s.Inside() || s.Floor() != 0 || s.IdleTracked() != 0 || s.HasInteracted(100) {
		t.Error("leave should clear all state")
	}

	// Повторный выход ничего не делает
	s.Leave(20000)
	if len(exp.dumps) != 1 {
		t.Error("second leave must not export")
	}
}

func TestSession_Interactions(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentPotD, 1, "", 0)

	s.MarkInteracted(42)
	if !s.HasInteracted(42) {
		t.Fatal("interaction not recorded")
	}
	s.BeginTransfer()
	s.Advance(1000)
	if s.HasInteracted(42) || s.InteractedCount() != 0 {
		t.Error("interactions should be cleared on advance")
	}
}

func TestSession_DoubleChest(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentPotD, 1, "", 0)

	gold := domain.ObjectSample{EntityID: 500, DataID: domain.DataIDGoldChest, Pos: domain.Position{X: 4.5}}
	s.ObserveFrame(domain.Frame{At: 100, Objects: []domain.ObjectSample{gold}})

	id, ok := s.GrantBonusItem(domain.ItemKindPomander, uint32(domain.PomanderLust), domain.Position{})
	if !ok || id != 500 {
		t.Fatalf("expected chest 500, got %v %v", id, ok)
	}
	item, ok := s.ContainingItem(500)
	if !ok || item.ItemID != uint32(domain.PomanderLust) {
		t.Errorf("unexpected containing item %+v", item)
	}
	if s.RegistryLen() != 0 {
		t.Error("chests must not be recorded in the registry")
	}

	s.BeginTransfer()
	s.Advance(1000)
	if _, ok := s.ContainingItem(500); ok {
		t.Error("double chests should be cleared on advance")
	}

	// Кадра нового этажа ещё не было: сундук прошлого этажа не подходит
	if id, ok := s.GrantBonusItem(domain.ItemKindPomander, uint32(domain.PomanderLust), domain.Position{}); ok {
		t.Errorf("bonus item on a new floor matched old chest %v", id)
	}
	if len(s.Visible()) != 0 {
		t.Errorf("visible objects must be cleared on advance, got %d", len(s.Visible()))
	}
}

func TestSession_ChestOpenSafe(t *testing.T) {
	s, _, _ := newTestSession(t)
	if !s.ChestOpenSafe(domain.ChestGold) {
		t.Error("outside every chest is safe")
	}

	s.Enter(contentPotD, 1, "", 0)
	if s.ChestOpenSafe(domain.ChestSilver) {
		t.Error("silver chests are mimics on PotD 1-100")
	}
	if !s.ChestOpenSafe(domain.ChestGold) {
		t.Error("gold chests are safe on PotD 1-100")
	}
}

func TestSession_BonusOpened(t *testing.T) {
	s, _, _ := newTestSession(t)
	s.Enter(contentPotD, 1, "", 0)
	s.MarkBonusOpened()
	if !s.BonusOpened() {
		t.Fatal("bonus flag not set")
	}
	s.BeginTransfer()
	s.Advance(1000)
	if s.BonusOpened() {
		t.Error("bonus flag should reset on advance")
	}
}
