package systems

import (
	"necrolens-server/internal/domain"
	"testing"
)

var (
	posA = domain.Position{X: 10, Y: 0, Z: 10}
	posB = domain.Position{X: 14, Y: 0, Z: 10}
)

func TestIdleTracker_FirstObservationIsUnknown(t *testing.T) {
	tr := NewIdleTracker()
	if got := tr.Observe(1, posA, domain.MotionStationary, 0); got != domain.IdleUnknown {
		t.Errorf("first observation should be unknown, got %d", got)
	}
	if got := tr.Elapsed(2); got != domain.IdleUnknown {
		t.Errorf("untracked entity should be unknown, got %d", got)
	}
}

func TestIdleTracker_StationaryAccumulates(t *testing.T) {
	tr := NewIdleTracker()
	tr.Observe(1, posA, domain.MotionMoving, -1000)

	// Остановился после короткого разрыва: idle = весь разрыв
	if got := tr.Observe(1, posB, domain.MotionStationary, 0); got != 1000 {
		t.Fatalf("expected idle 1000 after stop, got %d", got)
	}

	for _, now := range []int64{1000, 2000} {
		tr.Observe(1, posB, domain.MotionStationary, now)
	}
	if got := tr.Elapsed(1); got != 3000 {
		t.Errorf("expected accumulated idle 3000, got %d", got)
	}
}

func TestIdleTracker_UnknownNeverSelfHeals(t *testing.T) {
	tr := NewIdleTracker()
	for now := int64(0); now <= 60000; now += 1000 {
		if got := tr.Observe(1, posA, domain.MotionStationary, now); got != domain.IdleUnknown {
			t.Fatalf("t=%d: idle should stay unknown, got %d", now, got)
		}
	}
}

func TestIdleTracker_RevalidationThreshold(t *testing.T) {
	tests := []struct {
		name   string
		gap    int64
		motion domain.MotionIndicator
		want   int64
	}{
		{"stationary just under threshold", 4999, domain.MotionStationary, 4999},
		{"moving just under threshold", 4999, domain.MotionMoving, 0},
		{"stationary over threshold", 5001, domain.MotionStationary, domain.IdleUnknown},
		{"moving over threshold", 5001, domain.MotionMoving, domain.IdleUnknown},
		{"exactly at threshold", 5000, domain.MotionStationary, domain.IdleUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewIdleTracker()
			tr.Observe(1, posA, domain.MotionMoving, 0)
			if got := tr.Observe(1, posB, tt.motion, tt.gap); got != tt.want {
				t.Errorf("gap %d: idle = %d, want %d", tt.gap, got, tt.want)
			}
		})
	}
}

func TestIdleTracker_JustAppearedDefers(t *testing.T) {
	tr := NewIdleTracker()
	tr.Observe(1, posA, domain.MotionMoving, 0)
	tr.Observe(1, posA, domain.MotionStationary, 100) // unknown -> unknown
	tr.Observe(1, posB, domain.MotionStationary, 200) // idle = 100
	if got := tr.Elapsed(1); got != 100 {
		t.Fatalf("setup: expected idle 100, got %d", got)
	}

	moved := domain.Position{X: 20, Y: 0, Z: 10}
	if got := tr.Observe(1, moved, domain.MotionJustAppeared, 300); got != 100 {
		t.Errorf("just appeared should return previous value, got %d", got)
	}

	// Позиция не обновилась, поэтому следующий кадр снова видит сдвиг
	// и классифицирует его по анимации. Разрыв считается от 300.
	if got := tr.Observe(1, moved, domain.MotionStationary, 400); got != 100 {
		t.Errorf("expected idle 100 after deferred sample, got %d", got)
	}
}

func TestIdleTracker_Prune(t *testing.T) {
	tr := NewIdleTracker()
	tr.Observe(1, posA, domain.MotionMoving, 0)
	tr.Observe(2, posA, domain.MotionMoving, 200000)

	if removed := tr.Prune(300001); removed != 1 {
		t.Fatalf("expected 1 stale tracker removed, got %d", removed)
	}
	if tr.Len() != 1 || tr.Elapsed(1) != domain.IdleUnknown {
		t.Error("entity 1 should be pruned")
	}

	if removed := tr.Prune(600000); removed != 1 {
		t.Fatalf("expected second prune after interval to remove entity 2, got %d", removed)
	}
	// Троттлинг: через 500 мс чистка не запускается
	tr.Observe(3, posA, domain.MotionMoving, 0)
	if removed := tr.Prune(600500); removed != 0 {
		t.Errorf("prune within interval should be skipped, removed %d", removed)
	}
	if removed := tr.Prune(601000); removed != 1 {
		t.Errorf("prune after interval should run, removed %d", removed)
	}
}

func TestIdleTracker_OutOfOrderFrame(t *testing.T) {
	tr := NewIdleTracker()
	tr.Observe(1, posA, domain.MotionStationary, 1000)
	tr.Observe(1, posB, domain.MotionStationary, 2000) // idle = 1000
	if got := tr.Observe(1, posB, domain.MotionStationary, 3000); got != 2000 {
		t.Fatalf("idle = %d, want 2000", got)
	}

	// Опоздавший кадр не уменьшает оценку
	if got := tr.Observe(1, posB, domain.MotionStationary, 2500); got != 2000 {
		t.Errorf("late frame changed idle to %d, want 2000", got)
	}
	if got := tr.Observe(1, posA, domain.MotionStationary, 2900); got != 2000 {
		t.Errorf("late moved frame changed idle to %d, want 2000", got)
	}
	if got := tr.Observe(1, posB, domain.MotionStationary, 3500); got != 2500 {
		t.Errorf("idle after late frames = %d, want 2500", got)
	}
}
