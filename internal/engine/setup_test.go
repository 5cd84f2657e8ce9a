package engine

import (
	"encoding/json"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/network"
	"necrolens-server/internal/session"
	"necrolens-server/pkg/api"
	"necrolens-server/pkg/logger"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeExporter struct {
	dumps []domain.FloorDump
}

func (f *fakeExporter) Submit(dump domain.FloorDump) {
	f.dumps = append(f.dumps, dump)
}

type fakeJournal struct {
	entries []domain.JournalEntry
	flushes int
}

func (f *fakeJournal) Append(entry domain.JournalEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournal) Flush() error {
	f.flushes++
	return nil
}

const contentPotD = 60001

func newTestService(t *testing.T, journal Journal) (*TrackerService, *fakeExporter) {
	t.Helper()
	catalog, err := domain.DefaultCatalog()
	if err != nil {
		t.Fatalf("DefaultCatalog: %v", err)
	}
	exp := &fakeExporter{}
	sess := session.New(catalog, exp, nil)
	return NewService(sess, network.NewBroadcaster(), journal), exp
}

// cmd собирает событие так же, как его присылает хост
func cmd(t *testing.T, event domain.EventType, at int64, payload any) domain.InternalCommand {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		raw = b
	}
	return domain.InternalCommand{Event: event, At: at, Payload: raw}
}

func frame(x float32, motion string) api.FramePayload {
	return api.FramePayload{
		PlayerPos: api.PosView{X: 100},
		Objects: []api.FrameObjectIn{
			{EntityID: "1073741830", DataID: 7262, NameID: 5000, Name: "palace deathgaze", HitboxRadius: 1.2, Pos: api.PosView{X: x}, Motion: motion},
			{EntityID: "1073741831", DataID: uint32(domain.DataIDGoldChest), Pos: api.PosView{X: 101}},
			{EntityID: "1073741832", DataID: 0, Pos: api.PosView{X: 100}},
		},
	}
}

func mustExecute(t *testing.T, s *TrackerService, c domain.InternalCommand) {
	t.Helper()
	if _, err := s.Execute(c); err != nil {
		t.Fatalf("%s: %v", c.Event, err)
	}
}
