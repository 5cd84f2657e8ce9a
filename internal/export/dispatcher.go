// Package export отправляет состав этажа на сервер сбора данных.
// Отправка идёт в отдельной горутине, ошибки только логируются, повторов нет.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"necrolens-server/internal/domain"
	"necrolens-server/pkg/api"
	"necrolens-server/pkg/logger"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled   bool // пользователь согласился отправлять данные
	URL       string
	Sender    string // id установки
	Timeout   time.Duration
	QueueSize int
}

type job struct {
	id  string
	doc api.ExportDocument
}

type Dispatcher struct {
	cfg    Config
	client *http.Client
	schema *jsonschema.Schema

	queue  chan job
	wg     sync.WaitGroup
	once   sync.Once
	closed atomic.Bool

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// NewDispatcher запускает воркер отправки. Без согласия или адреса Submit ничего не делает.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}

	schema, err := CompileSchema()
	if err != nil {
		return nil, err
	}

	d := &Dispatcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		schema: schema,
		queue:  make(chan job, cfg.QueueSize),
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.loop()
	}()
	return d, nil
}

func (d *Dispatcher) Active() bool {
	return d.cfg.Enabled && d.cfg.URL != ""
}

// Submit - снимок этажа принадлежит задаче, вызывающий не ждёт сеть
func (d *Dispatcher) Submit(dump domain.FloorDump) {
	if !d.Active() || d.closed.Load() {
		return
	}

	doc := BuildDocument(d.cfg.Sender, dump)
	if len(doc.Data) == 0 {
		return
	}

	j := job{id: ulid.Make().String(), doc: doc}
	select {
	case d.queue <- j:
	default:
		d.dropped.Add(1)
		logger.Log.WithFields(logrus.Fields{
			"component": "export",
			"job_id":    j.id,
			"floor":     dump.Floor,
		}).Warn("Export queue full, floor dropped")
	}
}

// Close дожидается отправки всего, что уже в очереди
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		d.closed.Store(true)
		close(d.queue)
		d.wg.Wait()
	})
}

func (d *Dispatcher) Sent() int64    { return d.sent.Load() }
func (d *Dispatcher) Failed() int64  { return d.failed.Load() }
func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }

func (d *Dispatcher) loop() {
	for j := range d.queue {
		log := logger.Log.WithFields(logrus.Fields{
			"component": "export",
			"job_id":    j.id,
			"objects":   len(j.doc.Data),
		})
		if err := d.post(j); err != nil {
			d.failed.Add(1)
			log.WithError(err).Warn("Export failed")
			continue
		}
		d.sent.Add(1)
		log.Debug("Floor exported")
	}
}

func (d *Dispatcher) post(j job) error {
	body, err := json.Marshal(j.doc)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := validateBody(d.schema, body); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

// BuildDocument собирает документ экспорта: один элемент на DataId, первый встреченный побеждает.
// ContentId и Floor берутся из сессии на момент выхода с этажа.
func BuildDocument(sender string, dump domain.FloorDump) api.ExportDocument {
	doc := api.ExportDocument{
		Sender: sender,
		Party:  dump.PartyID,
	}

	seen := make(map[domain.DataID]struct{}, len(dump.Objects))
	for _, obj := range dump.Objects {
		if _, ok := seen[obj.DataID]; ok {
			continue
		}
		seen[obj.DataID] = struct{}{}
		doc.Data = append(doc.Data, api.MobData{
			DataID:         uint32(obj.DataID),
			NameID:         uint32(obj.NameID),
			ContentID:      dump.ContentID,
			Floor:          dump.Floor,
			HitboxRadius:   obj.HitboxRadius,
			MoveTimes:      []int64{},
			AggroDistances: []float32{},
		})
	}
	return doc
}
