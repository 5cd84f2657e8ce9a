// Package history хранит длительность пройденных этажей в SQLite.
// Запись идёт асинхронно из одной горутины, цикл движка никогда не ждёт диск.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"necrolens-server/internal/domain"
	"necrolens-server/pkg/logger"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB

	ch   chan domain.FloorRecord
	wg   sync.WaitGroup
	once sync.Once

	closed  atomic.Bool
	dropped atomic.Int64
}

// Open открывает (или создаёт) базу истории
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{
		db: db,
		ch: make(chan domain.FloorRecord, 1024),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS floor_times (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			content_id INTEGER NOT NULL,
			variant TEXT NOT NULL,
			floor INTEGER NOT NULL,
			seconds INTEGER NOT NULL,
			cleared INTEGER NOT NULL,
			finished_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS floor_times_run ON floor_times(run_id);`,
		`CREATE INDEX IF NOT EXISTS floor_times_floor ON floor_times(content_id, floor);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

// RecordFloor ставит строку в очередь записи. Если писатель отстаёт, строка теряется.
func (s *Store) RecordFloor(rec domain.FloorRecord) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- rec:
	default:
		s.dropped.Add(1)
	}
}

// Dropped - сколько строк потеряно из-за переполнения очереди
func (s *Store) Dropped() int64 {
	return s.dropped.Load()
}

func (s *Store) loop() {
	log := logger.Component("history")

	insert, err := s.db.Prepare(`INSERT INTO floor_times(run_id,content_id,variant,floor,seconds,cleared,finished_at) VALUES(?,?,?,?,?,?,?)`)
	if err != nil {
		log.WithError(err).Error("Prepare insert failed, history disabled")
		for range s.ch {
		}
		return
	}
	defer insert.Close()

	for rec := range s.ch {
		if _, err := insert.Exec(rec.RunID, rec.ContentID, rec.Variant.String(), rec.Floor, rec.Seconds, rec.Cleared, rec.FinishedAt); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"run_id": rec.RunID,
				"floor":  rec.Floor,
			}).Warn("Failed to write floor time")
		}
	}
}

// Latest возвращает последние limit строк, новые первыми
func (s *Store) Latest(ctx context.Context, limit int) ([]domain.FloorRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT run_id,content_id,variant,floor,seconds,cleared,finished_at FROM floor_times ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query floor_times: %w", err)
	}
	defer rows.Close()

	var out []domain.FloorRecord
	for rows.Next() {
		var (
			r       domain.FloorRecord
			variant string
		)
		if err := rows.Scan(&r.RunID, &r.ContentID, &variant, &r.Floor, &r.Seconds, &r.Cleared, &r.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan floor_times: %w", err)
		}
		r.Variant = domain.ParseVariant(variant)
		out = append(out, r)
	}
	return out, rows.Err()
}

// BestTime - лучшее время этажа среди пройденных (0, если ещё не проходили)
func (s *Store) BestTime(ctx context.Context, contentID, floor int) (int, error) {
	var best sql.NullInt64
	row := s.db.QueryRowContext(ctx, `SELECT MIN(seconds) FROM floor_times WHERE content_id=? AND floor=? AND cleared=1`, contentID, floor)
	if err := row.Scan(&best); err != nil {
		return 0, fmt.Errorf("best time: %w", err)
	}
	return int(best.Int64), nil
}
