package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"necrolens-server/internal/domain"
	"necrolens-server/internal/engine"
	"necrolens-server/internal/export"
	"necrolens-server/internal/infrastructure/history"
	"necrolens-server/internal/infrastructure/storage"
	"necrolens-server/internal/network"
	"necrolens-server/internal/server"
	"necrolens-server/internal/session"
	"necrolens-server/internal/version"
	"necrolens-server/pkg/logger"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/oklog/ulid/v2"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг флагов
	var configPath string
	var replayPath string
	flag.StringVar(&configPath, "config", "", "Path to tracker YAML config")
	flag.StringVar(&replayPath, "replay", "", "Path to .nlj journal to re-drive through a fresh session")
	flag.Parse()

	logger.Log.Info("Starting NecroLens tracker...")
	logger.Log.Info(version.String())

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		logger.Log.Fatal("Config error: ", err)
	}
	if cfg.NewInstallation && configPath != "" {
		if err := cfg.Save(configPath); err != nil {
			logger.Log.WithError(err).Warn("Cannot persist installation id")
		}
	}

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Log.Fatal("Content catalog error: ", err)
	}
	logger.Log.WithField("floor_sets", catalog.Len()).Info("Content catalog loaded")

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		logger.Log.Info("Mode: Replay")
		if err := runReplay(catalog, replayPath); err != nil {
			logger.Log.Fatal("Replay failed: ", err)
		}
		return
	}

	// 2. Инфраструктура
	var recorder session.FloorRecorder
	var historyReader server.HistoryReader
	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Log.WithError(err).Warn("History disabled")
		} else {
			recorder = store
			historyReader = store
		}
	}

	dispatcher, err := export.NewDispatcher(export.Config{
		Enabled:   cfg.Export.OptIn,
		URL:       cfg.Export.URL,
		Sender:    cfg.InstallationID,
		Timeout:   cfg.Export.Timeout,
		QueueSize: cfg.Export.QueueSize,
	})
	if err != nil {
		logger.Log.Fatal("Export init error: ", err)
	}
	if !dispatcher.Active() {
		logger.Log.Info("Floor export disabled (no opt-in)")
	}

	var journal engine.Journal
	var journalWriter *storage.JournalWriter
	if cfg.JournalDir != "" {
		journalWriter, err = storage.NewJournalService(cfg.JournalDir).Create(ulid.Make().String(), time.Now().UnixMilli())
		if err != nil {
			logger.Log.WithError(err).Warn("Journal disabled")
		} else {
			journal = journalWriter
			logger.Log.WithField("path", journalWriter.Path()).Info("Journal opened")
		}
	}

	// 3. Ядро
	sess := session.New(catalog, dispatcher, recorder)
	tracker := engine.NewService(sess, network.NewBroadcaster(), journal)

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loopDone := make(chan struct{})
	go func() {
		tracker.Run(ctx)
		close(loopDone)
	}()

	// 4. Запуск сервера
	srv := server.New(tracker, historyReader, strconv.Itoa(cfg.Port))
	if err := srv.Run(ctx); err != nil {
		logger.Log.Error("Server error: ", err)
		stop()
	}

	<-loopDone
	logger.Log.Info("Shutting down...")

	// Цикл остановлен, дальше никто не пишет в экспорт, историю и журнал
	dispatcher.Close()
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Log.WithError(err).Warn("History close failed")
		}
	}
	if journalWriter != nil {
		if err := journalWriter.Close(); err != nil {
			logger.Log.WithError(err).Warn("Journal close failed")
		}
	}

	logger.Log.Info("Done.")
}

func loadCatalog(path string) (*domain.Catalog, error) {
	if path == "" {
		return domain.DefaultCatalog()
	}
	return domain.LoadCatalog(path)
}

// runReplay прогоняет журнал через новую сессию без экспорта и истории и печатает итог
func runReplay(catalog *domain.Catalog, path string) error {
	journal, err := storage.Load(path)
	if err != nil {
		return err
	}

	tracker := engine.NewService(session.New(catalog, nil, nil), nil, nil)
	rejected := tracker.Replay(journal)

	out, err := json.MarshalIndent(tracker.View().Snapshot, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if rejected > 0 {
		logger.Log.Warnf("%d of %d events were rejected", rejected, len(journal.Entries))
	}
	return nil
}
