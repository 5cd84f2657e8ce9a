package engine

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config хранит параметры запуска трекера
type Config struct {
	Port int `yaml:"port"`

	// Export - отправка состава этажей на сервер сбора данных.
	// Без явного согласия пользователя ничего не уходит.
	Export ExportConfig `yaml:"export"`

	// InstallationID подставляется в Sender. Генерируется при первом запуске.
	InstallationID string `yaml:"installation_id"`
	// NewInstallation - id только что сгенерирован, конфиг стоит сохранить
	NewInstallation bool `yaml:"-"`

	JournalDir  string `yaml:"journal_dir"`  // пусто - журнал не пишется
	HistoryPath string `yaml:"history_path"` // пусто - история не ведется
	CatalogPath string `yaml:"catalog_path"` // пусто - встроенный каталог
}

type ExportConfig struct {
	OptIn     bool          `yaml:"opt_in"`
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	QueueSize int           `yaml:"queue_size"`
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		Port: 8080,
		Export: ExportConfig{
			OptIn:     false,
			URL:       "https://necrolens.jusrv.de/api/import2",
			Timeout:   10 * time.Second,
			QueueSize: 16,
		},
		JournalDir:  "journals",
		HistoryPath: "data/history.db",
	}
}

// LoadConfig читает YAML поверх значений по умолчанию, затем переменные окружения.
// Пустой path - только окружение.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}

	if cfg.InstallationID == "" {
		cfg.InstallationID = uuid.NewString()
		cfg.NewInstallation = true
	} else if _, err := uuid.Parse(cfg.InstallationID); err != nil {
		return cfg, fmt.Errorf("installation_id: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("TRACKER_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("TRACKER_PORT: invalid port %q", v)
		}
		c.Port = port
	}
	if v, ok := os.LookupEnv("TRACKER_EXPORT_URL"); ok {
		c.Export.URL = v
	}
	if v, ok := os.LookupEnv("TRACKER_OPT_IN"); ok {
		optIn, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRACKER_OPT_IN: %w", err)
		}
		c.Export.OptIn = optIn
	}
	return nil
}

// Save пишет конфиг обратно (чтобы id установки не менялся между запусками)
func (c Config) Save(path string) error {
	raw, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
