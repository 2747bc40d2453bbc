package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the only persisted config file schema.
type Config struct {
	// LogFile 日志文件路径，空值使用默认。
	LogFile string `toml:"log_file"`
	// Mouse 是否开启指针捕获。关闭后指针事件不会到达，选区功能不可用。
	Mouse bool `toml:"mouse"`
	// WheelStep 单次滚轮滚动的行数。
	WheelStep int `toml:"wheel_step"`
	// ComposerMaxHeight 输入区最大行数。
	ComposerMaxHeight int `toml:"composer_max_height"`
	// HistoryLimit 载入的提示历史条数上限。
	HistoryLimit int    `toml:"history_limit"`
	Source       string `toml:"-"`
}

func Default() Config {
	return Config{
		Mouse:             true,
		WheelStep:         3,
		ComposerMaxHeight: 6,
		HistoryLimit:      200,
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chatpane", "config.toml")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return cfg, err
	}
	if cfg.WheelStep <= 0 {
		cfg.WheelStep = Default().WheelStep
	}
	if cfg.ComposerMaxHeight <= 0 {
		cfg.ComposerMaxHeight = Default().ComposerMaxHeight
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if env := strings.TrimSpace(os.Getenv("CHATPANE_LOG_FILE")); env != "" {
		cfg.LogFile = env
	}
	return cfg
}

// Save 将配置写回其来源路径（或默认路径）。
func Save(cfg Config) error {
	path := cfg.Source
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New("config path is empty and $HOME is not set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
