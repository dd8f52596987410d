package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName используется в путях конфигурации и логов.
const AppName = "pyedit"

// Config конфигурация приложения
type Config struct {
	// Внешний вид
	Theme string `yaml:"theme"` // "dark" или "light"

	// Запуск скриптов
	Runner RunnerConfig `yaml:"runner"`

	// Редактор
	Editor EditorConfig `yaml:"editor"`

	// Горячие клавиши: id команды → клавиша
	Keybindings map[string]string `yaml:"keybindings"`

	// Логирование
	Logging LoggingConfig `yaml:"logging"`
}

// RunnerConfig настройки запуска интерпретатора
type RunnerConfig struct {
	Interpreter string        `yaml:"interpreter"` // ищется в PATH
	Timeout     time.Duration `yaml:"timeout"`     // 0 = без ограничения
}

// EditorConfig настройки редактора
type EditorConfig struct {
	TabSize    int      `yaml:"tab_size"`
	UseSpaces  bool     `yaml:"use_spaces"`
	MaxHistory int      `yaml:"max_history"` // 0 = без ограничения
	FileTypes  []string `yaml:"file_types"`  // фильтр диалога открытия
}

// LoggingConfig настройки логирования
type LoggingConfig struct {
	Level    string `yaml:"level"`     // debug, info, warn, error
	FilePath string `yaml:"file_path"` // Путь к файлу логов
}

// DefaultConfig возвращает конфигурацию по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Theme: "light",

		Runner: RunnerConfig{
			Interpreter: "python",
			Timeout:     0,
		},

		Editor: EditorConfig{
			TabSize:    4,
			UseSpaces:  true,
			MaxHistory: 0,
			FileTypes:  []string{".py"},
		},

		Keybindings: DefaultKeybindings(),

		Logging: LoggingConfig{
			Level:    "info",
			FilePath: "", // Будет определен автоматически
		},
	}
}

// DefaultKeybindings возвращает привязки клавиш по умолчанию.
func DefaultKeybindings() map[string]string {
	return map[string]string{
		"new":             "ctrl+n",
		"open":            "ctrl+o",
		"save":            "ctrl+s",
		"save_as":         "alt+s",
		"run":             "f5",
		"undo":            "ctrl+z",
		"redo":            "ctrl+y",
		"toggle_theme":    "ctrl+t",
		"command_palette": "ctrl+p",
		"help":            "f1",
		"quit":            "ctrl+q",
	}
}

// Load загружает конфигурацию из стандартного места.
// Отсутствие файла не ошибка: возвращаются значения по умолчанию.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		cfg := DefaultConfig()
		cfg.finish()
		return cfg, err
	}
	return LoadFrom(configPath)
}

// LoadFrom загружает конфигурацию из указанного файла.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg.finish()
		return cfg, nil
	}
	if err != nil {
		cfg.finish()
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		fallback := DefaultConfig()
		fallback.finish()
		return fallback, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.finish()
	return cfg, nil
}

func (c *Config) finish() {
	// Устанавливаем пути по умолчанию если они не заданы
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = defaultLogPath()
	}
	c.applyKeybindingDefaults(DefaultKeybindings())
	c.Validate()
}

func (c *Config) applyKeybindingDefaults(defaults map[string]string) {
	if c.Keybindings == nil {
		c.Keybindings = make(map[string]string, len(defaults))
	}
	for key, value := range defaults {
		current, ok := c.Keybindings[key]
		if !ok || strings.TrimSpace(current) == "" {
			c.Keybindings[key] = value
		}
	}
}

// Key возвращает привязку для команды или "".
func (c *Config) Key(commandID string) string {
	if c == nil || c.Keybindings == nil {
		return ""
	}
	return strings.TrimSpace(c.Keybindings[commandID])
}

// Path возвращает путь к конфигурационному файлу
func Path() (string, error) {
	// Пробуем получить XDG_CONFIG_HOME
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, AppName, "config.yaml"), nil
}

// defaultLogPath возвращает путь к файлу логов по умолчанию
func defaultLogPath() string {
	cacheDir := os.Getenv("XDG_CACHE_HOME")
	if cacheDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), AppName, AppName+".log")
		}
		cacheDir = filepath.Join(homeDir, ".cache")
	}
	return filepath.Join(cacheDir, AppName, AppName+".log")
}

// Validate нормализует некорректные значения
func (c *Config) Validate() {
	if c.Theme != "dark" && c.Theme != "light" {
		c.Theme = "light"
	}

	if strings.TrimSpace(c.Runner.Interpreter) == "" {
		c.Runner.Interpreter = "python"
	}
	if c.Runner.Timeout < 0 {
		c.Runner.Timeout = 0
	}

	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		c.Editor.TabSize = 4
	}
	if c.Editor.MaxHistory < 0 {
		c.Editor.MaxHistory = 0
	}
	types := c.Editor.FileTypes[:0:0]
	for _, t := range c.Editor.FileTypes {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, ".") {
			t = "." + t
		}
		types = append(types, t)
	}
	c.Editor.FileTypes = types

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if !validLevels[c.Logging.Level] {
		c.Logging.Level = "info"
	}
}
