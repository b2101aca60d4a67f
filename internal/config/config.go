// Package config loads the TOML configuration file, writing the
// defaults on first launch.
package config

import (
	"errors"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "ticktask.db"
)

type Keymap struct {
	Quit          string `toml:"quit"`
	Add           string `toml:"add"`
	Up            string `toml:"up"`
	Down          string `toml:"down"`
	NextQuadrant  string `toml:"next_quadrant"`
	PrevQuadrant  string `toml:"prev_quadrant"`
	Toggle        string `toml:"toggle"`
	Delete        string `toml:"delete"`
	Detail        string `toml:"detail"`
	Confirm       string `toml:"confirm"`
	Cancel        string `toml:"cancel"`
	Edit          string `toml:"edit"`
	SwitchView    string `toml:"switch_view"`
	Search        string `toml:"search"`
	CycleDue      string `toml:"cycle_due"`
	CycleList     string `toml:"cycle_list"`
	MoveDo        string `toml:"move_do"`
	MoveSchedule  string `toml:"move_schedule"`
	MoveDelegate  string `toml:"move_delegate"`
	MoveEliminate string `toml:"move_eliminate"`
	ClearManual   string `toml:"clear_manual"`
}

type Config struct {
	DBPath       string `toml:"db_path"`
	DefaultView  string `toml:"default_view"`
	WeekStartsOn int    `toml:"week_start_on"`
	ReminderLead string `toml:"reminder_lead"`
	Keys         Keymap `toml:"keys"`
}

// ResolveConfigPath returns the config file location under the user's
// config directory, falling back to the working directory when the
// platform dir can't be resolved.
func ResolveConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "ticktask", DefaultConfigFileName)
}

func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return cfg, err
		}
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.DefaultView != "list" {
		cfg.DefaultView = "matrix"
	}
	if cfg.WeekStartsOn < 0 || cfg.WeekStartsOn > 6 {
		cfg.WeekStartsOn = 1
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:       filepath.Join(dir, DefaultDBName),
		DefaultView:  "matrix",
		WeekStartsOn: 1,
		ReminderLead: "5m",
		Keys: Keymap{
			Quit:          "q",
			Add:           "a",
			Up:            "k",
			Down:          "j",
			NextQuadrant:  "tab",
			PrevQuadrant:  "shift+tab",
			Toggle:        " ",
			Delete:        "d",
			Detail:        "enter",
			Confirm:       "enter",
			Cancel:        "esc",
			Edit:          "e",
			SwitchView:    "v",
			Search:        "/",
			CycleDue:      "f",
			CycleList:     "l",
			MoveDo:        "1",
			MoveSchedule:  "2",
			MoveDelegate:  "3",
			MoveEliminate: "4",
			ClearManual:   "0",
		},
	}
}
