package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/fpwatch/internal/display"
	"github.com/hpungsan/fpwatch/internal/flightplan"
)

const (
	// DirName is the per-user and per-repo configuration directory name.
	DirName = ".fpwatch"

	// DefaultMessagesGlob matches the message files of the current directory.
	DefaultMessagesGlob = "messages/*.xml"

	// DefaultHomeFacility is the center whose own sectors display as "-".
	DefaultHomeFacility = display.DefaultHomeFacility
)

// DefaultIgnoredFields are left out of change logs unless configured.
var DefaultIgnoredFields = slices.Clone(flightplan.KinematicsFields)

// Config holds application configuration.
type Config struct {
	// MessagesGlob selects the message files to process, in lexical order.
	MessagesGlob string `json:"messages_glob,omitempty"`

	// HomeFacility is shown as "-" in datablock handoff codes.
	HomeFacility string `json:"home_facility,omitempty"`

	// FacilityLetters maps facility identifiers to datablock letters.
	// Entries merge over the built-in table; unmapped facilities show as "Z".
	FacilityLetters map[string]string `json:"facility_letters,omitempty"`

	// FacilityFile is a YAML facility table merged over FacilityLetters.
	// Relative paths resolve against the directory of the config file naming it.
	FacilityFile string `json:"facility_file,omitempty"`

	// IgnoredFields are never reported as changes. A config that sets this
	// replaces the inherited list; an empty list reports every field.
	IgnoredFields []string `json:"ignored_fields,omitempty"`

	// Persist stores each flight's latest snapshot and its change history in
	// SQLite, so later runs continue where the previous one stopped.
	Persist bool `json:"persist,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`
}

// FacilityTable is the YAML facility file layout.
type FacilityTable struct {
	Home    string            `yaml:"home"`
	Letters map[string]string `yaml:"letters"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MessagesGlob:    DefaultMessagesGlob,
		HomeFacility:    DefaultHomeFacility,
		FacilityLetters: maps.Clone(display.DefaultFacilityLetters),
		IgnoredFields:   slices.Clone(DefaultIgnoredFields),
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.fpwatch.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return resolve(Merge(DefaultConfig(), cfg))
}

// LoadWithRepo loads configuration from both global (~/.fpwatch) and repo (.fpwatch) directories.
// Repo config is found by walking upward from startDir to find the nearest .fpwatch/config.json.
// Repo config takes precedence for scalar values; maps are merged key by key.
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return resolve(Merge(Merge(DefaultConfig(), global), repo))
}

// FindRepoConfig walks upward from startDir to find the nearest .fpwatch/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadFacilityTable reads a YAML facility table.
func LoadFacilityTable(path string) (*FacilityTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facility file: %w", err)
	}

	var table FacilityTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to unmarshal facility file %s: %w", path, err)
	}
	return &table, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	if cfg.FacilityFile != "" && !filepath.IsAbs(cfg.FacilityFile) {
		cfg.FacilityFile = filepath.Join(filepath.Dir(configPath), cfg.FacilityFile)
	}

	return cfg, nil
}

// resolve folds the facility file, if any, into the letter table.
func resolve(cfg *Config) (*Config, error) {
	if cfg.FacilityFile == "" {
		return cfg, nil
	}
	table, err := LoadFacilityTable(cfg.FacilityFile)
	if err != nil {
		return nil, err
	}
	if table.Home != "" {
		cfg.HomeFacility = strings.TrimSpace(table.Home)
	}
	cfg.FacilityLetters = mergeStringMap(cfg.FacilityLetters, table.Letters)
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; maps are merged with overlay
// entries winning.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.MessagesGlob = overlay.MessagesGlob
	if result.MessagesGlob == "" {
		result.MessagesGlob = base.MessagesGlob
	}

	result.HomeFacility = overlay.HomeFacility
	if result.HomeFacility == "" {
		result.HomeFacility = base.HomeFacility
	}

	result.FacilityFile = overlay.FacilityFile
	if result.FacilityFile == "" {
		result.FacilityFile = base.FacilityFile
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.Persist = base.Persist || overlay.Persist

	// Ignore list: a set list replaces, so an explicit [] reports everything
	if overlay.IgnoredFields != nil {
		result.IgnoredFields = cleanStringSlice(overlay.IgnoredFields)
	} else {
		result.IgnoredFields = cleanStringSlice(base.IgnoredFields)
	}

	result.FacilityLetters = mergeStringMap(base.FacilityLetters, overlay.FacilityLetters)

	return result
}

// cleanStringSlice trims whitespace and removes blanks and duplicates.
// A non-nil input always yields a non-nil result.
func cleanStringSlice(in []string) []string {
	if in == nil {
		return nil
	}
	seen := make(map[string]bool)
	result := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

// mergeStringMap copies a and applies b over it with keys and values upper-cased
// and trimmed.
func mergeStringMap(a, b map[string]string) map[string]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	result := maps.Clone(a)
	if result == nil {
		result = make(map[string]string, len(b))
	}
	for k, v := range b {
		k = strings.ToUpper(strings.TrimSpace(k))
		v = strings.ToUpper(strings.TrimSpace(v))
		if k != "" && v != "" {
			result[k] = v
		}
	}
	return result
}
