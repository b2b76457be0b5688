package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/marcus/modalkit/pkg/modal"
)

const (
	configDir      = ".modalkit"
	jsonConfigFile = ".modalkit/config.json"
	yamlConfigFile = ".modalkit/config.yaml"

	// DefaultPanelGlob finds panel definition files relative to the base dir
	DefaultPanelGlob = ".modalkit/panels/**/*.{yaml,yml,json}"
)

// Panel kinds
const (
	KindMarkdown = "markdown"
	KindConfirm  = "confirm"
)

// Config is the project configuration
type Config struct {
	Namespace string        `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	LogLevel  string        `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	Journal   string        `json:"journal,omitempty" yaml:"journal,omitempty"`
	PanelGlob string        `json:"panel_glob,omitempty" yaml:"panel_glob,omitempty"`
	Page      PageConfig    `json:"page" yaml:"page"`
	Panels    []PanelConfig `json:"panels,omitempty" yaml:"panels,omitempty"`
}

// PageConfig is the content panels are layered over
type PageConfig struct {
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Body  string `json:"body,omitempty" yaml:"body,omitempty"`
}

// PanelConfig declares one panel. It is the element bound to the
// coordinator, so its Options are the panel's declarative metadata.
type PanelConfig struct {
	ID       string          `json:"id" yaml:"id"`
	Title    string          `json:"title,omitempty" yaml:"title,omitempty"`
	Body     string          `json:"body,omitempty" yaml:"body,omitempty"`
	Kind     string          `json:"kind,omitempty" yaml:"kind,omitempty"`
	Triggers []string        `json:"triggers,omitempty" yaml:"triggers,omitempty"`
	Options  modal.Overrides `json:"options,omitempty" yaml:"options,omitempty"`

	// Source is the file the panel was read from, empty for inline panels
	Source string `json:"-" yaml:"-"`
}

// ModalID implements modal.Identified
func (p PanelConfig) ModalID() string { return p.ID }

// ModalOptions implements modal.MetadataSource
func (p PanelConfig) ModalOptions() modal.Overrides { return p.Options }

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Namespace: modal.DefaultNamespace,
		LogLevel:  "info",
		PanelGlob: DefaultPanelGlob,
		Page: PageConfig{
			Title: "modalkit",
		},
	}
}

// applyDefaults fills unset fields
func (c *Config) applyDefaults() {
	d := Default()
	if c.Namespace == "" {
		c.Namespace = d.Namespace
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.PanelGlob == "" {
		c.PanelGlob = d.PanelGlob
	}
	if c.Page.Title == "" {
		c.Page.Title = d.Page.Title
	}
	for i := range c.Panels {
		if c.Panels[i].Kind == "" {
			c.Panels[i].Kind = KindMarkdown
		}
	}
}

// Load reads the config from baseDir, preferring YAML over JSON, then adds
// panels discovered through the panel glob. A missing file yields defaults.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadBase(baseDir)
	if err != nil {
		return nil, err
	}

	files, err := DiscoverPanels(baseDir, cfg.PanelGlob)
	if err != nil {
		return nil, err
	}
	for _, rel := range files {
		pc, err := LoadPanelFile(filepath.Join(baseDir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, err
		}
		cfg.Panels = append(cfg.Panels, pc)
	}

	cfg.applyDefaults()
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config in %q: %s", baseDir, strings.Join(errs, "; "))
	}
	return cfg, nil
}

func loadBase(baseDir string) (*Config, error) {
	yamlPath := filepath.Join(baseDir, yamlConfigFile)
	if data, err := os.ReadFile(yamlPath); err == nil {
		return ParseYAML(data, yamlPath)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file %q: %w", yamlPath, err)
	}

	jsonPath := filepath.Join(baseDir, jsonConfigFile)
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config file %q: %w", jsonPath, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse JSON in %q: %w", jsonPath, err)
	}
	return &cfg, nil
}

// LoadFile reads a config from an explicit path. The format follows the
// extension. Only inline panels are used; no panel files are discovered.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %q: %w", path, err)
	}

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = ParseYAML(data, path)
		if err != nil {
			return nil, err
		}
	default:
		cfg = &Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse JSON in %q: %w", path, err)
		}
	}

	cfg.applyDefaults()
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config in %q: %s", path, strings.Join(errs, "; "))
	}
	return cfg, nil
}

// ParseYAML decodes a YAML config, rejecting unknown fields
func ParseYAML(data []byte, source string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse YAML in %q: %w", source, err)
	}
	return &cfg, nil
}

// Save writes the config to disk as JSON
func Save(baseDir string, cfg *Config) error {
	configPath := filepath.Join(baseDir, jsonConfigFile)

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate returns every problem found
func (c *Config) Validate() []string {
	var errs []string

	if strings.TrimSpace(c.Namespace) == "" {
		errs = append(errs, "namespace is required")
	} else if strings.ContainsAny(c.Namespace, " \t") {
		errs = append(errs, fmt.Sprintf("namespace %q must not contain whitespace", c.Namespace))
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log_level %q", c.LogLevel))
	}

	seen := map[string]string{}
	for i, p := range c.Panels {
		where := fmt.Sprintf("panels[%d]", i)
		if p.Source != "" {
			where = p.Source
		}
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, where+".id is required")
			continue
		}
		if prev, ok := seen[p.ID]; ok {
			errs = append(errs, fmt.Sprintf("%s duplicate panel id %q (first in %s)", where, p.ID, prev))
		}
		seen[p.ID] = where
		switch p.Kind {
		case "", KindMarkdown, KindConfirm:
		default:
			errs = append(errs, fmt.Sprintf("%s.kind %q must be %s or %s", where, p.Kind, KindMarkdown, KindConfirm))
		}
		for _, trig := range p.Triggers {
			if strings.TrimSpace(trig) == "" {
				errs = append(errs, where+".triggers must not contain empty keys")
			}
		}
	}
	return errs
}

// Panel returns the panel declared under id
func (c *Config) Panel(id string) (PanelConfig, bool) {
	for _, p := range c.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return PanelConfig{}, false
}

// DiscoverPanels returns panel files under baseDir matching pattern, as
// sorted slash-separated relative paths
func DiscoverPanels(baseDir, pattern string) ([]string, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, nil
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid panel glob %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(baseDir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		m = filepath.ToSlash(filepath.Clean(m))
		if m == "." || strings.HasPrefix(m, "../") {
			continue
		}
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// LoadPanelFile reads one panel definition. YAML files reject unknown
// fields; a panel without an id takes the file's base name.
func LoadPanelFile(path string) (PanelConfig, error) {
	var pc PanelConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return pc, fmt.Errorf("read panel file %q: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &pc); err != nil {
			return pc, fmt.Errorf("parse JSON in %q: %w", path, err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&pc); err != nil && !errors.Is(err, io.EOF) {
			return pc, fmt.Errorf("parse YAML in %q: %w", path, err)
		}
	}

	if pc.ID == "" {
		base := filepath.Base(path)
		pc.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	pc.Source = path
	return pc, nil
}

// Dir returns the project config directory under baseDir
func Dir(baseDir string) string {
	return filepath.Join(baseDir, configDir)
}

// JournalPath resolves the journal database path. Relative paths are
// relative to the config directory; an empty path disables the journal.
func (c *Config) JournalPath(baseDir string) string {
	if c.Journal == "" {
		return ""
	}
	if filepath.IsAbs(c.Journal) {
		return c.Journal
	}
	return filepath.Join(Dir(baseDir), c.Journal)
}
