package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/lta/internal/log"
	"github.com/dkoosis/lta/pkg/analyzer"
	"github.com/dkoosis/lta/pkg/report"
)

// EmailConfig configures status mail delivery.
type EmailConfig struct {
	From         string   `yaml:"from"`
	To           []string `yaml:"to"`
	SMTPAddr     string   `yaml:"smtp_addr"`
	OnlyOnChange bool     `yaml:"only_on_change"`
	AppendedText string   `yaml:"appended_text"`
}

// Enabled reports whether mail should be sent at all.
func (e EmailConfig) Enabled() bool {
	return len(e.To) > 0
}

// AppConfig represents the application's overall configuration from .lta.yaml.
type AppConfig struct {
	ResultDir    string            `yaml:"result_dir"`
	Annotations  string            `yaml:"annotations"`
	HistoryDB    string            `yaml:"history_db"`
	TestGroup    string            `yaml:"test_group"`
	DashboardURL string            `yaml:"dashboard_url"`
	Theme        string            `yaml:"theme"`
	NoColor      bool              `yaml:"no_color"`
	Debug        bool              `yaml:"debug"`
	LogFormat    string            `yaml:"log_format"`
	Email        EmailConfig       `yaml:"email"`
	ColorPolicy  map[string]string `yaml:"color_policy"` // bucket -> "regression" | "improvement"
}

// Constants for default values.
const (
	DefaultResultDir   = "result"
	DefaultAnnotations = "anno.yaml"
	DefaultTestGroup   = "media"
	DefaultTheme       = "default"
	DefaultLogFormat   = "text"
	DefaultFileName    = ".lta.yaml"

	policyRegression  = "regression"
	policyImprovement = "improvement"
)

// Defaults returns the hardcoded configuration.
func Defaults() *AppConfig {
	return &AppConfig{
		ResultDir:    DefaultResultDir,
		Annotations:  DefaultAnnotations,
		TestGroup:    DefaultTestGroup,
		DashboardURL: report.DefaultDashboardURL,
		Theme:        DefaultTheme,
		LogFormat:    DefaultLogFormat,
	}
}

// LoadConfig loads .lta.yaml from the usual locations, falling back to
// defaults when none is found. Read and parse problems are logged and the
// defaults used.
func LoadConfig(logger *log.Logger) *AppConfig {
	appCfg := Defaults()
	configPath := getConfigPath()
	if configPath == "" {
		logger.Debug("no config file found, using defaults")
		return appCfg
	}
	fileCfg, err := LoadFile(configPath)
	if err != nil {
		logger.WithError(err).Warn("ignoring config file", "path", configPath)
		return appCfg
	}
	logger.Debug("loaded config", "path", configPath)
	return fileCfg
}

// LoadFile reads the config at path and merges it over the defaults.
func LoadFile(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	appCfg := Defaults()
	merge(appCfg, &fileCfg)
	if _, err := appCfg.Policy(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return appCfg, nil
}

// merge copies non-zero settings from src onto dst.
func merge(dst, src *AppConfig) {
	if src.ResultDir != "" {
		dst.ResultDir = src.ResultDir
	}
	if src.Annotations != "" {
		dst.Annotations = src.Annotations
	}
	if src.HistoryDB != "" {
		dst.HistoryDB = src.HistoryDB
	}
	if src.TestGroup != "" {
		dst.TestGroup = src.TestGroup
	}
	if src.DashboardURL != "" {
		dst.DashboardURL = src.DashboardURL
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	dst.NoColor = src.NoColor
	dst.Debug = src.Debug
	dst.Email = src.Email
	if src.ColorPolicy != nil {
		dst.ColorPolicy = src.ColorPolicy
	}
}

// Policy builds the report color policy, starting from the default and
// applying the configured overrides.
func (c *AppConfig) Policy() (report.ColorPolicy, error) {
	p := report.DefaultColorPolicy()
	for bucket, rule := range c.ColorPolicy {
		b := analyzer.Bucket(strings.ToLower(bucket))
		if b != analyzer.Whole && b != analyzer.Skip && b != analyzer.NonSkip {
			return p, fmt.Errorf("color_policy: unknown bucket %q", bucket)
		}
		switch strings.ToLower(rule) {
		case policyRegression:
			p = p.With(b, true)
		case policyImprovement:
			p = p.With(b, false)
		default:
			return p, fmt.Errorf("color_policy: bucket %s: unknown rule %q (expected %s or %s)", bucket, rule, policyRegression, policyImprovement)
		}
	}
	return p, nil
}

// getConfigPath tries to find the .lta.yaml configuration file.
// It checks local directory first, then XDG UserConfigDir (if valid).
func getConfigPath() string {
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}

	configHome, err := os.UserConfigDir()
	// If UserConfigDir fails OR returns an empty path or "/", it's not suitable for XDG path construction here.
	if err == nil && configHome != "" && configHome != "/" {
		xdgPath := filepath.Join(configHome, "lta", DefaultFileName)
		if _, errStat := os.Stat(xdgPath); errStat == nil {
			return xdgPath
		}
	}
	return ""
}
