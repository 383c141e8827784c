package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath    = "bddctl.yaml"
	DefaultDotEnv  = "env/.env"
	EnvConfigPath  = "BDDCTL_CONFIG"
	DefaultArchive = 10
)

// Environment variables consumed at startup.
const (
	EnvRetry               = "RETRY"
	EnvParallel            = "PARALLEL"
	EnvLogLevel            = "LOG_LEVEL"
	EnvTreatBrokenAsFailed = "ALLURE_TREAT_BROKEN_AS_FAILED"
	EnvArchive             = "ALLURE_ARCHIVE"
	EnvArchiveLimit        = "ALLURE_ARCHIVE_LIMIT"
	EnvBrowser             = "BROWSER"
	EnvHeadless            = "HEADLESS"
	EnvBrowserWidth        = "BROWSER_WIDTH"
	EnvBrowserHeight       = "BROWSER_HEIGHT"
	EnvCucumberTimeout     = "CucumberTimeout"
	EnvNavigationTimeout   = "NavigationTimeOut"
	EnvCommandTimeout      = "CommandTimeout"
)

type LookupFunc func(key string) (string, bool)

type Config struct {
	Run      RunConfig         `yaml:"run" toml:"run"`
	Allure   AllureConfig      `yaml:"allure" toml:"allure"`
	Runner   RunnerConfig      `yaml:"runner" toml:"runner"`
	Archive  ArchiveConfig     `yaml:"archive" toml:"archive"`
	Browser  BrowserConfig     `yaml:"browser" toml:"browser"`
	Profiles map[string]string `yaml:"profiles" toml:"profiles" validate:"dive,keys,required,endkeys,required"`
}

type RunConfig struct {
	Retry               int    `yaml:"retry" toml:"retry" validate:"gte=0"`
	Parallel            int    `yaml:"parallel" toml:"parallel" validate:"gte=1"`
	LogLevel            string `yaml:"logLevel" toml:"logLevel"`
	TreatBrokenAsFailed bool   `yaml:"treatBrokenAsFailed" toml:"treatBrokenAsFailed"`
}

// AllureConfig mirrors the allure block of the harness config. An empty
// ResultsDir disables result capture and everything downstream of it.
type AllureConfig struct {
	ResultsDir  string `yaml:"resultsDir" toml:"resultsDir"`
	ReportDir   string `yaml:"reportDir" toml:"reportDir"`
	Clean       bool   `yaml:"clean" toml:"clean"`
	Generate    bool   `yaml:"generate" toml:"generate"`
	Environment bool   `yaml:"environment" toml:"environment"`
}

type RunnerConfig struct {
	Binary        string   `yaml:"binary" toml:"binary" validate:"required"`
	Features      string   `yaml:"features" toml:"features" validate:"required"`
	RequireModule string   `yaml:"requireModule" toml:"requireModule"`
	Require       []string `yaml:"require" toml:"require"`
	JSONReport    string   `yaml:"jsonReport" toml:"jsonReport"`
	AllureFormat  string   `yaml:"allureFormat" toml:"allureFormat"`
	Generator     string   `yaml:"generator" toml:"generator" validate:"required"`
}

type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Root    string `yaml:"root" toml:"root" validate:"required"`
	Limit   int    `yaml:"limit" toml:"limit" validate:"gte=0"`
}

// BrowserConfig is read by the step definitions running inside the external
// runner; it is validated here so a bad selection fails before launch.
type BrowserConfig struct {
	Name              string `yaml:"name" toml:"name" validate:"oneof=chromium firefox webkit"`
	Headless          bool   `yaml:"headless" toml:"headless"`
	Width             int    `yaml:"width" toml:"width" validate:"gt=0"`
	Height            int    `yaml:"height" toml:"height" validate:"gt=0"`
	CucumberTimeout   int    `yaml:"cucumberTimeout" toml:"cucumberTimeout" validate:"gt=0"`
	NavigationTimeout int    `yaml:"navigationTimeout" toml:"navigationTimeout" validate:"gt=0"`
	CommandTimeout    int    `yaml:"commandTimeout" toml:"commandTimeout" validate:"gt=0"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			Retry:    0,
			Parallel: 1,
			LogLevel: "info",
		},
		Allure: AllureConfig{
			ResultsDir:  "allure-results",
			ReportDir:   "allureReport",
			Clean:       true,
			Generate:    true,
			Environment: true,
		},
		Runner: RunnerConfig{
			Binary:        "cucumber-js",
			Features:      "./src/features/*.feature",
			RequireModule: "ts-node/register",
			Require: []string{
				"./src/step_def/**/*.ts",
				"./src/utills/cucumberTimeouts.ts",
			},
			JSONReport:   "test-results/cucumber-report.json",
			AllureFormat: "allure-cucumberjs/reporter",
			Generator:    "allure",
		},
		Archive: ArchiveConfig{
			Root:  "allure-archive",
			Limit: DefaultArchive,
		},
		Browser: BrowserConfig{
			Name:              "chromium",
			Width:             1900,
			Height:            1000,
			CucumberTimeout:   80000,
			NavigationTimeout: 60000,
			CommandTimeout:    60000,
		},
	}
}

// LoadDotEnv loads KEY=VALUE pairs from pth into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(pth string) error {
	if _, err := os.Stat(pth); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(pth); err != nil {
		return fmt.Errorf("godotenv.Load: %w", err)
	}

	return nil
}

// Load reads the config file at pth (yaml, or toml by extension) over the
// defaults, applies environment overrides and validates the result. A
// missing file leaves the defaults in place.
func Load(pth string, lookup LookupFunc) (*Config, error) {
	cfg := NewDefaultConfig()

	data, err := os.ReadFile(pth)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("os.ReadFile: %w", err)
	default:
		if err = decode(pth, data, cfg); err != nil {
			return nil, err
		}
	}

	if lookup != nil {
		if err = applyEnvOverrides(cfg, lookup); err != nil {
			return nil, err
		}
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decode(pth string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(pth)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("toml.Unmarshal %s: %w", pth, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("yaml.Unmarshal %s: %w", pth, err)
		}
	}

	return nil
}

func applyEnvOverrides(cfg *Config, lookup LookupFunc) error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvRetry, &cfg.Run.Retry},
		{EnvParallel, &cfg.Run.Parallel},
		{EnvArchiveLimit, &cfg.Archive.Limit},
		{EnvBrowserWidth, &cfg.Browser.Width},
		{EnvBrowserHeight, &cfg.Browser.Height},
		{EnvCucumberTimeout, &cfg.Browser.CucumberTimeout},
		{EnvNavigationTimeout, &cfg.Browser.NavigationTimeout},
		{EnvCommandTimeout, &cfg.Browser.CommandTimeout},
	}

	for _, v := range ints {
		raw, ok := lookup(v.key)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}

		n, err := cast.ToIntE(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", v.key, raw, err)
		}

		*v.dst = n
	}

	if level, ok := lookup(EnvLogLevel); ok && level != "" {
		cfg.Run.LogLevel = level
	}

	// toggles are on only for the exact value "1"
	if v, ok := lookup(EnvTreatBrokenAsFailed); ok {
		cfg.Run.TreatBrokenAsFailed = v == "1"
	}

	if v, ok := lookup(EnvArchive); ok {
		cfg.Archive.Enabled = v == "1"
	}

	if name, ok := lookup(EnvBrowser); ok && name != "" {
		cfg.Browser.Name = name
	}

	if v, ok := lookup(EnvHeadless); ok {
		cfg.Browser.Headless = v == "true"
	}

	return nil
}

var validate = validator.New()

// Validate reports configuration errors. They are fatal to the command.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate.Struct: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}

	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")

	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("%s: invalid value %q, want one of [%s]", field, fe.Value(), fe.Param())
	case "required":
		return fmt.Sprintf("%s: required", field)
	default:
		return fmt.Sprintf("%s: %v must satisfy %s %s", field, fe.Value(), fe.Tag(), fe.Param())
	}
}
