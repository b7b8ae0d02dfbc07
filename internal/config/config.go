package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/utils/pathutils"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	FileName  = "sitemapgen.yml"
	EnvConfig = "SITEMAPGEN_CONFIG"

	DefaultFilename    = "sitemap.xml"
	DefaultMaxLines    = 50000
	DefaultMaxFileSize = 10 * 1024 * 1024

	DriverJSON   = "json"
	DriverSQLite = "sqlite"

	ProviderStatic = "static"
	ProviderYAML   = "yaml"
	ProviderFeed   = "feed"

	metaDir = ".sitemapgen"
)

type Config struct {
	BaseURL   string           `yaml:"base_url" validate:"required,url"`
	OutputDir string           `yaml:"output_dir" validate:"required"`
	Filename  string           `yaml:"filename" validate:"required,sitemapfile"`
	StoreID   int              `yaml:"store_id" validate:"gte=0"`
	Limits    Limits           `yaml:"limits"`
	Metadata  Metadata         `yaml:"metadata"`
	Providers []ProviderConfig `yaml:"providers" validate:"required,min=1,dive"`
}

type Limits struct {
	MaxLines    int   `yaml:"max_lines" validate:"gt=0"`
	MaxFileSize int64 `yaml:"max_file_size" validate:"gt=0"`
}

type Metadata struct {
	Driver string `yaml:"driver" validate:"oneof=json sqlite"`
	Path   string `yaml:"path,omitempty"`
}

type ProviderConfig struct {
	Key             string   `yaml:"key" validate:"required,groupkey"`
	Type            string   `yaml:"type" validate:"required,oneof=static yaml feed"`
	Path            string   `yaml:"path,omitempty" validate:"required_if=Type yaml"`
	URLs            []string `yaml:"urls,omitempty" validate:"required_if=Type static,dive,required"`
	URL             string   `yaml:"url,omitempty" validate:"required_if=Type feed,omitempty,url"`
	TimeoutSeconds  int      `yaml:"timeout_seconds,omitempty" validate:"gte=0"`
	MaxBytes        int64    `yaml:"max_bytes,omitempty" validate:"gte=0"`
	ChangeFrequency string   `yaml:"changefreq,omitempty" validate:"omitempty,oneof=always hourly daily weekly monthly yearly never"`
	Priority        *float64 `yaml:"priority,omitempty" validate:"omitempty,gte=0,lte=1"`
}

var groupKeyRe = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidGroupKey reports whether key can name a provider group and its files.
func ValidGroupKey(key string) bool {
	return groupKeyRe.MatchString(key)
}

// Default returns the configuration used for any field the file leaves out.
func Default() *Config {
	return &Config{
		OutputDir: ".",
		Filename:  DefaultFilename,
		Limits: Limits{
			MaxLines:    DefaultMaxLines,
			MaxFileSize: DefaultMaxFileSize,
		},
		Metadata: Metadata{Driver: DriverJSON},
	}
}

// Locate picks the config path: explicit flag, then $SITEMAPGEN_CONFIG, then ./sitemapgen.yml.
func Locate(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if env := strings.TrimSpace(os.Getenv(EnvConfig)); env != "" {
		return env
	}
	return FileName
}

// Load reads, resolves and validates the config at path. Relative paths in
// the file are anchored at the file's directory.
func Load(path string) (*Config, error) {
	abs, err := pathutils.Resolve(mustGetwd(), path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no configuration found at %s. Please run 'sitemapgen init' first", abs)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ConfigInvalid, abs, fmt.Errorf("failed to unmarshal config file: %w", err))
	}

	if err := cfg.resolve(filepath.Dir(abs)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags. Duplicate provider keys are allowed; they
// merge into one group.
func (c *Config) Validate() error {
	v := validator.New()
	_ = v.RegisterValidation("groupkey", func(fl validator.FieldLevel) bool {
		return ValidGroupKey(fl.Field().String())
	})
	_ = v.RegisterValidation("sitemapfile", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		return strings.HasSuffix(name, ".xml") && !strings.ContainsAny(name, `/\`) && len(name) > len(".xml")
	})

	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
			return errs.Wrap(errs.ConfigInvalid, "", errors.New(strings.Join(msgs, "; ")))
		}
		return errs.Wrap(errs.ConfigInvalid, "", err)
	}

	// a group file named like the index would be overwritten by it
	stem := strings.TrimSuffix(c.Filename, ".xml")
	for _, p := range c.Providers {
		if strings.HasSuffix(stem, "-"+p.Key) {
			return errs.Wrap(errs.ConfigInvalid, "",
				fmt.Errorf("filename %s collides with the sitemap of group %s", c.Filename, p.Key))
		}
	}
	return nil
}

// MetadataPath returns where generation records live for the chosen driver.
func (c *Config) MetadataPath() string {
	if c.Metadata.Path != "" {
		return c.Metadata.Path
	}
	if c.Metadata.Driver == DriverSQLite {
		return filepath.Join(c.OutputDir, metaDir, "generations.db")
	}
	return filepath.Join(c.OutputDir, metaDir)
}

// LockPath is the single-writer lock for runs targeting OutputDir/Filename.
func (c *Config) LockPath() string {
	return filepath.Join(c.OutputDir, "."+strings.TrimSuffix(c.Filename, ".xml")+".lock")
}

func (c *Config) resolve(base string) error {
	var err error
	if c.OutputDir, err = pathutils.Resolve(base, c.OutputDir); err != nil {
		return err
	}
	if c.Metadata.Path, err = pathutils.Resolve(base, c.Metadata.Path); err != nil {
		return err
	}
	for i := range c.Providers {
		if c.Providers[i].Path, err = pathutils.Resolve(base, c.Providers[i].Path); err != nil {
			return err
		}
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
