package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/npillmayer/loudsdict"
	"github.com/npillmayer/loudsdict/emit"
	"github.com/npillmayer/loudsdict/segment"
	"github.com/npillmayer/loudsdict/source"
)

// Config holds the settings of one index build.
type Config struct {
	Identifier   string   `yaml:"identifier"    env:"LOUDS_IDENTIFIER"    env-default:"user"  env-description:"file name stem of the emitted index"`
	OutDir       string   `yaml:"out"           env:"LOUDS_OUT"           env-default:"."     env-description:"target directory"`
	Split        int      `yaml:"split"         env:"LOUDS_SPLIT"         env-default:"2048"  env-description:"node blocks per segment file"`
	Bundle       string   `yaml:"bundle"        env:"LOUDS_BUNDLE"                            env-description:"directory of bundled word lists"`
	Sources      []string `yaml:"sources"       env:"LOUDS_SOURCES"       env-separator:","   env-description:"bundled word lists to merge, in order"`
	Additional   []string `yaml:"additional"    env:"LOUDS_ADDITIONAL"    env-separator:","   env-description:"additional dictionaries (emoji, kaomoji)"`
	EmojiVersion string   `yaml:"emoji_version" env:"LOUDS_EMOJI_VERSION" env-default:"16.0"  env-description:"newest emoji version the platform renders"`
	Alphabet     string   `yaml:"alphabet"      env:"LOUDS_ALPHABET"                          env-description:"alphabet file"`
	Denylist     string   `yaml:"denylist"      env:"LOUDS_DENYLIST"                          env-description:"file of denied characters, one per line"`
	User         string   `yaml:"user"          env:"LOUDS_USER"                              env-description:"user dictionary (JSON)"`
	Hotfix       string   `yaml:"hotfix"        env:"LOUDS_HOTFIX"                            env-description:"hotfix dictionary (JSON), optional"`
	Templates    string   `yaml:"templates"     env:"LOUDS_TEMPLATES"                         env-description:"template literals (JSON object), optional"`
}

// LoadConfig reads the build configuration from a YAML file (if path is not
// empty) and environment variables. Priority: ENV > YAML > defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for values the compiler cannot use.
func (c *Config) Validate() error {
	var errs []error
	if c.Identifier == "" {
		errs = append(errs, errors.New("identifier must not be empty"))
	}
	if c.Split < 1 || c.Split > segment.MaxBlocks {
		errs = append(errs, fmt.Errorf("%w: %d", emit.ErrSplitSize, c.Split))
	}
	if c.Alphabet == "" {
		errs = append(errs, errors.New("alphabet file is required"))
	}
	if c.Bundle == "" && (len(c.Sources) > 0 || len(c.Additional) > 0) {
		errs = append(errs, errors.New("bundled word lists configured without a bundle directory"))
	}
	if _, err := source.ParseEmojiVersion(c.EmojiVersion); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// BundledNames returns the bundled word lists to merge: the configured
// sources followed by the files of the additional dictionaries.
func (c *Config) BundledNames() ([]string, error) {
	version, err := source.ParseEmojiVersion(c.EmojiVersion)
	if err != nil {
		return nil, err
	}
	kinds := make([]source.Kind, len(c.Additional))
	for i, k := range c.Additional {
		kinds[i] = source.Kind(k)
	}
	additional, err := source.ResolveBundled(kinds, version)
	if err != nil {
		return nil, err
	}
	return append(append([]string{}, c.Sources...), additional...), nil
}

// EnvHelp lists the environment variables understood by loudsbuild.
func EnvHelp(w io.Writer) {
	header := fmt.Sprintf("# loudsbuild environment variables (default split %d):", loudsdict.DefaultSplit)
	desc, err := cleanenv.GetDescription(&Config{}, &header)
	if err != nil {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintln(w, desc)
}
