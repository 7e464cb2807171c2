// Loudsbuild compiles a user dictionary into a LOUDS index.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"fortio.org/cli"
	"fortio.org/log"
	"fortio.org/sets"
	"github.com/npillmayer/loudsdict"
	"github.com/npillmayer/loudsdict/alphabet"
	"github.com/npillmayer/loudsdict/merge"
	"github.com/npillmayer/loudsdict/source"
)

func main() {
	os.Exit(Main())
}

func Main() int {
	configFlag := flag.String("config", "", "YAML configuration `file` (environment variables are used if empty)")
	outFlag := flag.String("out", "", "target `directory`, overrides the configuration")
	dryRun := flag.Bool("n", false, "validate the configuration and inputs, don't compile")
	cli.EnvHelpFuncs = append(cli.EnvHelpFuncs, EnvHelp)
	cli.ArgsHelp = "[identifier]"
	cli.MaxArgs = 1
	cli.Main()
	cfg, err := LoadConfig(*configFlag)
	if err != nil {
		return log.FErrf("Error loading configuration: %v", err)
	}
	if flag.NArg() == 1 {
		cfg.Identifier = flag.Arg(0)
	}
	if *outFlag != "" {
		cfg.OutDir = *outFlag
	}
	if err := cfg.Validate(); err != nil {
		return log.FErrf("Invalid configuration: %v", err)
	}
	compiler, in, err := prepare(cfg)
	if err != nil {
		return log.FErrf("%v", err)
	}
	log.Infof("loudsbuild %s: compiling %q into %s (%d bundled sources, %d user entries)",
		cli.LongVersion, cfg.Identifier, cfg.OutDir, len(in.Bundled), len(in.Users))
	if *dryRun {
		return 0
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	stats, err := compiler.Compile(ctx, in)
	if err != nil {
		return log.FErrf("Compilation of %q failed: %v", cfg.Identifier, err)
	}
	log.Infof("%d records (%d indexed, %d denied, %d repaired, %d shadowed), %d nodes, %d bits",
		stats.Records, stats.Indexed, stats.Denied, stats.Repaired, stats.Shadowed, stats.Nodes, stats.Bits)
	log.Infof("%d segments, %d bytes written, %d stale files removed",
		stats.Segments, stats.Bytes, stats.StaleGone)
	if stats.Unmapped > 0 {
		log.Warnf("%d node labels are not contained in the alphabet", stats.Unmapped)
	}
	return 0
}

// prepare loads every input named by cfg.
func prepare(cfg *Config) (*loudsdict.Compiler, loudsdict.Input, error) {
	var in loudsdict.Input
	alpha, err := alphabet.LoadFile(cfg.Alphabet)
	if err != nil {
		return nil, in, fmt.Errorf("alphabet: %w", err)
	}
	denylist, err := loadDenylist(cfg.Denylist)
	if err != nil {
		return nil, in, fmt.Errorf("denylist: %w", err)
	}
	if in.Bundled, err = cfg.BundledNames(); err != nil {
		return nil, in, err
	}
	if cfg.User != "" {
		if err := readJSON(cfg.User, &in.Users); err != nil {
			return nil, in, fmt.Errorf("user dictionary: %w", err)
		}
	}
	if in.Hotfix, err = loadHotfix(cfg.Hotfix); err != nil {
		return nil, in, err
	}
	templates := merge.MapTemplates{}
	if cfg.Templates != "" {
		if err := readJSON(cfg.Templates, &templates); err != nil {
			return nil, in, fmt.Errorf("templates: %w", err)
		}
	}
	var bundle *source.Bundle
	if cfg.Bundle != "" {
		bundle = source.NewBundle(os.DirFS(cfg.Bundle))
	}
	compiler := &loudsdict.Compiler{
		Identifier: cfg.Identifier,
		OutDir:     cfg.OutDir,
		Split:      cfg.Split,
		Denylist:   denylist,
		Bundle:     bundle,
		Alphabet:   alpha,
		Templates:  templates,
	}
	return compiler, in, nil
}

// loadHotfix reads the hotfix dictionary. A missing file is not an error.
func loadHotfix(path string) (*merge.Hotfix, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Infof("No hotfix dictionary at %s", path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("hotfix dictionary: %w", err)
	}
	defer f.Close()
	return merge.LoadHotfix(f)
}

func loadDenylist(path string) (sets.Set[string], error) {
	denylist := sets.New[string]()
	if path == "" {
		return denylist, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := source.NewLineReader(f)
	for {
		line, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return denylist, nil
			}
			return nil, err
		}
		denylist.Add(line)
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
