package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dsjohal14/fontstack/internal/libs/config"
	"github.com/dsjohal14/fontstack/internal/libs/jobs"
	"github.com/dsjohal14/fontstack/internal/libs/obs"
	"github.com/dsjohal14/fontstack/internal/loader"
	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/dsjohal14/fontstack/internal/scope/db"
	"github.com/dsjohal14/fontstack/internal/source"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

type options struct {
	source      string
	url         string
	file        string
	databaseURL string
	locale      string
	timeout     time.Duration
	logLevel    string
	json        bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "fontstack",
		Short:         "Search and browse the web font catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			obs.InitLogger(opts.logLevel, "console")
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.source, "source", config.SourceHTTP, "catalog source: http, file or postgres")
	flags.StringVar(&opts.url, "url", source.DefaultAPIPrefix, "catalog API prefix for the http source")
	flags.StringVar(&opts.file, "file", "", "catalog JSON file for the file source")
	flags.StringVar(&opts.databaseURL, "database-url", "", "Postgres connection string")
	flags.StringVar(&opts.locale, "locale", "und", "BCP 47 locale used to lowercase names")
	flags.DurationVar(&opts.timeout, "timeout", source.DefaultFetchTimeout, "catalog fetch timeout")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")
	flags.BoolVar(&opts.json, "json", false, "print JSON instead of text")

	root.AddCommand(
		newSearchCmd(opts),
		newClassificationCmd(opts),
		newFamilyCmd(opts),
		newIncludeCmd(opts),
		newMirrorCmd(opts),
	)
	return root
}

// config turns the flags into a validated config
func (o *options) config() (*config.Config, error) {
	locale, err := language.Parse(o.locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", o.locale, err)
	}
	cfg := &config.Config{
		CatalogSource: o.source,
		CatalogURL:    o.url,
		CatalogFile:   o.file,
		DatabaseURL:   o.databaseURL,
		Locale:        locale,
		FetchTimeout:  o.timeout,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openSource returns the configured source and a func releasing it
func openSource(ctx context.Context, cfg *config.Config) (loader.Source, func(), error) {
	switch cfg.CatalogSource {
	case config.SourceFile:
		return source.NewFile(cfg.CatalogFile), func() {}, nil
	case config.SourcePostgres:
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return database, database.Close, nil
	default:
		return source.NewHTTP(cfg.CatalogURL,
			source.WithTimeout(cfg.FetchTimeout),
			source.WithLogger(obs.Logger("source")),
		), func() {}, nil
	}
}

// loadIndex fetches the catalog once and returns the built index
func (o *options) loadIndex(ctx context.Context) (*catalog.Index, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}

	src, release, err := openSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer release()

	index := catalog.NewIndex(catalog.WithLocale(cfg.Locale))
	ld := loader.New(src, index, jobs.NewQueue(1), obs.Logger("cli"))
	if _, err := ld.Load(ctx); err != nil {
		return nil, err
	}
	return index, nil
}
