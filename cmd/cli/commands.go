package main

import (
	"fmt"

	"github.com/dsjohal14/fontstack/internal/libs/config"
	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/dsjohal14/fontstack/internal/scope/db"
	"github.com/dsjohal14/fontstack/internal/scope/include"
	"github.com/dsjohal14/fontstack/internal/scope/search"
	"github.com/spf13/cobra"
)

func newSearchCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <needle>",
		Short: "Find families whose name contains needle",
		Long:  "Case-insensitive name search. Prefix matches are listed first, then word-start matches, then the rest.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := opts.loadIndex(cmd.Context())
			if err != nil {
				return err
			}

			needle := ""
			if len(args) == 1 {
				needle = args[0]
			}
			matches := search.Rank(index.Snapshot(), needle)
			if limit > 0 && limit < len(matches) {
				matches = matches[:limit]
			}

			if opts.json {
				return printJSON(cmd.OutOrStdout(), matches)
			}
			printMatches(cmd.OutOrStdout(), matches)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (0 for all)")
	return cmd
}

func newClassificationCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classification [tag]",
		Short: "List families in a classification, or all classifications with counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := opts.loadIndex(cmd.Context())
			if err != nil {
				return err
			}

			if len(args) == 0 {
				counts := index.Classifications()
				if opts.json {
					return printJSON(cmd.OutOrStdout(), counts)
				}
				printCounts(cmd.OutOrStdout(), counts)
				return nil
			}

			families := index.ByClassification(catalog.Classification(args[0]))
			if opts.json {
				if families == nil {
					families = []catalog.Family{}
				}
				return printJSON(cmd.OutOrStdout(), families)
			}
			printFamilies(cmd.OutOrStdout(), families)
			return nil
		},
	}
}

func newFamilyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "family <slug>",
		Short: "Show one family by slug",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := opts.loadIndex(cmd.Context())
			if err != nil {
				return err
			}

			f, ok := index.BySlug(args[0])
			if !ok {
				return fmt.Errorf("family %q not found", args[0])
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), f)
			}
			printFamily(cmd.OutOrStdout(), f)
			return nil
		},
	}
}

func newIncludeCmd(_ *options) *cobra.Command {
	var (
		baseURL string
		script  bool
	)

	cmd := &cobra.Command{
		Use:   "include <slug:fvd,fvd:subset>...",
		Short: "Build an include string from font selections",
		Long:  "Joins selections such as droid-sans:n4,n7:default into one include string. No catalog fetch is needed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sels := make([]include.Selection, 0, len(args))
			for _, a := range args {
				sel, err := include.ParseSelection(a)
				if err != nil {
					return err
				}
				sels = append(sels, sel)
			}

			out := include.Create(sels)
			if script {
				out = include.ScriptTag(baseURL, sels)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://webfonts.creativecloud.com/", "script base URL")
	cmd.Flags().BoolVar(&script, "script", false, "wrap the include string in a script tag")
	return cmd
}

func newMirrorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "mirror",
		Short: "Copy the catalog into Postgres",
		Long:  "Fetches the catalog from the http or file source and replaces the font_families table with it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := opts.config()
			if err != nil {
				return err
			}
			if cfg.CatalogSource == config.SourcePostgres {
				return fmt.Errorf("mirror needs an http or file source")
			}
			if opts.databaseURL == "" {
				return fmt.Errorf("--database-url is required")
			}

			src, release, err := openSource(ctx, cfg)
			if err != nil {
				return err
			}
			defer release()

			families, err := src.Fetch(ctx)
			if err != nil {
				return fmt.Errorf("catalog fetch from %s failed: %w", src.Name(), err)
			}
			// Validate before touching the table.
			if err := catalog.NewIndex().Build(families); err != nil {
				return err
			}

			database, err := db.New(ctx, opts.databaseURL)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := database.EnsureSchema(ctx); err != nil {
				return err
			}
			n, err := database.ReplaceFamilies(ctx, families)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "mirrored %d families from %s\n", n, src.Name())
			return nil
		},
	}
}
