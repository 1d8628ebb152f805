package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/yourorg/codespec/internal/config"
	"github.com/yourorg/codespec/internal/filter"
	"github.com/yourorg/codespec/internal/generator"
	"github.com/yourorg/codespec/internal/input"
	"github.com/yourorg/codespec/internal/source"
	"github.com/yourorg/codespec/internal/store"
	"github.com/yourorg/codespec/pkg/types"
)

const version = "1.0.0"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var verbose bool
	var debug bool
	var history bool

	root := &cobra.Command{
		Use:           "codespec",
		Short:         "Generate an OpenAPI spec from API source code with an LLM",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, verbose, debug)
			if history {
				return printHistory(cmd.OutOrStdout(), cfg)
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.Flags().StringVar(&cfgPath, "config", "", "config file path")
	root.Flags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	root.Flags().BoolVar(&debug, "debug", false, "enable debug output")
	root.Flags().BoolVar(&history, "history", false, "list recorded runs and exit")

	return root
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer, logger *slog.Logger) error {
	answers, err := input.Collect(input.NewPrompter(in, out))
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Reading files...")
	base, names, err := source.ListEntries(answers.Path, logger)
	if err != nil {
		return err
	}
	chunks, err := source.SplitFiles(names, base, cfg.Chunk.Size, logger)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Generating OpenAPI spec...")
	client := generator.NewOpenAIClient(cfg.LLM, nil, logger)
	opts := generator.Options{
		Model:      client.Model(),
		Logger:     logger,
		OnProgress: func(stage string) { fmt.Fprintln(out, stage) },
	}
	if cfg.StoreEnabled() {
		st, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer st.Close()
		opts.Store = st
	}
	if r := filter.NewRedactor(cfg.Redact); r != nil {
		opts.Prepare = r.Redact
	}

	fmt.Fprintln(out, "Processing API code snippets...")
	res, err := generator.Generate(ctx, answers, chunks, client, opts)
	if err != nil {
		return err
	}

	written, err := generator.WriteFormats(res.Document, cfg.Output.Dir, cfg.Output.Formats)
	if err != nil {
		return err
	}
	if cfg.Output.Validate {
		for _, path := range written {
			for _, problem := range generator.ValidateOpenAPI(ctx, path) {
				logger.Warn("openapi validation", "file", path, "problem", problem)
				fmt.Fprintf(out, "warning: %s: %s\n", path, problem)
			}
		}
	}

	if skipped := res.Skipped(); skipped > 0 {
		fmt.Fprintf(out, "%d of %d chunks were skipped\n", skipped, len(res.Chunks))
	}
	fmt.Fprintln(out, "OpenAPI spec file generated successfully!")
	return nil
}

func printHistory(w io.Writer, cfg *config.Config) error {
	if !cfg.StoreEnabled() {
		return errors.New("run history is disabled (store.enabled is false)")
	}
	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tCHUNKS\tSKIPPED\tMODEL\tTITLE\tSOURCE\tCREATED")
	for _, r := range runs {
		results, err := st.GetChunkResults(r.ID)
		if err != nil {
			return err
		}
		skipped := 0
		for _, c := range results {
			if c.Status == types.ChunkSkipped {
				skipped++
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			r.ID, r.Status, r.ChunkCount, skipped, r.Model, r.Title, r.SourcePath, r.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func newLogger(w io.Writer, level string, verbose, debug bool) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	if verbose && lvl > slog.LevelInfo {
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
