package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/schemagen/internal/cli/config"
	"github.com/conduit-lang/schemagen/internal/cli/ui"
	"github.com/conduit-lang/schemagen/internal/manifest"
	"github.com/conduit-lang/schemagen/internal/pipeline"
	"github.com/conduit-lang/schemagen/internal/typegraph"
	"github.com/conduit-lang/schemagen/internal/watch"
)

type generateOptions struct {
	format string
	output string
	kinds  []string
	watch  bool
}

// newGenerateCommand creates the generate command
func newGenerateCommand(global *globalOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:     "generate [versions...]",
		Aliases: []string{"g"},
		Short:   "Build the type graphs and write the manifest",
		Long: `Build the type graph of each configured schema version and write a manifest
describing every type, its properties, placements and import list.

Versions are processed concurrently. A version that fails is reported and
left out of the manifest; the others are still written.

Examples:
  schemagen generate
  schemagen generate R4 R5 --format yaml --output build/manifest.yaml
  schemagen generate R4 --kind RESOURCE --kind ELEMENT
  schemagen generate --watch`,
		ValidArgsFunction: versionCompletion(global),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := global.logger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			if err := checkVersions(cmd, cfg, args, global.noColor); err != nil {
				return err
			}

			if !opts.watch {
				return runGenerate(cmd.Context(), cmd, cfg, args, opts, global.noColor, logger, nil)
			}
			return watchGenerate(cmd, cfg, args, opts, global.noColor, logger)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Manifest format: json or yaml (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Manifest path, '-' for stdout (default from config)")
	cmd.Flags().StringSliceVarP(&opts.kinds, "kind", "k", nil, "Only list types of these kinds")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate when schema files change")

	return cmd
}

// checkVersions reports version arguments missing from the configuration.
func checkVersions(cmd *cobra.Command, cfg *config.Config, names []string, noColor bool) error {
	if len(cfg.Versions) == 0 {
		fmt.Fprint(cmd.ErrOrStderr(), ui.ConfigError("No schema versions are configured.", noColor))
		return errors.New("no versions configured")
	}
	for _, name := range names {
		if _, ok := cfg.Version(name); !ok {
			suggestions := ui.FindSimilar(name, cfg.VersionNames(), nil)
			fmt.Fprint(cmd.ErrOrStderr(), ui.VersionNotFoundError(name, suggestions, noColor))
			return fmt.Errorf("version %q is not configured", name)
		}
	}
	return nil
}

// runGenerate writes the manifest of the selected versions. Results found in
// cache are reused and new ones are stored there; a nil cache runs everything.
func runGenerate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, names []string, opts *generateOptions, noColor bool, logger *zap.Logger, cache resultCache) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := cfg.Format()
	if opts.format != "" {
		f, err := manifest.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		format = f
	}

	kinds, err := parseKinds(opts.kinds)
	if err != nil {
		return err
	}

	versions, err := cfg.SelectVersions(names)
	if err != nil {
		return err
	}

	popts := cfg.PipelineOptions()
	popts.Logger = logger
	results, runErr := runVersions(ctx, pipeline.New(popts), versions, cache)
	if results == nil {
		return runErr
	}

	m := manifest.Build(results, manifest.Options{
		Generator: "schemagen " + Version,
		Kinds:     kinds,
	})

	path := cfg.Output.Path
	if opts.output != "" {
		path = opts.output
	}
	if err := writeManifest(cmd.OutOrStdout(), path, m, format); err != nil {
		return err
	}

	errOut := cmd.ErrOrStderr()
	printSummary(errOut, results, noColor)

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
			fmt.Fprint(errOut, ui.GraphError(res.Version.Name, res.Err, noColor))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d versions failed", failed, len(results))
	}

	if path != "" && path != "-" {
		ui.WriteSuccess(errOut, fmt.Sprintf("Wrote %d types for %d version(s) to %s", m.TypeCount(), len(results), path), noColor)
	}
	return nil
}

// watchGenerate generates once, then again for every batch of schema edits,
// until interrupted.
func watchGenerate(cmd *cobra.Command, cfg *config.Config, names []string, opts *generateOptions, noColor bool, logger *zap.Logger) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	versions, err := cfg.SelectVersions(names)
	if err != nil {
		return err
	}
	dirs := make(map[string]string, len(versions))
	for _, v := range versions {
		dirs[v.Name] = v.SchemaDir
	}

	cache := make(resultCache, len(versions))
	regenerate := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			logger.Info("schema changed, regenerating", zap.Strings("versions", changed))
		}
		cache.invalidate(changed...)
		return runGenerate(ctx, cmd, cfg, names, opts, noColor, logger, cache)
	}

	if err := regenerate(ctx, nil); err != nil {
		logger.Warn("initial generation failed", zap.Error(err))
	}

	w, err := watch.New(dirs, watch.DefaultDelay, regenerate, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Watching for schema changes. Press Ctrl+C to stop.")
	return w.Run(ctx)
}

// resultCache holds the last result of each version, keyed by version name.
type resultCache map[string]*pipeline.Result

func (c resultCache) invalidate(versions ...string) {
	for _, name := range versions {
		delete(c, name)
	}
}

// runVersions processes the versions missing from cache and returns the
// results of all of them in input order.
func runVersions(ctx context.Context, runner *pipeline.Runner, versions []pipeline.Version, cache resultCache) ([]*pipeline.Result, error) {
	if cache == nil {
		return runner.Run(ctx, versions)
	}

	var stale []pipeline.Version
	for _, v := range versions {
		if _, ok := cache[v.Name]; !ok {
			stale = append(stale, v)
		}
	}

	fresh := make(map[string]*pipeline.Result, len(stale))
	var runErr error
	if len(stale) > 0 {
		results, err := runner.Run(ctx, stale)
		if results == nil {
			return nil, err
		}
		runErr = err
		for _, res := range results {
			fresh[res.Version.Name] = res
			// A cancelled run says nothing about the schema.
			if !errors.Is(res.Err, context.Canceled) {
				cache[res.Version.Name] = res
			}
		}
	}

	results := make([]*pipeline.Result, 0, len(versions))
	for _, v := range versions {
		if res, ok := fresh[v.Name]; ok {
			results = append(results, res)
			continue
		}
		results = append(results, cache[v.Name])
	}
	return results, runErr
}

func parseKinds(names []string) ([]typegraph.Kind, error) {
	kinds := make([]typegraph.Kind, 0, len(names))
	for _, n := range names {
		k, err := typegraph.ParseKind(strings.ToUpper(strings.TrimSpace(n)))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// writeManifest encodes m to path, or to stdout when path is empty or "-".
// The file is written through a temporary sibling so a failed run never
// leaves a truncated manifest behind.
func writeManifest(stdout io.Writer, path string, m *manifest.Manifest, format manifest.Format) error {
	if path == "" || path == "-" {
		return m.Encode(stdout, format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*")
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := m.Encode(tmp, format); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func printSummary(w io.Writer, results []*pipeline.Result, noColor bool) {
	table := ui.NewTable(w, []string{"Version", "Types", "Warnings", "Time", "Status"}, &ui.TableOptions{
		NoColor:    noColor,
		RightAlign: []int{1, 2, 3},
	})
	for _, res := range results {
		_, warnings := res.Diagnostics.ErrorCount()
		types, status := "-", "failed"
		if !res.Failed() {
			types, status = strconv.Itoa(res.Types.Len()), "ok"
		}
		table.AddRow(res.Version.Name, types, strconv.Itoa(warnings), res.Duration.Round(time.Millisecond).String(), status)
	}
	table.Render()
}
