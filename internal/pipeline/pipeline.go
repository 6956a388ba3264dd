// Package pipeline runs schema loading and type graph construction for a set
// of schema versions. Versions are independent: each gets its own registry,
// they run concurrently, and a failing version never stops the others.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conduit-lang/schemagen/internal/typegraph"
	"github.com/conduit-lang/schemagen/internal/xsd"
)

// DefaultConcurrency is the number of versions processed at once when unset.
const DefaultConcurrency = 4

// Version identifies one schema version to process.
type Version struct {
	// Name is the version name, e.g. "R4".
	Name string `mapstructure:"name" yaml:"name"`
	// Namespace is the version's namespace segment. Defaults to Name.
	Namespace string `mapstructure:"namespace" yaml:"namespace"`
	// SchemaDir holds the extracted .xsd files of the version.
	SchemaDir string `mapstructure:"schema_dir" yaml:"schema_dir"`
}

// LoadFunc produces the parsed schema of one version.
type LoadFunc func(ctx context.Context, v Version) (*xsd.Schema, error)

// Options configures a Runner.
type Options struct {
	RootNamespace string
	Separator     string
	ClassPrefix   string
	Rules         typegraph.KindRules
	Support       typegraph.SupportNames
	// Concurrency bounds the number of versions in flight.
	Concurrency int
	// Load defaults to reading SchemaDir from disk.
	Load   LoadFunc
	Logger *zap.Logger
}

// Result is the outcome of one version.
type Result struct {
	Version     Version
	Schema      *xsd.Schema
	Types       *typegraph.Types
	Diagnostics typegraph.ErrorList
	Err         error
	Duration    time.Duration
}

// Failed reports whether the version was aborted.
func (r *Result) Failed() bool { return r.Err != nil }

// Runner processes schema versions.
type Runner struct {
	opts   Options
	logger *zap.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Load == nil {
		opts.Load = LoadDir
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Runner{opts: opts, logger: opts.Logger}
}

// LoadDir loads a version's schema from its SchemaDir.
func LoadDir(_ context.Context, v Version) (*xsd.Schema, error) {
	return xsd.LoadDir(v.SchemaDir, v.Name)
}

// Validate checks a version list before any work starts.
func Validate(versions []Version) error {
	if len(versions) == 0 {
		return errors.New("no versions to process")
	}
	seen := make(map[string]bool, len(versions))
	for i, v := range versions {
		if v.Name == "" {
			return fmt.Errorf("version %d: name is required", i)
		}
		key := strings.ToLower(v.Name)
		if seen[key] {
			return fmt.Errorf("version %s: listed more than once", v.Name)
		}
		seen[key] = true
	}
	return nil
}

// Run processes every version and returns one Result per version, in input
// order. The returned error joins the failures of all failed versions; the
// results of the successful ones are usable regardless.
func (r *Runner) Run(ctx context.Context, versions []Version) ([]*Result, error) {
	if err := Validate(versions); err != nil {
		return nil, err
	}

	results := make([]*Result, len(versions))
	g := new(errgroup.Group)
	g.SetLimit(r.opts.Concurrency)

	for i, v := range versions {
		g.Go(func() error {
			results[i] = r.runVersion(ctx, v)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, res := range results {
		if res.Failed() {
			errs = append(errs, fmt.Errorf("version %s: %w", res.Version.Name, res.Err))
		}
	}
	return results, errors.Join(errs...)
}

func (r *Runner) runVersion(ctx context.Context, v Version) *Result {
	start := time.Now()
	res := &Result{Version: v}
	logger := r.logger.With(zap.String("version", v.Name))

	defer func() {
		res.Duration = time.Since(start)
		if res.Err != nil {
			logger.Error("version failed", zap.Error(res.Err), zap.Duration("duration", res.Duration))
			return
		}
		_, warnings := res.Diagnostics.ErrorCount()
		logger.Info("version processed",
			zap.Int("types", res.Types.Len()),
			zap.Int("warnings", warnings),
			zap.Duration("duration", res.Duration),
		)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	schema, err := r.opts.Load(ctx, v)
	if err != nil {
		res.Err = fmt.Errorf("loading schema: %w", err)
		return res
	}
	res.Schema = schema

	b := typegraph.NewBuilder(typegraph.Options{
		Version:          v.Name,
		RootNamespace:    r.opts.RootNamespace,
		VersionNamespace: v.Namespace,
		Separator:        r.opts.Separator,
		ClassPrefix:      r.opts.ClassPrefix,
		Rules:            r.opts.Rules,
		Support:          r.opts.Support,
		Logger:           r.logger,
	})
	ts, err := b.Build(schema.Declarations)
	res.Diagnostics = b.Diagnostics()
	if err != nil {
		res.Err = err
		return res
	}
	res.Types = ts
	return res
}
