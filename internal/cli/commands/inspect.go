package commands

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/schemagen/internal/cli/ui"
	"github.com/conduit-lang/schemagen/internal/manifest"
	"github.com/conduit-lang/schemagen/internal/pipeline"
	"github.com/conduit-lang/schemagen/internal/typegraph"
)

type inspectOptions struct {
	format      string
	kinds       []string
	diagnostics bool
	local       bool
}

// newInspectCommand creates the inspect command
func newInspectCommand(global *globalOptions) *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <version> [type]",
		Short: "Explore the type graph of a schema version",
		Long: `Build the type graph of one schema version and show it.

Without a type name, every type of the version is listed with its kind,
class name and parent. With a type name, the type is shown in detail: its
properties with their placement, and its resolved import list.`,
		Example: `  # List all types of R4
  schemagen inspect R4

  # Only resources and quantities
  schemagen inspect R4 --kind RESOURCE,QUANTITY

  # One type in detail
  schemagen inspect R4 Patient

  # Warnings recorded while building the graph
  schemagen inspect R4 --diagnostics

  # Machine readable output
  schemagen inspect R4 Quantity --format json`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: versionCompletion(global),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table, json or yaml")
	cmd.Flags().StringSliceVarP(&opts.kinds, "kind", "k", nil, "Only list types of these kinds")
	cmd.Flags().BoolVar(&opts.diagnostics, "diagnostics", false, "Show the diagnostics recorded for the version")
	cmd.Flags().BoolVar(&opts.local, "local", false, "Show only properties declared on the type itself")

	return cmd
}

func runInspect(cmd *cobra.Command, global *globalOptions, opts *inspectOptions, args []string) error {
	cfg, err := global.loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := global.logger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	if err := checkVersions(cmd, cfg, args[:1], global.noColor); err != nil {
		return err
	}
	version, _ := cfg.Version(args[0])

	format := strings.ToLower(opts.format)
	if format != "table" {
		if _, err := manifest.ParseFormat(format); err != nil {
			return fmt.Errorf("unknown output format %q (expected table, json or yaml)", opts.format)
		}
	}
	kinds, err := parseKinds(opts.kinds)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	popts := cfg.PipelineOptions()
	popts.Logger = logger
	results, _ := pipeline.New(popts).Run(ctx, []pipeline.Version{version})
	res := results[0]

	out := cmd.OutOrStdout()
	noColor := global.noColor

	if opts.diagnostics {
		return renderDiagnostics(out, res, format, noColor)
	}
	if res.Failed() {
		fmt.Fprint(cmd.ErrOrStderr(), ui.GraphError(version.Name, res.Err, noColor))
		return fmt.Errorf("version %s failed", version.Name)
	}

	if len(args) == 1 {
		return renderTypeList(out, res, kinds, format, noColor)
	}

	t, ok := res.Types.Lookup(args[1])
	if !ok {
		names := make([]string, 0, res.Types.Len())
		for _, t := range res.Types.Sorted() {
			names = append(names, t.Name())
		}
		suggestions := ui.FindSimilar(args[1], names, nil)
		fmt.Fprint(cmd.ErrOrStderr(), ui.TypeNotFoundError(version.Name, args[1], suggestions, noColor))
		return fmt.Errorf("type %q not found in version %s", args[1], version.Name)
	}
	return renderType(out, t, opts.local, format, noColor)
}

func renderTypeList(w io.Writer, res *pipeline.Result, kinds []typegraph.Kind, format string, noColor bool) error {
	if format != "table" {
		m := manifest.Build([]*pipeline.Result{res}, manifest.Options{Kinds: kinds})
		return manifest.EncodeValue(w, mustFormat(format), m.Versions[0])
	}

	types := res.Types.Sorted()
	if len(kinds) > 0 {
		types = res.Types.OfKind(kinds...)
	}

	ui.Header(w, fmt.Sprintf("%s types (%d)", res.Version.Name, len(types)), noColor)
	table := ui.NewTable(w, []string{"Name", "Kind", "Class", "Parent", "Props", "Imports"}, &ui.TableOptions{
		NoColor:    noColor,
		RightAlign: []int{4, 5},
	})
	for _, t := range types {
		table.AddRow(
			t.Name(),
			t.Kind().String(),
			t.ClassName(),
			t.ParentName(),
			strconv.Itoa(t.Properties().Len()),
			strconv.Itoa(t.Imports().Len()),
		)
	}
	table.Render()
	return nil
}

func renderType(w io.Writer, t *typegraph.Type, local bool, format string, noColor bool) error {
	if format != "table" {
		return manifest.EncodeValue(w, mustFormat(format), manifest.FromType(t))
	}

	ui.Header(w, t.Name(), noColor)
	details := ui.NewDetails(w, noColor)
	details.Add("Kind", t.Kind().String())
	details.Add("Class", t.FullyQualifiedName())
	details.Add("Parent", t.ParentName())
	details.Add("Restriction base", t.RestrictionBaseName())
	details.Add("Primitive base", t.PrimitiveBase())
	if t.IsAbstract() {
		details.Add("Abstract", "yes")
	}
	details.Add("Interfaces", strings.Join(t.Interfaces(), ", "))
	details.Add("Traits", strings.Join(t.Traits(), ", "))
	details.Add("Enumeration", strings.Join(t.Enumeration(), ", "))
	details.Add("Source", t.SourceFile())
	details.Add("Documentation", strings.Join(t.Documentation(), " "))
	details.Render()

	props := t.Properties().All()
	if local {
		props = t.Properties().Local()
	}
	if len(props) > 0 {
		fmt.Fprintln(w)
		ui.Header(w, "Properties", noColor)
		table := ui.NewTable(w, []string{"Name", "Type", "Card", "Placement", "Declared on"}, &ui.TableOptions{NoColor: noColor})
		for _, p := range props {
			valueType := p.ValueTypeName()
			if vt := p.ValueType(); vt != nil {
				valueType = vt.Name()
			}
			name := p.Name()
			if p.ChoiceGroup() != "" {
				name += " (" + p.ChoiceGroup() + ")"
			}
			table.AddRow(name, valueType, p.Cardinality(), typegraph.PlacementOf(t, p).String(), p.Owner().Name())
		}
		table.Render()
	}

	fmt.Fprintln(w)
	ui.Header(w, "Imports", noColor)
	table := ui.NewTable(w, []string{"Name", "Namespace", "Alias", "Import"}, &ui.TableOptions{NoColor: noColor})
	for _, ti := range typegraph.ResolveImports(t) {
		imported := "no"
		if ti.RequiresImport() {
			imported = "yes"
		}
		table.AddRow(ti.ClassName(), ti.Namespace(), ti.Alias(), imported)
	}
	table.Render()
	return nil
}

func renderDiagnostics(w io.Writer, res *pipeline.Result, format string, noColor bool) error {
	if format != "table" {
		diags := res.Diagnostics
		if diags == nil {
			diags = typegraph.ErrorList{}
		}
		return manifest.EncodeValue(w, mustFormat(format), diags)
	}

	if len(res.Diagnostics) == 0 {
		if res.Failed() {
			fmt.Fprint(w, ui.GraphError(res.Version.Name, res.Err, noColor))
			return fmt.Errorf("version %s failed", res.Version.Name)
		}
		ui.WriteSuccess(w, fmt.Sprintf("No diagnostics for %s", res.Version.Name), noColor)
		return nil
	}

	table := ui.NewTable(w, []string{"Code", "Severity", "Type", "Message"}, &ui.TableOptions{NoColor: noColor})
	for _, d := range res.Diagnostics {
		table.AddRow(string(d.Code), string(d.Severity), d.TypeName, d.Message)
	}
	table.Render()

	if errs := res.Diagnostics.Errors(); len(errs) > 0 {
		return fmt.Errorf("%d error(s) in %s", len(errs), res.Version.Name)
	}
	return nil
}

// mustFormat converts an already validated non-table format name.
func mustFormat(name string) manifest.Format {
	f, _ := manifest.ParseFormat(name)
	return f
}
