package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/schemagen/internal/cli/config"
	"github.com/conduit-lang/schemagen/internal/manifest"
	"github.com/conduit-lang/schemagen/internal/pipeline"
	"github.com/conduit-lang/schemagen/internal/typegraph"
	strutil "github.com/conduit-lang/schemagen/internal/util/strings"
)

// configFile is the on-disk layout written by init.
type configFile struct {
	RootNamespace string              `yaml:"root_namespace"`
	ClassPrefix   string              `yaml:"class_prefix,omitempty"`
	Concurrency   int                 `yaml:"concurrency"`
	LogLevel      string              `yaml:"log_level"`
	Output        configOutput        `yaml:"output"`
	Versions      []pipeline.Version  `yaml:"versions"`
	Kinds         typegraph.KindRules `yaml:"kinds"`
}

type configOutput struct {
	Format string `yaml:"format"`
	Path   string `yaml:"path,omitempty"`
}

type initOptions struct {
	interactive bool
	force       bool
	root        string
	prefix      string
	format      string
	output      string
	versions    []string
}

// newInitCommand creates the init command
func newInitCommand() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a schemagen.yaml configuration",
		Long: `Create a schemagen.yaml in the current directory.

Versions are given as NAME=SCHEMA_DIR pairs, or entered one by one with
--interactive.`,
		Example: `  schemagen init --root HL7.FHIR --version R4=schemas/r4 --version R5=schemas/r5
  schemagen init --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Prompt for every setting")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration")
	cmd.Flags().StringVar(&opts.root, "root", "Schemagen", "Root namespace of the generated code")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "Prefix for every generated class name")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Manifest format: json or yaml")
	cmd.Flags().StringVar(&opts.output, "output", "", "Manifest path (default: stdout)")
	cmd.Flags().StringArrayVar(&opts.versions, "version", nil, "Schema version as NAME=SCHEMA_DIR (repeatable)")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	path := config.ConfigName + ".yaml"
	if config.InProject() && !opts.force {
		return fmt.Errorf("a schemagen configuration already exists here (use --force to overwrite)")
	}

	file := configFile{
		RootNamespace: opts.root,
		ClassPrefix:   opts.prefix,
		Concurrency:   pipeline.DefaultConcurrency,
		LogLevel:      "info",
		Output:        configOutput{Format: opts.format, Path: opts.output},
		Kinds:         typegraph.DefaultKindRules(),
	}

	for _, arg := range opts.versions {
		v, err := parseVersionFlag(arg)
		if err != nil {
			return err
		}
		file.Versions = append(file.Versions, v)
	}

	if opts.interactive {
		if err := askInit(&file); err != nil {
			return err
		}
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := writeConfigFile(path, data); err != nil {
		return err
	}

	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	w := cmd.OutOrStdout()

	successColor.Fprintf(w, "✓ Created %s\n", path)
	infoColor.Fprintln(w, "\nNext steps:")
	if len(file.Versions) == 0 {
		fmt.Fprintln(w, "  1. Add your schema versions under 'versions'")
	} else {
		fmt.Fprintln(w, "  1. Check the kind rules match your schemas")
	}
	fmt.Fprintln(w, "  2. Run 'schemagen generate'")
	return nil
}

// writeConfigFile validates data as a configuration before it replaces path,
// so a rejected config never clobbers an existing one.
func writeConfigFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+config.ConfigName+"-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if _, err := config.Load(tmp.Name()); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// parseVersionFlag parses NAME=SCHEMA_DIR.
func parseVersionFlag(arg string) (pipeline.Version, error) {
	name, dir, ok := strings.Cut(arg, "=")
	name, dir = strings.TrimSpace(name), strings.TrimSpace(dir)
	if !ok || name == "" || dir == "" {
		return pipeline.Version{}, fmt.Errorf("invalid version %q: expected NAME=SCHEMA_DIR", arg)
	}
	return pipeline.Version{Name: name, SchemaDir: filepath.ToSlash(dir)}, nil
}

func askInit(file *configFile) error {
	questions := []*survey.Question{
		{
			Name:   "root",
			Prompt: &survey.Input{Message: "Root namespace:", Default: file.RootNamespace},
			Validate: survey.ComposeValidators(survey.Required, func(ans interface{}) error {
				if s, _ := ans.(string); !strutil.IsNamespace(s, typegraph.DefaultSeparator) {
					return fmt.Errorf("%q is not a dotted list of identifiers", s)
				}
				return nil
			}),
		},
		{
			Name:   "prefix",
			Prompt: &survey.Input{Message: "Class name prefix (optional):", Default: file.ClassPrefix},
		},
		{
			Name: "format",
			Prompt: &survey.Select{
				Message: "Manifest format:",
				Options: []string{string(manifest.FormatJSON), string(manifest.FormatYAML)},
				Default: string(manifest.FormatJSON),
			},
		},
	}

	answers := struct {
		Root   string
		Prefix string
		Format string
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}
	file.RootNamespace = answers.Root
	file.ClassPrefix = answers.Prefix
	file.Output.Format = answers.Format

	for {
		more := len(file.Versions) == 0
		if !more {
			if err := survey.AskOne(&survey.Confirm{Message: "Add another version?"}, &more); err != nil {
				return err
			}
		}
		if !more {
			return nil
		}

		var v pipeline.Version
		if err := survey.AskOne(&survey.Input{Message: "Version name (e.g. R4):"}, &v.Name, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		if err := survey.AskOne(&survey.Input{
			Message: "Schema directory:",
			Help:    "Directory holding the extracted .xsd files of this version",
		}, &v.SchemaDir, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		file.Versions = append(file.Versions, v)
	}
}
