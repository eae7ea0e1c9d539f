// Command `yapenv` is a configuration-driven Python environment manager.
//
// yapenv locates a declarative configuration file in a project directory,
// optionally merges it with ancestor directory configurations and an
// environment overlay, and drives virtualenv and pip to materialize a
// matching virtual environment.
//
// Usage:
//
//	yapenv install                    - Create the venv and install requirements
//	yapenv config get a.b[0].c        - Read a value from the resolved config
//	yapenv pip args                   - Print the composed pip install arguments
//	yapenv shell                      - Start a shell inside the venv
//
// Common flags (accepted by every subcommand):
//
//	--cwd <dir>            Project directory (default ".")
//	-e, --env <name>       Environment overlay to apply
//	--inherit-depth <n>    Max ancestor layers to merge (-1 = unlimited)
//	--env-file <path>      Dotenv file loaded before resolution
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/LamaAni/yapenv/internal/buildinfo"
	"github.com/LamaAni/yapenv/internal/config"
	"github.com/LamaAni/yapenv/internal/envfile"
	"github.com/LamaAni/yapenv/internal/filesys"
	"github.com/LamaAni/yapenv/internal/format"
	"github.com/LamaAni/yapenv/internal/log"
)

// commonOptions carries the flags shared by every subcommand.
type commonOptions struct {
	cwd          string
	environment  string
	inheritDepth int
	envFile      string
	fullErrors   bool
}

// load resolves the effective configuration for the flags, sourcing the
// dotenv file first so YAPENV_* overrides apply to the resolution.
func (o *commonOptions) load() (*config.Config, error) {
	dir, err := filepath.Abs(o.cwd)
	if err != nil {
		return nil, err
	}
	if err := envfile.Load(envfile.Resolve(o.envFile, dir)); err != nil {
		return nil, err
	}
	return config.Load(dir, config.Options{
		Environment:  o.environment,
		InheritDepth: o.inheritDepth,
	})
}

func main() {
	opts := &commonOptions{}

	root := &cobra.Command{
		Use:           "yapenv",
		Short:         "Yet Another Python Environment manager",
		Long:          `yapenv manages Python virtual environments from declarative .yapenv configuration files, with directory inheritance and per-environment overlays.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.cwd, "cwd", ".", "project directory to resolve the configuration from")
	root.PersistentFlags().StringVarP(&opts.environment, "env", "e", "", "environment overlay to apply")
	root.PersistentFlags().IntVar(&opts.inheritDepth, "inherit-depth", -1, "max ancestor layers to merge (-1 = unlimited, 0 = none)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "dotenv file loaded before resolution")
	root.PersistentFlags().BoolVar(&opts.fullErrors, "full-errors", false, "print errors with full context")

	// ---- version command ----
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", buildinfo.Version)
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		},
	}

	// ---- environments command ----
	environmentsCmd := &cobra.Command{
		Use:   "environments",
		Short: "List the environments declared in the configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			// Resolve without an overlay so all declared environments stay visible.
			base := *opts
			base.environment = ""
			cfg, err := base.load()
			if err != nil {
				return err
			}
			names := cfg.EnvironmentNames()
			if len(names) == 0 {
				color.Yellow("No environments declared.")
				return nil
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Name", "Python", "Requirements"})
			table.SetHeaderColor(
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
			)
			table.SetBorder(false)

			for _, name := range names {
				overlay, _ := cfg.Environment(name)
				python := "-"
				if v, ok := overlay.Get("python_version"); ok {
					python = v.Str()
				}
				reqs := 0
				if v, ok := overlay.Get("requirements"); ok {
					reqs = v.Len()
				}
				table.Append([]string{name, python, fmt.Sprintf("%d", reqs)})
			}

			color.New(color.Bold).Println("DECLARED ENVIRONMENTS:")
			table.Render()
			return nil
		},
	}

	root.AddCommand(
		versionCmd,
		environmentsCmd,
		newConfigCmd(opts),
		newPipCmd(opts),
		newVirtualenvCmd(opts),
		newRequirementsCmd(opts),
		newInstallCmd(opts),
		newDeleteCmd(opts),
		newInitCmd(opts),
		newShellCmd(opts),
		newRunCmd(opts),
	)

	if err := root.Execute(); err != nil {
		if opts.fullErrors || strings.EqualFold(os.Getenv("YAPENV_FULL_ERRORS"), "true") {
			log.Errorf("%+v", err)
		} else {
			color.New(color.FgHiRed, color.Bold).Fprint(os.Stderr, "Error: ")
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode maps the configuration error taxonomy to distinct exit codes
// so scripts can tell resolution failures apart.
func exitCode(err error) int {
	var (
		parseErr  *config.ParseError
		cycleErr  *config.CycleError
		envErr    *config.UnknownEnvironmentError
		importErr *config.ImportError
		pathErr   *config.PathError
	)
	switch {
	case errors.Is(err, config.ErrNotFound):
		return 2
	case errors.As(err, &parseErr):
		return 3
	case errors.As(err, &envErr):
		return 4
	case errors.As(err, &importErr):
		return 5
	case errors.As(err, &pathErr):
		return 6
	case errors.As(err, &cycleErr):
		return 7
	default:
		return 1
	}
}

// newConfigCmd builds the `config view` / `config get` read surface.
func newConfigCmd(opts *commonOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Read resolved configuration values",
	}

	var (
		formatName   string
		resolve      bool
		allowNull    bool
		allowMissing bool
	)

	printValues := func(paths []string) error {
		cfg, err := opts.load()
		if err != nil {
			return err
		}
		f, err := format.Parse(formatName)
		if err != nil {
			return err
		}

		root := cfg.Root()
		if resolve {
			specs, err := cfg.FlattenRequirements(filesys.OS())
			if err != nil {
				return err
			}
			items := make([]config.Value, len(specs))
			for i, s := range specs {
				items[i] = config.String(s)
			}
			root = root.With("requirements", config.Sequence(items...))
		}

		if len(paths) == 0 {
			out, err := format.Render(f, root.Interface(), true)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		var results []config.Value
		for _, path := range paths {
			v, err := config.Query(root, path)
			if err != nil {
				var pathErr *config.PathError
				if allowMissing && errors.As(err, &pathErr) {
					continue
				}
				return err
			}
			if v.IsNull() && !allowNull {
				return fmt.Errorf("found null value at path %q (use --allow-null to permit)", path)
			}
			results = append(results, v)
		}

		for _, v := range results {
			if v.IsScalar() {
				out, err := format.Render(format.List, v.Interface(), false)
				if err != nil {
					return err
				}
				fmt.Println(out)
				continue
			}
			out, err := format.Render(f, v.Interface(), true)
			if err != nil {
				return err
			}
			fmt.Println(out)
		}
		return nil
	}

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "Print the fully resolved configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printValues(nil)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get <path> [path...]",
		Short: "Print values at dotted/indexed paths, e.g. a.b[0].c",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return printValues(args)
		},
	}

	for _, cmd := range []*cobra.Command{viewCmd, getCmd} {
		cmd.Flags().StringVar(&formatName, "format", string(format.YAML), "output format: yaml, json, list or cli")
		cmd.Flags().BoolVar(&resolve, "resolve", false, "flatten requirement imports before printing")
	}
	getCmd.Flags().BoolVar(&allowNull, "allow-null", false, "permit null results")
	getCmd.Flags().BoolVar(&allowMissing, "allow-missing", false, "skip paths that cannot be navigated")

	configCmd.AddCommand(viewCmd, getCmd)
	return configCmd
}
