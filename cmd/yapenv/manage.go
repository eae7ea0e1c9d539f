package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/LamaAni/yapenv/internal/config"
	"github.com/LamaAni/yapenv/internal/filesys"
	"github.com/LamaAni/yapenv/internal/format"
	"github.com/LamaAni/yapenv/internal/log"
	"github.com/LamaAni/yapenv/internal/runner"
)

// confirm prompts for a y/yes answer unless force is set.
func confirm(prompt string, force bool) bool {
	if force {
		return true
	}
	color.New(color.FgHiRed, color.Bold).Print("WARNING: ")
	color.New(color.FgYellow).Printf("%s\n", prompt)
	color.New(color.FgHiWhite).Print("Are you sure you want to proceed? (y/yes/n/no): ")

	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func newPipCmd(opts *commonOptions) *cobra.Command {
	pipCmd := &cobra.Command{
		Use:   "pip",
		Short: "Compose and run pip commands for the configuration",
	}

	var formatName string
	argsCmd := &cobra.Command{
		Use:   "args [packages...]",
		Short: "Print the pip install arguments for the configuration",
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			f, err := format.Parse(formatName)
			if err != nil {
				return err
			}
			pipArgs, err := runner.PipArgs(cfg, filesys.OS(), args)
			if err != nil {
				return err
			}
			out, err := format.Render(f, pipArgs, false)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	argsCmd.Flags().StringVar(&formatName, "format", string(format.CLI), "output format: yaml, json, list or cli")

	installCmd := &cobra.Command{
		Use:   "install [packages...]",
		Short: "Run pip install in the virtual environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return runner.New(cfg.SourceDirectory()).PipInstall(cmd.Context(), cfg, args)
		},
	}

	pipCmd.AddCommand(argsCmd, installCmd)
	return pipCmd
}

func newVirtualenvCmd(opts *commonOptions) *cobra.Command {
	virtualenvCmd := &cobra.Command{
		Use:   "virtualenv",
		Short: "Compose and run virtualenv commands for the configuration",
	}

	var formatName string
	argsCmd := &cobra.Command{
		Use:   "args",
		Short: "Print the virtualenv creation arguments for the configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			f, err := format.Parse(formatName)
			if err != nil {
				return err
			}
			out, err := format.Render(f, runner.VirtualenvArgs(cfg), false)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	argsCmd.Flags().StringVar(&formatName, "format", string(format.CLI), "output format: yaml, json, list or cli")

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create the virtual environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return runner.New(cfg.SourceDirectory()).CreateVirtualenv(cmd.Context(), cfg)
		},
	}

	virtualenvCmd.AddCommand(argsCmd, createCmd)
	return virtualenvCmd
}

func newRequirementsCmd(opts *commonOptions) *cobra.Command {
	requirementsCmd := &cobra.Command{
		Use:   "requirements",
		Short: "Work with the configuration's requirement list",
	}

	var formatName string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the flattened requirement specifiers",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			f, err := format.Parse(formatName)
			if err != nil {
				return err
			}
			specs, err := cfg.FlattenRequirements(filesys.OS())
			if err != nil {
				return err
			}
			out, err := format.Render(f, specs, false)
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&formatName, "format", string(format.List), "output format: yaml, json, list or cli")

	requirementsCmd.AddCommand(exportCmd)
	return requirementsCmd
}

func newInstallCmd(opts *commonOptions) *cobra.Command {
	var (
		reset bool
		force bool
	)
	installCmd := &cobra.Command{
		Use:   "install [packages...]",
		Short: "Create the virtual environment (if needed) and install requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if reset && cfg.HasVirtualEnvironment() {
				if !confirm("You are about to delete the virtual environment @ "+cfg.VenvPath(), force) {
					log.Info("aborted")
					return nil
				}
				if err := os.RemoveAll(cfg.VenvPath()); err != nil {
					return err
				}
			}
			run := runner.New(cfg.SourceDirectory())
			if !cfg.HasVirtualEnvironment() {
				if err := run.CreateVirtualenv(cmd.Context(), cfg); err != nil {
					return err
				}
			}
			if err := run.PipInstall(cmd.Context(), cfg, args); err != nil {
				return err
			}
			color.New(color.FgGreen, color.Bold).Printf("✓ Environment ready @ ")
			color.New(color.FgHiGreen, color.Bold).Println(cfg.VenvPath())
			return nil
		},
	}
	installCmd.Flags().BoolVarP(&reset, "reset", "r", false, "recreate the virtual environment")
	installCmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	return installCmd
}

func newDeleteCmd(opts *commonOptions) *cobra.Command {
	var force bool
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the virtual environment",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if !cfg.HasVirtualEnvironment() {
				log.Warnf("no virtual environment @ %s", cfg.VenvPath())
				return nil
			}
			if !confirm("You are about to delete the virtual environment @ "+cfg.VenvPath(), force) {
				log.Info("aborted")
				return nil
			}
			if err := os.RemoveAll(cfg.VenvPath()); err != nil {
				return err
			}
			log.Infof("deleted virtual environment @ %s", cfg.VenvPath())
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	return deleteCmd
}

func newInitCmd(opts *commonOptions) *cobra.Command {
	var (
		pythonVersion      string
		configFilename     string
		force              bool
		reset              bool
		noRequirementFiles bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a yapenv configuration in the project directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			doc := starterConfig(pythonVersion, !noRequirementFiles)

			// Merge the existing configuration over the starter unless resetting.
			existing, err := config.Load(opts.cwd, config.Options{InheritDepth: 0})
			switch {
			case err == nil && !reset:
				doc = config.Merge(doc, existing.Root())
			case err != nil && !errors.Is(err, config.ErrNotFound):
				return err
			}

			name := configFilename
			if name == "" {
				name = config.CandidateNames()[0]
			}
			target := config.NewConfig(doc, opts.cwd)
			path := target.ResolveFromSource(name)
			if _, statErr := os.Stat(path); statErr == nil {
				if !confirm("You are about to overwrite the configuration @ "+path, force) {
					log.Info("aborted")
					return nil
				}
			}

			data, err := encodeConfig(doc, name)
			if err != nil {
				return err
			}
			if err := filesys.AtomicWrite(filesys.OS(), path, data, 0o644); err != nil {
				return err
			}
			log.Infof("initialized config file @ %s", path)

			if !noRequirementFiles {
				for _, reqFile := range []string{"requirements.txt", "requirements.dev.txt"} {
					if err := filesys.Touch(target.ResolveFromSource(reqFile)); err != nil {
						return err
					}
				}
				log.Info("initialized requirement files")
			}
			return nil
		},
	}
	initCmd.Flags().StringVarP(&pythonVersion, "python-version", "p", config.DefaultPythonVersion, "python version for the new configuration")
	initCmd.Flags().StringVarP(&configFilename, "config-filename", "c", "", "configuration file name to write")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "do not ask for confirmation")
	initCmd.Flags().BoolVar(&reset, "reset", false, "discard the current configuration instead of merging it")
	initCmd.Flags().BoolVar(&noRequirementFiles, "no-requirement-files", false, "do not create requirements.txt files")
	return initCmd
}

// starterConfig builds the document written by `yapenv init`.
func starterConfig(pythonVersion string, withRequirementFiles bool) config.Value {
	requirements := config.Sequence()
	if withRequirementFiles {
		requirements = config.Sequence(
			config.Mapping(map[string]config.Value{"import": config.String("requirements.txt")}),
			config.Mapping(map[string]config.Value{"import": config.String("requirements.dev.txt")}),
		)
	}
	return config.Mapping(map[string]config.Value{
		"python_version":   config.String(pythonVersion),
		"venv_directory":   config.String(config.DefaultVenvDirectory),
		"env_file":         config.String(config.DefaultEnvFile),
		"pip_install_args": config.Sequence(),
		"virtualenv_args":  config.Sequence(),
		"requirements":     requirements,
	})
}

func encodeConfig(doc config.Value, filename string) ([]byte, error) {
	if strings.HasSuffix(filename, ".json") {
		out, err := format.Render(format.JSON, doc.Interface(), false)
		if err != nil {
			return nil, err
		}
		return []byte(out + "\n"), nil
	}
	return yaml.Marshal(doc.Interface())
}

func newShellCmd(opts *commonOptions) *cobra.Command {
	var keepCurrentDirectory bool
	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start a shell inside the virtual environment",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			workDir := cfg.SourceDirectory()
			if keepCurrentDirectory {
				workDir = ""
			}
			return runner.New(cfg.SourceDirectory()).Handover(cfg, workDir, runner.DetectShell())
		},
	}
	shellCmd.Flags().BoolVarP(&keepCurrentDirectory, "keep-current-directory", "k", false, "do not move into the project directory")
	return shellCmd
}

func newRunCmd(opts *commonOptions) *cobra.Command {
	var keepCurrentDirectory bool
	runCmd := &cobra.Command{
		Use:   "run <command> [args...]",
		Short: "Run a command inside the virtual environment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			workDir := cfg.SourceDirectory()
			if keepCurrentDirectory {
				workDir = ""
			}
			return runner.New(cfg.SourceDirectory()).Handover(cfg, workDir, args[0], args[1:]...)
		},
	}
	runCmd.Flags().BoolVar(&keepCurrentDirectory, "keep-current-directory", false, "do not move into the project directory")
	runCmd.FParseErrWhitelist.UnknownFlags = true
	return runCmd
}
