// Package runner drives the external tools that materialize a resolved
// configuration: the virtual-environment creator, the package installer
// and interactive shells. The configuration core hands it nothing but
// argument lists and paths.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/LamaAni/yapenv/internal/config"
	"github.com/LamaAni/yapenv/internal/log"
)

// Runner executes external commands for one resolved configuration.
// Every invocation is tagged with a short correlation id so interleaved
// debug logs from a single yapenv run can be told apart.
type Runner struct {
	dir string
	id  string
}

// New creates a runner working in dir.
func New(dir string) *Runner {
	return &Runner{dir: dir, id: uuid.NewString()[:8]}
}

// Run executes name with args in the runner's directory, streaming the
// child's stdout and stderr through line-buffered pumps so partial
// lines from the two pipes never interleave.
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	log.Debugf("runner[%s]: exec %s %s", r.id, name, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir
	cmd.Stdin = os.Stdin

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", name, err)
	}

	var eg errgroup.Group
	eg.Go(func() error { return pump(stdout, os.Stdout) })
	eg.Go(func() error { return pump(stderr, os.Stderr) })
	pumpErr := eg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if pumpErr != nil {
		return pumpErr
	}
	log.Debugf("runner[%s]: %s done", r.id, name)
	return nil
}

func pump(src io.Reader, dst io.Writer) error {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fmt.Fprintln(dst, scanner.Text())
	}
	return scanner.Err()
}

// CreateVirtualenv runs the virtualenv module for the configuration and
// links the configured pip.conf into the new environment when set.
func (r *Runner) CreateVirtualenv(ctx context.Context, cfg *config.Config) error {
	log.Infof("creating virtualenv @ %s", cfg.VenvPath())
	args := append([]string{"-m", "virtualenv"}, VirtualenvArgs(cfg)...)
	if err := r.Run(ctx, pythonCommand(), args...); err != nil {
		return err
	}
	if cfg.PipConfigPath() == "" {
		return nil
	}
	src := cfg.ResolveFromSource(cfg.PipConfigPath())
	if _, err := os.Stat(src); err != nil {
		log.Warnf("pip_config_path not found @ %s, skipping link", src)
		return nil
	}
	dst := cfg.ResolveFromVenv("pip.conf")
	if err := os.Symlink(src, dst); err != nil {
		return fmt.Errorf("linking pip.conf: %w", err)
	}
	log.Infof("linked %s -> %s", dst, src)
	return nil
}

// PipInstall runs pip install inside the virtual environment using the
// flattened requirement specifiers (or the given packages).
func (r *Runner) PipInstall(ctx context.Context, cfg *config.Config, packages []string) error {
	if len(packages) == 0 {
		specs, err := cfg.FlattenRequirements(nil)
		if err != nil {
			return err
		}
		if len(specs) == 0 {
			return fmt.Errorf("no requirements found in config, nothing to install")
		}
	}
	args, err := PipArgs(cfg, nil, packages)
	if err != nil {
		return err
	}
	log.Infof("running pip install in venv @ %s", cfg.VenvPath())
	return r.Run(ctx, cfg.ResolveFromVenv("bin", "pip"), args...)
}

func pythonCommand() string {
	if exe := os.Getenv("YAPENV_PYTHON"); exe != "" {
		return exe
	}
	return "python3"
}
