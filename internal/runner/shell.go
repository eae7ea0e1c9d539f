package runner

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/LamaAni/yapenv/internal/config"
	"github.com/LamaAni/yapenv/internal/log"
)

var knownShells = map[string]bool{
	"bash": true, "zsh": true, "fish": true, "sh": true, "dash": true, "ksh": true,
}

// DetectShell returns the shell to spawn for `yapenv shell`: $SHELL
// when set, otherwise the nearest ancestor process that looks like a
// shell, otherwise /bin/sh.
func DetectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	pid := os.Getppid()
	for i := 0; i < 8 && pid > 1; i++ {
		proc, err := ps.FindProcess(pid)
		if err != nil || proc == nil {
			break
		}
		name := strings.TrimPrefix(filepath.Base(proc.Executable()), "-")
		if knownShells[name] {
			return name
		}
		pid = proc.PPid()
	}
	return "/bin/sh"
}

// Handover replaces yapenv's role with an interactive command running
// inside the virtual environment: PATH is prefixed with the venv bin
// directory and VIRTUAL_ENV is set, the way an activate script would.
func (r *Runner) Handover(cfg *config.Config, workDir, name string, args ...string) error {
	venv := cfg.VenvPath()
	bin := filepath.Join(venv, "bin")
	if _, err := os.Stat(bin); err != nil {
		return fmt.Errorf("virtual env not found or invalid @ %s", venv)
	}

	env := append(os.Environ(),
		"VIRTUAL_ENV="+venv,
		"PATH="+bin+string(os.PathListSeparator)+os.Getenv("PATH"),
		"YAPENV_SHELL=1",
	)

	log.Debugf("runner[%s]: handover %s %s", r.id, name, strings.Join(args, " "))
	cmd := exec.Command(name, args...)
	cmd.Dir = workDir
	cmd.Env = env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
