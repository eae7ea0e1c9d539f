package runner

import (
	"github.com/LamaAni/yapenv/internal/config"
	"github.com/LamaAni/yapenv/internal/filesys"
)

// VirtualenvArgs composes the argument list for the virtual-environment
// creation tool: the python selector, any configured extra arguments,
// and the venv path.
func VirtualenvArgs(cfg *config.Config) []string {
	args := []string{"--python", cfg.PythonSelector()}
	args = append(args, cleanArgs(cfg.VirtualenvArgs())...)
	return append(args, cfg.VenvPath())
}

// PipArgs composes the pip install argument list from the flattened
// requirements. When packages is non-empty it is installed instead of
// the configured requirements.
func PipArgs(cfg *config.Config, fsys filesys.ReadFS, packages []string) ([]string, error) {
	specs := packages
	if len(specs) == 0 {
		flattened, err := cfg.FlattenRequirements(fsys)
		if err != nil {
			return nil, err
		}
		specs = flattened
	}
	args := []string{"install"}
	args = append(args, cleanArgs(cfg.PipInstallArgs())...)
	return append(args, cleanArgs(specs)...), nil
}

// cleanArgs drops empty entries so optional config fields never inject
// blank argv elements.
func cleanArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
