package sysinfo

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/perfgo/latencylab/model"
)

// GitInfo returns the checked-out commit and branch of the repository
// containing dir. An empty dir means the working directory.
func GitInfo(dir string) (*model.Git, error) {
	commit, err := revParse(dir, "HEAD")
	if err != nil {
		return nil, err
	}
	branch, err := revParse(dir, "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, err
	}
	return &model.Git{Commit: commit, Branch: branch}, nil
}

func revParse(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"rev-parse"}, args...)...)
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}
