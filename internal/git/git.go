package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Branch returns the current branch name of the working directory's repo.
func Branch() (string, error) {
	return revParse("--abbrev-ref", "HEAD")
}

// Commit returns the short hash of the current HEAD commit.
func Commit() (string, error) {
	return revParse("--short", "HEAD")
}

// Describe returns branch and commit, substituting "unknown" when the
// repository state cannot be read. Trace metadata must never fail over git.
func Describe() (branch, commit string) {
	branch, commit = "unknown", "unknown"
	if b, err := Branch(); err == nil {
		branch = b
	}
	if c, err := Commit(); err == nil {
		commit = c
	}
	return branch, commit
}

func revParse(args ...string) (string, error) {
	cmd := exec.Command("git", append([]string{"rev-parse"}, args...)...)
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
