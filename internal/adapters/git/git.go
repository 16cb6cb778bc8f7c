package git

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
)

// CLIAdapter implements VersionControl by shelling out to git
type CLIAdapter struct {
	dir    string
	remote string
	log    *slog.Logger
}

// NewCLIAdapter creates a git adapter rooted at the project
func NewCLIAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *CLIAdapter {
	return &CLIAdapter{
		dir:    cfg.ProjectRoot,
		remote: "origin",
		log:    log.With("component", "GitAdapter"),
	}
}

func (g *CLIAdapter) run(ctx context.Context, args ...string) (string, error) {
	g.log.Debug("running git", "args", args)
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// CurrentBranch returns the checked out branch
func (g *CLIAdapter) CurrentBranch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Tags lists every tag in the repository
func (g *CLIAdapter) Tags(ctx context.Context) ([]string, error) {
	out, err := g.run(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// ChangedFiles lists paths that differ between ref and the working tree
func (g *CLIAdapter) ChangedFiles(ctx context.Context, ref string) ([]string, error) {
	out, err := g.run(ctx, "diff", "--name-only", ref)
	if err != nil {
		return nil, err
	}
	return lines(out), nil
}

// Status reports branch tracking and modified files
func (g *CLIAdapter) Status(ctx context.Context) (*domain.WorkTreeStatus, error) {
	out, err := g.run(ctx, "status", "--porcelain", "--branch")
	if err != nil {
		return nil, err
	}
	return ParseStatus(out), nil
}

// Fetch updates remote refs
func (g *CLIAdapter) Fetch(ctx context.Context) error {
	_, err := g.run(ctx, "fetch", g.remote)
	return err
}

// ResetHard discards uncommitted changes
func (g *CLIAdapter) ResetHard(ctx context.Context) error {
	_, err := g.run(ctx, "reset", "--hard")
	return err
}

// CommitAll stages and commits every change. Nothing to commit is not an error.
func (g *CLIAdapter) CommitAll(ctx context.Context, message string) error {
	if _, err := g.run(ctx, "add", "--all"); err != nil {
		return err
	}
	staged, err := g.run(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return err
	}
	if strings.TrimSpace(staged) == "" {
		g.log.Debug("nothing to commit")
		return nil
	}
	_, err = g.run(ctx, "commit", "-m", message)
	return err
}

// Tag creates a lightweight tag at HEAD
func (g *CLIAdapter) Tag(ctx context.Context, name string) error {
	_, err := g.run(ctx, "tag", name)
	return err
}

// Push pushes branch to the remote
func (g *CLIAdapter) Push(ctx context.Context, branch string) error {
	_, err := g.run(ctx, "push", g.remote, branch)
	return err
}

// PushTags pushes every tag to the remote
func (g *CLIAdapter) PushTags(ctx context.Context) error {
	_, err := g.run(ctx, "push", "--tags", g.remote)
	return err
}

var branchHeader = regexp.MustCompile(`^## ([^.\s]+)(?:\.\.\.\S+)?(?: \[(.*)\])?`)

// ParseStatus parses `git status --porcelain --branch` output.
func ParseStatus(out string) *domain.WorkTreeStatus {
	status := &domain.WorkTreeStatus{}
	for _, line := range lines(out) {
		if strings.HasPrefix(line, "## ") {
			m := branchHeader.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			status.Branch = m[1]
			for _, part := range strings.Split(m[2], ",") {
				fields := strings.Fields(part)
				if len(fields) != 2 {
					continue
				}
				n, _ := strconv.Atoi(fields[1])
				switch fields[0] {
				case "ahead":
					status.Ahead = n
				case "behind":
					status.Behind = n
				}
			}
			continue
		}
		if len(line) < 4 {
			continue
		}
		path := line[3:]
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+4:]
		}
		status.Files = append(status.Files, path)
	}
	return status
}

func lines(s string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r"); strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// Ensure CLIAdapter implements VersionControl
var _ usecase.VersionControl = (*CLIAdapter)(nil)
