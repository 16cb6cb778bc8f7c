package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/creack/pty"
	"github.com/twokey/keybuilder/internal/domain/config"
	"github.com/twokey/keybuilder/internal/usecase"
)

// tailSize is how much trailing output is kept for error messages.
const tailSize = 4096

// RunnerAdapter drives the external compiler/migration runner
type RunnerAdapter struct {
	projectRoot string
	bin         string
	compileArgs []string
	migrateArgs []string
	extraArgs   []string
	submodule   []string
	out         io.Writer
	log         *slog.Logger
}

// NewRunnerAdapter creates a new RunnerAdapter streaming output to stdout
func NewRunnerAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *RunnerAdapter {
	r := cfg.Project.Runner
	return &RunnerAdapter{
		projectRoot: cfg.ProjectRoot,
		bin:         resolveBin(cfg, r.Bin),
		compileArgs: r.CompileArgs,
		migrateArgs: r.MigrateArgs,
		extraArgs:   r.ExtraArgs,
		submodule:   r.SubmoduleCommand,
		out:         os.Stdout,
		log:         log.With("component", "RunnerAdapter"),
	}
}

// Compile compiles the contracts
func (r *RunnerAdapter) Compile(ctx context.Context) error {
	return r.exec(ctx, r.bin, r.compileArgs)
}

// RunMigration runs exactly one migration index on a network
func (r *RunnerAdapter) RunMigration(ctx context.Context, network string, index int, extraArgs []string) error {
	return r.exec(ctx, r.bin, MigrationArgs(r.migrateArgs, network, index, r.extraArgs, extraArgs))
}

// Build runs the submodule build command, if one is configured
func (r *RunnerAdapter) Build(ctx context.Context) error {
	if len(r.submodule) == 0 {
		r.log.Debug("no submodule build command configured")
		return nil
	}
	return r.exec(ctx, r.submodule[0], r.submodule[1:])
}

// MigrationArgs builds the runner arguments for a single migration.
func MigrationArgs(base []string, network string, index int, configured, extra []string) []string {
	idx := strconv.Itoa(index)
	args := append([]string(nil), base...)
	args = append(args, "--f", idx, "--to", idx, "--network", network)
	args = append(args, configured...)
	return append(args, extra...)
}

func (r *RunnerAdapter) exec(ctx context.Context, bin string, args []string) error {
	start := time.Now()
	r.log.Debug("running", "bin", bin, "args", args, "dir", r.projectRoot)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = r.projectRoot
	cmd.Env = os.Environ()

	tail := &tailBuffer{max: tailSize}

	// PTY keeps the runner's colored output
	ptyFile, err := pty.Start(cmd)
	if err != nil {
		r.log.Debug("pty unavailable, using pipes", "error", err)
		cmd = exec.CommandContext(ctx, bin, args...)
		cmd.Dir = r.projectRoot
		cmd.Env = os.Environ()
		cmd.Stdout = io.MultiWriter(r.out, tail)
		cmd.Stderr = io.MultiWriter(r.out, tail)
		if err := cmd.Run(); err != nil {
			return r.failure(bin, args, err, tail, start)
		}
		return nil
	}
	defer func() {
		_ = ptyFile.Close()
	}()

	// Reading the pty returns EIO once the child exits
	_, _ = io.Copy(io.MultiWriter(r.out, tail), ptyFile)

	if err := cmd.Wait(); err != nil {
		return r.failure(bin, args, err, tail, start)
	}
	r.log.Debug("completed", "bin", bin, "duration", time.Since(start))
	return nil
}

func (r *RunnerAdapter) failure(bin string, args []string, err error, tail *tailBuffer, start time.Time) error {
	r.log.Error("command failed", "bin", bin, "error", err, "duration", time.Since(start))
	return fmt.Errorf("%s %s failed: %w\nOutput: %s", bin, strings.Join(args, " "), err, tail.String())
}

func resolveBin(cfg *config.RuntimeConfig, bin string) string {
	if strings.ContainsRune(bin, os.PathSeparator) {
		return cfg.Path(bin)
	}
	return bin
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf.Write(p)
	if over := t.buf.Len() - t.max; over > 0 {
		t.buf.Next(over)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	return strings.TrimSpace(t.buf.String())
}

// Ensure RunnerAdapter implements the runner ports
var (
	_ usecase.MigrationRunner  = (*RunnerAdapter)(nil)
	_ usecase.SubmoduleBuilder = (*RunnerAdapter)(nil)
)
