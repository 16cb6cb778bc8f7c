package git

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/domain/config"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want *domain.WorkTreeStatus
	}{
		{
			name: "clean and in sync",
			out:  "## develop...origin/develop\n",
			want: &domain.WorkTreeStatus{Branch: "develop"},
		},
		{
			name: "behind with changes",
			out: "## staging...origin/staging [behind 3]\n" +
				" M 2key-protocol/dist/index.js\n" +
				"?? contracts/2key/singleton-contracts/TwoKeyNew.sol\n",
			want: &domain.WorkTreeStatus{
				Branch: "staging",
				Behind: 3,
				Files: []string{
					"2key-protocol/dist/index.js",
					"contracts/2key/singleton-contracts/TwoKeyNew.sol",
				},
			},
		},
		{
			name: "ahead and behind",
			out:  "## master...origin/master [ahead 1, behind 2]\n",
			want: &domain.WorkTreeStatus{Branch: "master", Ahead: 1, Behind: 2},
		},
		{
			name: "no upstream",
			out:  "## feature\n",
			want: &domain.WorkTreeStatus{Branch: "feature"},
		},
		{
			name: "rename reports the new path",
			out:  "## develop\nR  old.sol -> contracts/new.sol\n",
			want: &domain.WorkTreeStatus{Branch: "develop", Files: []string{"contracts/new.sol"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.out))
		})
	}
}

func TestLines(t *testing.T) {
	assert.Equal(t, []string{"v1.0.0-develop", "v1.0.1-develop"}, lines("v1.0.0-develop\r\n\nv1.0.1-develop\n  \n"))
	assert.Nil(t, lines(""))
}

// newTestRepo initializes a repository with one committed file
func newTestRepo(t *testing.T) (*CLIAdapter, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	t.Setenv("GIT_AUTHOR_NAME", "keybuilder")
	t.Setenv("GIT_AUTHOR_EMAIL", "keybuilder@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "keybuilder")
	t.Setenv("GIT_COMMITTER_EMAIL", "keybuilder@example.com")

	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "--quiet"},
		{"config", "commit.gpgsign", "false"},
	} {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	path := filepath.Join(dir, "contracts_deployed-develop.json")
	require.NoError(t, os.WriteFile(path, []byte("committed"), 0644))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := NewCLIAdapter(&config.RuntimeConfig{ProjectRoot: dir}, log)
	require.NoError(t, adapter.CommitAll(context.Background(), "initial"))
	return adapter, path
}

func TestResetHard(t *testing.T) {
	t.Run("discards tracked changes", func(t *testing.T) {
		adapter, path := newTestRepo(t)
		require.NoError(t, os.WriteFile(path, []byte("dirty after failed deploy"), 0644))

		require.NoError(t, adapter.ResetHard(context.Background()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "committed", string(data))
	})

	t.Run("runs on a context detached from an expired deadline", func(t *testing.T) {
		adapter, path := newTestRepo(t)
		require.NoError(t, os.WriteFile(path, []byte("dirty after failed deploy"), 0644))

		expired, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
		defer cancel()
		<-expired.Done()

		// The expired context alone cannot run git at all
		assert.Error(t, adapter.ResetHard(expired))

		require.NoError(t, adapter.ResetHard(context.WithoutCancel(expired)))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "committed", string(data))
	})
}
