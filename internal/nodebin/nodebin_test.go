package nodebin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	withBin := t.TempDir()
	local := LocalPath(withBin, "cucumber-js")
	require.NoError(t, os.MkdirAll(filepath.Dir(local), 0o755))
	require.NoError(t, os.WriteFile(local, []byte("#!/bin/sh\n"), 0o755))

	testCases := []struct {
		name     string
		dir      string
		expected Command
	}{
		{
			name:     "test_local_binary",
			dir:      withBin,
			expected: Command{Path: local, Args: []string{"--tags", "@smoke"}},
		},
		{
			name:     "test_shim_fallback",
			dir:      t.TempDir(),
			expected: Command{Path: Shim, Args: []string{"cucumber-js", "--tags", "@smoke"}},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(
			tc.name, func(t *testing.T) {
				t.Parallel()

				got := Resolve(tc.dir, "cucumber-js", "--tags", "@smoke")
				if diff := cmp.Diff(tc.expected, got); diff != "" {
					t.Errorf("mismatch (-want, +got):\n%s", diff)
				}
			},
		)
	}
}

func TestCommand_String(t *testing.T) {
	t.Parallel()

	c := Command{Path: "npx", Args: []string{"allure", "generate", "allure-results"}}
	require.Equal(t, "npx allure generate allure-results", c.String())
	require.Equal(t, []string{"npx", "allure", "generate", "allure-results"}, c.Cmd(t.Context()).Args)
}
