package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geneai/bddctl/internal/config"
)

func fakeEnv(t *testing.T, env map[string]string) {
	t.Helper()

	prev := lookupEnv
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	t.Cleanup(func() { lookupEnv = prev })
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	code := execute(context.Background())

	return stdout.String(), stderr.String(), code
}

func TestTagsCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPth := filepath.Join(dir, "bddctl.yaml")
	require.NoError(t, os.WriteFile(cfgPth, []byte("profiles:\n  nightly: \"@nightly and not @flaky\"\n"), 0o644))

	testCases := []struct {
		name     string
		env      map[string]string
		args     []string
		expected string
	}{
		{
			name:     "default",
			args:     []string{"tags"},
			expected: "not @ignore",
		},
		{
			name:     "explicit_flag",
			args:     []string{"tags", "--retry", "2", "--tags", "@login"},
			expected: "@login",
		},
		{
			name:     "builtin_profile",
			args:     []string{"tags", "smoke"},
			expected: "@smoke",
		},
		{
			name:     "config_profile",
			env:      map[string]string{config.EnvConfigPath: cfgPth},
			args:     []string{"tags", "-p", "nightly"},
			expected: "@nightly and not @flaky",
		},
		{
			name:     "env_fallback",
			env:      map[string]string{"TAGS": `"@regression"`},
			args:     []string{"tags", "unknown"},
			expected: "@regression",
		},
	}

	for _, tc := range testCases {
		t.Run(
			tc.name, func(t *testing.T) {
				fakeEnv(t, tc.env)

				stdout, stderr, code := run(t, tc.args...)
				require.Zero(t, code, stderr)
				require.Equal(t, tc.expected+"\n", stdout)
			},
		)
	}
}

func TestVersionCommand(t *testing.T) {
	fakeEnv(t, nil)

	stdout, _, code := run(t, "version")
	require.Zero(t, code)
	require.True(t, strings.HasPrefix(stdout, "bddctl version "))
	require.Contains(t, stdout, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	fakeEnv(t, map[string]string{config.EnvBrowser: "netscape"})

	_, _, code := run(t, "@smoke")
	require.Equal(t, 1, code)
}

func writeScript(t *testing.T, pth, body string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(pth), 0o755))
	require.NoError(t, os.WriteFile(pth, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
}

func TestRootCommand_FailedRunBuildsReport(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts stand in for node binaries")
	}

	dir := t.TempDir()
	t.Chdir(dir)
	fakeEnv(t, map[string]string{config.EnvTreatBrokenAsFailed: "1"})

	// the runner records its arguments and leaves one broken result
	writeScript(
		t, filepath.Join(dir, "node_modules", ".bin", "cucumber-js"),
		`echo "$@" > args.txt
echo '{"name":"Ask Gene","status":"broken"}' > allure-results/a-result.json
exit 1`,
	)
	// generate <results> -o <report> --clean
	writeScript(
		t, filepath.Join(dir, "node_modules", ".bin", "allure"),
		`mkdir -p "$4/widgets" && cp "$2"/a-result.json "$4/result-copy.json"`,
	)

	_, stderr, code := run(t, "smoke")
	require.Equal(t, 1, code, stderr)

	args, err := os.ReadFile(filepath.Join(dir, "args.txt"))
	require.NoError(t, err)
	require.Contains(t, string(args), "--tags @smoke")
	require.Contains(t, string(args), "--format allure-cucumberjs/reporter")

	copied, err := os.ReadFile(filepath.Join(dir, "allureReport", "result-copy.json"))
	require.NoError(t, err)
	require.Contains(t, string(copied), `"status":"failed"`, "normalized before generation")

	require.FileExists(t, filepath.Join(dir, "allureReport", "widgets", "launch.json"))
	require.FileExists(t, filepath.Join(dir, "allureReport", "latest-summary.html"))
	require.FileExists(t, filepath.Join(dir, "allure-results", "executor.json"))
	require.Contains(t, stderr, "Some Test(s) failed. Review report.")
}
