package report

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestArchiveName(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 16, 9, 5, 7, 123_000_000, time.FixedZone("CEST", 2*60*60))
	name := ArchiveName(now)

	require.Equal(t, "2026-10-16T07-05-07-123Z", name)
	require.False(t, strings.ContainsAny(name, ":."))
}

func TestArchive(t *testing.T) {
	t.Parallel()

	reportDir := t.TempDir()
	writeReportFile(t, reportDir, "index.html", "<html>")
	writeReportFile(t, reportDir, "widgets/summary.json", "{}")

	root := filepath.Join(t.TempDir(), "allure-archive")
	dest, err := Archive(reportDir, root, time.UnixMilli(0))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(root, "1970-01-01T00-00-00-000Z"), dest)

	b, err := os.ReadFile(filepath.Join(dest, "widgets", "summary.json"))
	require.NoError(t, err)
	require.Equal(t, "{}", string(b))

	_, err = Archive(filepath.Join(t.TempDir(), "missing"), root, time.Now())
	require.Error(t, err)
}

func TestPrune_Retention(t *testing.T) {
	t.Parallel()

	const limit = 3

	reportDir := t.TempDir()
	writeReportFile(t, reportDir, "index.html", "<html>")

	root := t.TempDir()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// archive limit+1 times, each snapshot older than the next
	var created []string
	for i := 0; i <= limit; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		dest, err := Archive(reportDir, root, at)
		require.NoError(t, err)
		require.NoError(t, os.Chtimes(dest, at, at))
		created = append(created, dest)
	}

	// a stray file is never counted nor removed
	writeReportFile(t, root, "README", "snapshots")

	removed, err := Prune(root, limit)
	require.NoError(t, err)
	require.Equal(t, []string{created[0]}, removed)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}

	expected := append([]string(nil), created[1:]...)
	sort.Strings(expected)
	if diff := cmp.Diff(expected, dirs); diff != "" {
		t.Errorf("retained mismatch (-want, +got):\n%s", diff)
	}

	require.FileExists(t, filepath.Join(root, "README"))
}

func TestPrune_UsesModTimeNotName(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// names sort opposite to modification times
	names := []string{"c", "b", "a"}
	for i, name := range names {
		pth := filepath.Join(root, name)
		require.NoError(t, os.Mkdir(pth, 0o755))
		at := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(pth, at, at))
	}

	removed, err := Prune(root, 2)
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "c")}, removed)
}

func TestPrune_NoLimit(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"a", "b"} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}

	for _, limit := range []int{0, -1, 2, 5} {
		removed, err := Prune(root, limit)
		require.NoError(t, err)
		require.Empty(t, removed)
	}
}
