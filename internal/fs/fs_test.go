package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyDir(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "copy")

	require.NoError(t, os.MkdirAll(filepath.Join(src, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "top.json"), []byte(`{"a":1}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a", "b", "deep.txt"), []byte("deep"), 0o644))

	// a link back to the root would loop forever if it were followed
	require.NoError(t, os.Symlink(src, filepath.Join(src, "a", "loop")))

	require.NoError(t, CopyDir(src, dst))

	b, err := os.ReadFile(filepath.Join(dst, "top.json"))
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(b))

	b, err = os.ReadFile(filepath.Join(dst, "a", "b", "deep.txt"))
	require.NoError(t, err)
	require.Equal(t, "deep", string(b))

	info, err := os.Lstat(filepath.Join(dst, "a", "loop"))
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSymlink)
}

func TestCopyDir_Merge(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(src, "new.json"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "old.json"), []byte("old"), 0o644))

	require.NoError(t, CopyDir(src, dst))
	require.True(t, Exists(filepath.Join(dst, "old.json")))
	require.True(t, Exists(filepath.Join(dst, "new.json")))
}

func TestCopyDir_NotDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	require.Error(t, CopyDir(file, filepath.Join(dir, "out")))
	require.Error(t, CopyDir(filepath.Join(dir, "missing"), filepath.Join(dir, "out")))
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	pth := filepath.Join(t.TempDir(), "v.json")
	require.NoError(t, WriteJSON(pth, map[string]int{"total": 2}))

	b, err := os.ReadFile(pth)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"total\": 2\n}", string(b))

	var out map[string]int
	require.NoError(t, ReadJSON(pth, &out))
	require.Equal(t, 2, out["total"])

	require.NoError(t, os.WriteFile(pth, []byte("{"), 0o644))
	require.Error(t, ReadJSON(pth, &out))
}
