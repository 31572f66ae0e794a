package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(sub, 0o755))

	for _, name := range []string{"a.hcl", "b.txt", "nested/c.hcl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := FindFilesByExtension(dir, ".hcl")
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.True(t, filepath.Ext(f) == ".hcl")
	}
}

func TestFindFilesByExtensionMissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".hcl")
	assert.Error(t, err)
}

func TestFindFilesByExtensionPanicsOnEmptyExtension(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = FindFilesByExtension(".", "")
	})
}

func TestReadList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.txt")
	content := "data/a.json\n\n  data/b.json  \n# a comment\ndata/c.json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := ReadList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"data/a.json", "data/b.json", "data/c.json"}, entries)
}

func TestReadListMissingFile(t *testing.T) {
	_, err := ReadList(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestStemName(t *testing.T) {
	assert.Equal(t, "ngc1234", StemName("data/ngc1234.json"))
	assert.Equal(t, "ngc1234", StemName("/abs/path/ngc1234.fits"))
	assert.Equal(t, "noext", StemName("noext"))
}
