package utils

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/MrSnakeDoc/sitemapgen/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0 B", HumanSize(-1))
	assert.Equal(t, "512 B", HumanSize(512))
	assert.Equal(t, "10 MiB", HumanSize(10*1024*1024))
}

func TestKeysAndMap(t *testing.T) {
	keys := Keys(map[string]int{"product": 2, "category": 1})
	sort.Strings(keys)
	assert.Equal(t, []string{"category", "product"}, keys)

	assert.Equal(t, []int{1, 2}, Map([]string{"a", "bb"}, func(s string) int { return len(s) }))
}

func TestCommitFile_ReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	final := filepath.Join(dir, "sitemap.xml")
	require.NoError(t, os.WriteFile(final, []byte("old"), 0o644))

	tmp, err := os.CreateTemp(dir, ".sitemap.xml.*.tmp")
	require.NoError(t, err)
	_, err = tmp.WriteString("new")
	require.NoError(t, err)

	require.NoError(t, CommitFile(tmp, final))

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	_, err = os.Stat(tmp.Name())
	assert.True(t, os.IsNotExist(err))
}

func TestWriteJSONAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meta.json")
	require.NoError(t, WriteJSONAtomic(path, map[string]int{"n": 1}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(data))

	ok, err := FileExists(path)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = FileExists(path + ".tmp")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateFile_MakesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "sitemapgen.yml")
	require.NoError(t, CreateFile(path, []byte("x"), 0o644))
	assert.FileExists(t, path)
}
