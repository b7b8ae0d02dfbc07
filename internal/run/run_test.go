package run

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.BaseURL = "https://shop.test"
	cfg.OutputDir = filepath.Join(t.TempDir(), "public")
	cfg.Metadata.Driver = driver
	cfg.Limits.MaxLines = 2
	cfg.Providers = []config.ProviderConfig{
		{Key: "product", Type: config.ProviderStatic, URLs: []string{"/p/a", "/p/b", "/p/c"}},
		{Key: "category", Type: config.ProviderStatic, URLs: []string{"/c/d"}},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

type spyRecorder struct {
	runs    []bool
	files   map[string]int
	elapsed time.Duration
}

func (s *spyRecorder) ObserveRun(d time.Duration, ok bool) {
	s.runs = append(s.runs, ok)
	s.elapsed = d
}

func (s *spyRecorder) AddFiles(g string, n int) { s.files[g] += n }
func (s *spyRecorder) AddRows(string, int)      {}

func TestGenerate_WritesFilesAndRecord(t *testing.T) {
	for _, driver := range []string{config.DriverJSON, config.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)

			res, err := Generate(context.Background(), cfg, Options{})
			require.NoError(t, err)
			assert.Equal(t, []string{"sitemap-product.1.xml", "sitemap-product.2.xml", "sitemap-category.xml"}, res.Record.Files)

			for _, name := range append(res.Record.Files, "sitemap.xml") {
				assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
			}
			assert.NoFileExists(t, cfg.LockPath())

			st, err := store.Open(driver, cfg.MetadataPath())
			require.NoError(t, err)
			defer func() { _ = st.Close() }()

			latest, err := st.Latest(context.Background())
			require.NoError(t, err)
			assert.Equal(t, res.Record.ID, latest.ID)
			assert.Equal(t, res.Record.Files, latest.Files)
		})
	}
}

func TestGenerate_StoreIDOverride(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	itemsFile := filepath.Join(t.TempDir(), "items.yml")
	require.NoError(t, os.WriteFile(itemsFile, []byte(`items:
  - url: /en/p/1
    store_id: 1
  - url: /fr/p/1
    store_id: 2
  - url: /shared
`), 0o644))
	cfg.Providers = []config.ProviderConfig{{Key: "product", Type: config.ProviderYAML, Path: itemsFile}}

	id := 2
	res, err := Generate(context.Background(), cfg, Options{StoreID: &id})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Record.StoreID)

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "sitemap-product.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "https://shop.test/fr/p/1")
	assert.Contains(t, string(data), "https://shop.test/shared")
	assert.NotContains(t, string(data), "/en/p/1")
}

func TestGenerate_LockHeld(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)

	held, err := AcquireLock(cfg.LockPath())
	require.NoError(t, err)
	defer func() { _ = held.Release() }()

	res, err := Generate(context.Background(), cfg, Options{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrLocked)
	assert.True(t, errs.Is(err, errs.RunLocked))
	assert.Contains(t, err.Error(), cfg.LockPath())
	assert.NoFileExists(t, filepath.Join(cfg.OutputDir, "sitemap.xml"))
	assert.FileExists(t, cfg.LockPath(), "a refused run must not remove someone else's lock")
}

func TestGenerate_FailureReleasesLockAndRecordsMetrics(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	cfg.Providers = append(cfg.Providers, config.ProviderConfig{
		Key: "cms", Type: config.ProviderYAML, Path: filepath.Join(t.TempDir(), "missing.yml"),
	})
	spy := &spyRecorder{files: map[string]int{}}
	metricsFile := filepath.Join(t.TempDir(), "sitemapgen.prom")

	_, err := Generate(context.Background(), cfg, Options{Recorder: spy, MetricsFile: metricsFile})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ProviderFailure))

	assert.NoFileExists(t, cfg.LockPath())
	assert.Equal(t, []bool{false}, spy.runs)
	assert.Empty(t, spy.files)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sitemapgen_runs_total{outcome="failed"} 1`)
}

func TestGenerate_SuccessMetrics(t *testing.T) {
	cfg := testConfig(t, config.DriverJSON)
	spy := &spyRecorder{files: map[string]int{}}
	metricsFile := filepath.Join(t.TempDir(), "sitemapgen.prom")

	_, err := Generate(context.Background(), cfg, Options{Recorder: spy, MetricsFile: metricsFile})
	require.NoError(t, err)

	assert.Equal(t, []bool{true}, spy.runs)
	assert.Equal(t, map[string]int{"product": 2, "category": 1}, spy.files)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `sitemapgen_runs_total{outcome="success"} 1`)
	assert.Contains(t, string(data), `sitemapgen_files_total{group="product"} 2`)
}

func TestLock_ExclusiveAndReleasable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".sitemap.lock")

	l, err := AcquireLock(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.Path())

	_, err = AcquireLock(path)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, l.Release())
	require.NoError(t, l.Release())

	l2, err := AcquireLock(path)
	require.NoError(t, err)
	require.NoError(t, l2.Release())
}
