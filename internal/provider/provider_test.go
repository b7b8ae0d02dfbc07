package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/config"
	"github.com/MrSnakeDoc/sitemapgen/internal/errs"
	"github.com/MrSnakeDoc/sitemapgen/internal/logger"
	"github.com/MrSnakeDoc/sitemapgen/internal/models"
	"github.com/MrSnakeDoc/sitemapgen/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func fixed(urls ...string) Func {
	return func(_ context.Context, _ int) ([]models.Item, error) {
		items := make([]models.Item, 0, len(urls))
		for _, u := range urls {
			items = append(items, models.Item{URL: u})
		}
		return items, nil
	}
}

func urlsOf(g Group) []string {
	out := make([]string, 0, len(g.Items))
	for _, it := range g.Items {
		out = append(out, it.URL)
	}
	return out
}

func TestAggregate_GroupsByKeyInRegistrationOrder(t *testing.T) {
	c, err := NewComposite(
		Registration{Key: "product", Provider: fixed("A", "B")},
		Registration{Key: "category", Provider: fixed("D")},
		Registration{Key: "product", Provider: fixed("C")},
		Registration{Key: "page", Provider: fixed()},
	)
	require.NoError(t, err)

	groups, err := c.Aggregate(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	assert.Equal(t, "product", groups[0].Key)
	assert.Equal(t, []string{"A", "B", "C"}, urlsOf(groups[0]))
	assert.Equal(t, "category", groups[1].Key)
	assert.Equal(t, []string{"D"}, urlsOf(groups[1]))
	assert.Equal(t, "page", groups[2].Key)
	assert.Empty(t, groups[2].Items)
}

func TestAggregate_PassesStoreID(t *testing.T) {
	var got int
	c, err := NewComposite(Registration{Key: "page", Provider: Func(func(_ context.Context, id int) ([]models.Item, error) {
		got = id
		return nil, nil
	})})
	require.NoError(t, err)

	_, err = c.Aggregate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestAggregate_FailsFast(t *testing.T) {
	boom := errors.New("catalog offline")
	calls := 0
	counting := func(p ItemProvider) ItemProvider {
		return Func(func(ctx context.Context, id int) ([]models.Item, error) {
			calls++
			return p.Items(ctx, id)
		})
	}

	c, err := NewComposite(
		Registration{Key: "product", Provider: counting(fixed("A"))},
		Registration{Key: "category", Provider: counting(Func(func(context.Context, int) ([]models.Item, error) {
			return nil, boom
		}))},
		Registration{Key: "page", Provider: counting(fixed("P"))},
	)
	require.NoError(t, err)

	groups, err := c.Aggregate(context.Background(), 0)
	require.Error(t, err)
	assert.Nil(t, groups)
	assert.ErrorIs(t, err, boom)
	assert.True(t, errs.Is(err, errs.ProviderFailure))
	assert.Contains(t, err.Error(), "category")
	assert.Equal(t, 2, calls)
}

func TestNewComposite_Rejects(t *testing.T) {
	_, err := NewComposite(Registration{Key: "Product", Provider: fixed()})
	assert.Error(t, err)

	_, err = NewComposite(Registration{Key: "", Provider: fixed()})
	assert.Error(t, err)

	_, err = NewComposite(Registration{Key: "page"})
	assert.Error(t, err)
}

func TestStatic_Items(t *testing.T) {
	s := &Static{URLs: []string{"/", "/about"}, ChangeFrequency: models.ChangeWeekly, Priority: 0.3}
	items, err := s.Items(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "/about", items[1].URL)
	assert.Equal(t, models.ChangeWeekly, items[1].ChangeFrequency)
	assert.InDelta(t, 0.3, items[1].Priority, 1e-9)
}

const productsYAML = `
items:
  - url: /p/1
    updated_at: 2024-05-01T10:00:00Z
    changefreq: Daily
    priority: 0.8
    images:
      - url: /media/1.jpg
        title: One
  - url: /p/2
    updated_at: "2024-05-02 08:30:00"
  - url: /p/3
    store_id: 2
  - url: /p/4
    store_id: 1
    updated_at: 2024-05-04
`

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestYAMLFile_Items(t *testing.T) {
	y := &YAMLFile{Path: writeYAML(t, productsYAML), ChangeFrequency: models.ChangeMonthly, Priority: 0.5}

	items, err := y.Items(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "/p/1", items[0].URL)
	assert.Equal(t, models.ChangeDaily, items[0].ChangeFrequency)
	assert.InDelta(t, 0.8, items[0].Priority, 1e-9)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), items[0].UpdatedAt.UTC())
	require.Len(t, items[0].Images, 1)
	assert.Equal(t, "One", items[0].Images[0].Title)

	assert.Equal(t, models.ChangeMonthly, items[1].ChangeFrequency)
	assert.InDelta(t, 0.5, items[1].Priority, 1e-9)
	assert.Equal(t, time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC), items[1].UpdatedAt)

	assert.Equal(t, "/p/4", items[2].URL)
	assert.Equal(t, time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), items[2].UpdatedAt.UTC())
}

func TestYAMLFile_Errors(t *testing.T) {
	cases := map[string]string{
		"missing url":    "items:\n  - priority: 0.1\n",
		"bad changefreq": "items:\n  - url: /a\n    changefreq: sometimes\n",
		"bad time":       "items:\n  - url: /a\n    updated_at: yesterday\n",
		"not yaml":       "items: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			y := &YAMLFile{Path: writeYAML(t, body)}
			_, err := y.Items(context.Background(), 0)
			assert.Error(t, err)
		})
	}

	_, err := (&YAMLFile{Path: filepath.Join(t.TempDir(), "absent.yml")}).Items(context.Background(), 0)
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	prio := 0.9
	regs, err := FromConfig([]config.ProviderConfig{
		{Key: "page", Type: config.ProviderStatic, URLs: []string{"/"}, ChangeFrequency: "weekly"},
		{Key: "product", Type: config.ProviderYAML, Path: "/tmp/p.yml", Priority: &prio},
		{Key: "category", Type: config.ProviderFeed, URL: "https://catalog.test/c.yml", TimeoutSeconds: 5, MaxBytes: 1024},
	})
	require.NoError(t, err)
	require.Len(t, regs, 3)

	st, ok := regs[0].Provider.(*Static)
	require.True(t, ok)
	assert.InDelta(t, DefaultPriority, st.Priority, 1e-9)
	assert.Equal(t, models.ChangeWeekly, st.ChangeFrequency)

	yf, ok := regs[1].Provider.(*YAMLFile)
	require.True(t, ok)
	assert.Equal(t, "product", regs[1].Key)
	assert.InDelta(t, 0.9, yf.Priority, 1e-9)

	fd, ok := regs[2].Provider.(*Feed)
	require.True(t, ok)
	assert.Equal(t, "https://catalog.test/c.yml", fd.URL)
	assert.Equal(t, int64(1024), fd.MaxBytes)
	require.IsType(t, &service.DefaultHTTPClient{}, fd.Client)
	assert.Equal(t, 5*time.Second, fd.Client.(*service.DefaultHTTPClient).Timeout)

	_, err = FromConfig([]config.ProviderConfig{{Key: "x", Type: "mysql"}})
	assert.Error(t, err)
}

func TestFeed_Items(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`items:
  - url: /c/shoes
    store_id: 2
  - url: /c/hats
    changefreq: daily
`))
	}))
	defer srv.Close()

	f := &Feed{URL: srv.URL + "/categories.yml", Client: service.NewHTTPClient(time.Second), ChangeFrequency: models.ChangeWeekly, Priority: 0.3}

	items, err := f.Items(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "/categories.yml", gotPath)
	require.Len(t, items, 1)
	assert.Equal(t, "/c/hats", items[0].URL)
	assert.Equal(t, models.ChangeDaily, items[0].ChangeFrequency)
	assert.InDelta(t, 0.3, items[0].Priority, 1e-9)

	items, err = f.Items(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, models.ChangeWeekly, items[0].ChangeFrequency)
}

func TestFeed_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken.yml" {
			_, _ = w.Write([]byte("items: ["))
			return
		}
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := service.NewHTTPClient(time.Second)

	_, err := (&Feed{URL: srv.URL + "/items.yml", Client: client}).Items(context.Background(), 1)
	assert.ErrorContains(t, err, "unexpected status 503")

	_, err = (&Feed{URL: srv.URL + "/broken.yml", Client: client}).Items(context.Background(), 1)
	assert.ErrorContains(t, err, "parse")

	_, err = (&Feed{URL: srv.URL + "/broken.yml", Client: client, MaxBytes: 4}).Items(context.Background(), 1)
	assert.ErrorIs(t, err, service.ErrTooLarge)
}
