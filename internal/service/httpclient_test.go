package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/sitemapgen/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.UseTestMode()
	os.Exit(m.Run())
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items.yml":
			_, _ = w.Write([]byte("items: []\n"))
		case "/big.yml":
			_, _ = w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewHTTPClient(time.Second)

	body, err := Fetch(context.Background(), c, srv.URL+"/items.yml", 1024)
	require.NoError(t, err)
	assert.Equal(t, "items: []\n", string(body))

	_, err = Fetch(context.Background(), c, srv.URL+"/big.yml", 16)
	assert.ErrorIs(t, err, ErrTooLarge)

	body, err = Fetch(context.Background(), c, srv.URL+"/big.yml", 64)
	require.NoError(t, err)
	assert.Len(t, body, 64)

	_, err = Fetch(context.Background(), c, srv.URL+"/missing", 0)
	assert.ErrorContains(t, err, "unexpected status 404")
}

func TestNewHTTPClient_DefaultTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewHTTPClient(0).Timeout)
}
