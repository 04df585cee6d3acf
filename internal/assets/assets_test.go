package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	cases := map[string]string{
		"https://cdn.example/media/p/123.png?width=300": "SKU-1.png",
		"https://cdn.example/media/p/123.JPEG":          "SKU-1.jpeg",
		"https://cdn.example/media/p/123.svg":           "SKU-1.jpg",
		"https://cdn.example/media/p/123":               "SKU-1.jpg",
	}
	for in, want := range cases {
		got, err := FileName(in, "SKU-1")
		require.NoError(t, err)
		assert.Equal(t, want, got, in)
	}

	got, err := FileName("https://cdn.example/a.webp", "../etc/pass wd")
	require.NoError(t, err)
	assert.Equal(t, "___etc_pass_wd.webp", got)
}

func TestFetch(t *testing.T) {
	var (
		mu                sync.Mutex
		gotUA, gotReferer string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotUA, gotReferer = r.UserAgent(), r.Referer()
		mu.Unlock()
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("PNGDATA"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := NewFetcher(config.AssetsConfig{
		Dir:           dir,
		PublicPrefix:  "/images/products/",
		RatePerSecond: 100,
		Burst:         1,
		Timeout:       5 * time.Second,
		UserAgent:     "catalog-sync-test",
		Referer:       "https://portal.example/",
	})

	ref, err := f.Fetch(context.Background(), srv.URL+"/img/1.png?v=3", "100234")
	require.NoError(t, err)
	assert.Equal(t, "/images/products/100234.png", ref)
	mu.Lock()
	assert.Equal(t, "catalog-sync-test", gotUA)
	assert.Equal(t, "https://portal.example/", gotReferer)
	mu.Unlock()

	data, err := os.ReadFile(filepath.Join(dir, "100234.png"))
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.png", "x")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), "", "x")
	assert.ErrorIs(t, err, ErrNoImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}
