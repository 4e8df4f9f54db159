package source_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dsjohal14/fontstack/internal/scope/catalog"
	"github.com/dsjohal14/fontstack/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const familiesJSON = `{"families":[
	{"name":"Droid Sans","slug":"droid-sans","classifications":["sans-serif"],"fvds":["n4","n7"],"subset":"default"},
	{"name":"Abril Fatface","slug":"abril-fatface","classifications":["decorative"],"fvds":["n4"],"subset":"default"}
]}`

var fastRetry = []time.Duration{time.Millisecond, time.Millisecond}

func TestHTTP_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("decodes families from prefix endpoint", func(t *testing.T) {
		t.Parallel()

		var path atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path.Store(r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(familiesJSON))
		}))
		defer server.Close()

		src := source.NewHTTP(server.URL + "/api/v1/")
		fams, err := src.Fetch(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "/api/v1/families", path.Load())
		require.Len(t, fams, 2)
		assert.Equal(t, "droid-sans", fams[0].Slug)
		assert.Equal(t, []string{"n4", "n7"}, fams[0].FVDs)
		assert.Equal(t, "http", src.Name())
	})

	t.Run("retries server errors", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(familiesJSON))
		}))
		defer server.Close()

		src := source.NewHTTP(server.URL+"/", source.WithRetryDelays(fastRetry), source.WithMinInterval(0))
		fams, err := src.Fetch(context.Background())
		require.NoError(t, err)
		assert.Len(t, fams, 2)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("gives up after last retry", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		src := source.NewHTTP(server.URL+"/", source.WithRetryDelays(fastRetry), source.WithMinInterval(0))
		_, err := src.Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 503")
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		src := source.NewHTTP(server.URL+"/", source.WithRetryDelays(fastRetry), source.WithMinInterval(0))
		_, err := src.Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 404")
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("malformed payload is a data error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer server.Close()

		src := source.NewHTTP(server.URL + "/")
		_, err := src.Fetch(context.Background())
		require.ErrorIs(t, err, catalog.ErrInvalidData)
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte(familiesJSON))
		}))
		defer server.Close()

		src := source.NewHTTP(server.URL+"/", source.WithTimeout(10*time.Millisecond), source.WithRetryDelays(nil))
		_, err := src.Fetch(context.Background())
		require.Error(t, err)
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(familiesJSON))
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		src := source.NewHTTP(server.URL+"/", source.WithRetryDelays(fastRetry))
		_, err := src.Fetch(ctx)
		require.Error(t, err)
	})

	t.Run("spaces consecutive fetches", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(familiesJSON))
		}))
		defer server.Close()

		src := source.NewHTTP(server.URL+"/", source.WithMinInterval(150*time.Millisecond))
		begin := time.Now()
		_, err := src.Fetch(context.Background())
		require.NoError(t, err)
		_, err = src.Fetch(context.Background())
		require.NoError(t, err)

		assert.GreaterOrEqual(t, time.Since(begin), 100*time.Millisecond)
	})
}

func TestNewHTTP_DefaultPrefix(t *testing.T) {
	t.Parallel()

	src := source.NewHTTP("")
	assert.Equal(t, source.DefaultAPIPrefix+"families", src.URL())
}
