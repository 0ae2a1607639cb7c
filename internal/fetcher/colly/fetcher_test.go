package collyfetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ferit-stup/radovi-crawler/internal/crawler"
)

func TestFetchReturnsBodyAndSendsHeaders(t *testing.T) {
	t.Parallel()

	var gotUA, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotReferer = r.Header.Get("Referer")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	f := New(Config{
		UserAgent: "radovi-agent",
		Referer:   "https://stup.ferit.hr/",
		Timeout:   5 * time.Second,
	})

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, body, "ok")
	assert.Equal(t, "radovi-agent", gotUA)
	assert.Equal(t, "https://stup.ferit.hr/", gotReferer)
}

func TestFetchFollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/target", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("landed"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/target", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	body, err := New(Config{Timeout: 5 * time.Second}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "landed", body)
}

func TestFetchStatusError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(Config{Timeout: 5 * time.Second}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var statusErr *crawler.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, srv.URL, statusErr.URL)
}

func TestFetchTransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(Config{Timeout: 2 * time.Second}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var transportErr *crawler.TransportError
	assert.ErrorAs(t, err, &transportErr)
}

func TestFetchSequentialRequestsReuseFetcher(t *testing.T) {
	t.Parallel()

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("page"))
	}))
	defer srv.Close()

	f := New(Config{Timeout: 5 * time.Second})
	for i := 0; i < 3; i++ {
		body, err := f.Fetch(context.Background(), srv.URL+"/listing")
		require.NoError(t, err)
		assert.Equal(t, "page", body)
	}
	assert.Equal(t, 3, hits, "cloned collectors must allow revisiting the same URL")
}
