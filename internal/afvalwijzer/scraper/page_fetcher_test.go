package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afvalwijzer/internal/common/logger"
)

func TestPageURL(t *testing.T) {
	assert.Equal(t,
		"https://gemeente.groningen.nl/afvalwijzer/groningen/9711AA/1a/2024/",
		PageURL("https://gemeente.groningen.nl/afvalwijzer/groningen/", "9711AA", "1a", 2024))
	assert.Equal(t, "http://x/9711AA/12%2F3/2025/", PageURL("http://x", "9711AA", "12/3", 2025))
}

func TestFetchPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/afvalwijzer/groningen/9711AA/1/2024/", r.URL.Path)
		_, _ = io.WriteString(w, "<table></table>")
	}))
	defer srv.Close()

	f := NewHTTPPageFetcher(srv.URL+"/afvalwijzer/groningen", logger.New(io.Discard))
	page, err := f.FetchPage(context.Background(), "9711AA", "1", 2024)
	require.NoError(t, err)
	assert.Equal(t, "<table></table>", page)
}

func TestFetchPageBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPPageFetcher(srv.URL, logger.New(io.Discard))
	_, err := f.FetchPage(context.Background(), "0000XX", "1", 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadResponse)
	assert.NotErrorIs(t, err, ErrTransport)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Contains(t, err.Error(), "status 404")
}

func TestFetchPageTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	f := NewHTTPPageFetcher(url, logger.New(io.Discard))
	_, err := f.FetchPage(context.Background(), "9711AA", "1", 2024)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.NotErrorIs(t, err, ErrBadResponse)
}

func TestFetchPageCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPPageFetcher(srv.URL, logger.New(io.Discard)).FetchPage(ctx, "9711AA", "1", 2024)
	assert.ErrorIs(t, err, ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
}
