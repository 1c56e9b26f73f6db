package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/afvalwijzer/internal/common/logger"
)

const (
	httpTimeout = 30 * time.Second
	// Collection pages are a few hundred KB at most.
	maxPageBytes = 4 << 20
)

type HTTPPageFetcher struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func NewHTTPPageFetcher(baseURL string, logger logger.Logger) *HTTPPageFetcher {
	return &HTTPPageFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: httpTimeout,
		},
		logger: logger,
	}
}

// PageURL builds <base>/<postcode>/<streetNumber>/<year>/.
func PageURL(baseURL, postcode, streetNumber string, year int) string {
	return fmt.Sprintf("%s/%s/%s/%d/",
		strings.TrimRight(baseURL, "/"),
		url.PathEscape(postcode),
		url.PathEscape(streetNumber),
		year)
}

func (f *HTTPPageFetcher) FetchPage(ctx context.Context, postcode, streetNumber string, year int) (string, error) {
	pageURL := PageURL(f.baseURL, postcode, streetNumber, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", &FetchError{Kind: ErrTransport, URL: pageURL, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "text/html")

	f.logger.Debug("Fetching collection page", "url", pageURL)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("Failed to execute request", "url", pageURL, "error", err)
		return "", &FetchError{Kind: ErrTransport, URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Error("Collection page returned error status",
			"status_code", resp.StatusCode,
			"url", pageURL)
		return "", &FetchError{Kind: ErrBadResponse, URL: pageURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", &FetchError{Kind: ErrTransport, URL: pageURL, Err: fmt.Errorf("reading body: %w", err)}
	}

	f.logger.Debug("Collection page fetched", "url", pageURL, "size_bytes", len(body))

	return string(body), nil
}
