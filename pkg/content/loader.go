package content

// ARTICLE CONTENT LOADER

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrContentMissing is returned when a content ref no longer resolves to
// readable text (deleted file, 404, unreadable body).
var ErrContentMissing = errors.New("article content missing")

// Loader resolves article content refs. A ref is either a local file path or
// an http(s) URL; the articles table treats it as an opaque locator.
type Loader struct {
	httpClient *http.Client
	logger     *zap.Logger
}

func NewLoader(timeout time.Duration, logger *zap.Logger) *Loader {
	return &Loader{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

func (l *Loader) Load(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return l.loadURL(ctx, ref)
	}
	return l.loadFile(ref)
}

func (l *Loader) loadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", path, ErrContentMissing)
		}
		return "", fmt.Errorf("read content file: %w", err)
	}
	return string(data), nil
}

func (l *Loader) loadURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "text/plain")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", url, ErrContentMissing)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return string(body), nil
}
