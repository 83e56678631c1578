package adapters

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ndkports/internal/shared"
)

const defaultHTTPTimeout = 10 * time.Minute
const defaultHTTPRetries = 3
const defaultHTTPRetryDelay = 500 * time.Millisecond
const maxHTTPRetryDelay = 5 * time.Second

type httpRetryConfig struct {
	timeout   time.Duration
	retries   int
	baseDelay time.Duration
}

func normalizeHTTPConfig(timeoutSec int, retries int, delayMs int) httpRetryConfig {
	timeout := time.Duration(timeoutSec) * time.Second
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	retryCount := retries
	if retryCount <= 0 {
		retryCount = defaultHTTPRetries
	}
	baseDelay := time.Duration(delayMs) * time.Millisecond
	if baseDelay <= 0 {
		baseDelay = defaultHTTPRetryDelay
	}
	return httpRetryConfig{
		timeout:   timeout,
		retries:   retryCount,
		baseDelay: baseDelay,
	}
}

// Fetch downloads http(s) URLs into destDir, reusing a previous download
// whose checksum still matches. Anything else is treated as a local path.
func (a SourceAdapter) Fetch(ctx context.Context, rawURL string, checksum string, destDir string) (string, error) {
	location := strings.TrimSpace(rawURL)
	if location == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("source url is empty")
	}
	parsed, err := url.Parse(location)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid source url").
			WithCause(err)
	}
	switch parsed.Scheme {
	case "http", "https":
	case "file":
		return a.localArchive(parsed.Path, checksum)
	default:
		return a.localArchive(location, checksum)
	}

	name := path.Base(parsed.Path)
	if name == "" || name == "." || name == "/" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("cannot derive archive name from %s", location))
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create download directory").
			WithCause(err)
	}
	target := filepath.Join(destDir, name)
	if _, err := os.Stat(target); err == nil && strings.TrimSpace(checksum) != "" {
		if verifyChecksum(target, checksum) == nil {
			log.Ctx(ctx).Debug().Str("archive", target).Msg("reusing downloaded source")
			return target, nil
		}
	}

	cfg := a.HTTP
	if cfg.retries <= 0 {
		cfg = normalizeHTTPConfig(0, 0, 0)
	}
	log.Ctx(ctx).Info().Str("url", location).Msg("downloading source")
	resp, err := doRequest(ctx, location, cfg)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to download source").
			WithCause(shared.HTTPStatusError(resp.StatusCode, location))
	}

	tmp := target + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create download file").
			WithCause(err)
	}
	_, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(tmp)
		cause := copyErr
		if cause == nil {
			cause = closeErr
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write download").
			WithCause(cause)
	}
	if strings.TrimSpace(checksum) != "" {
		if err := verifyChecksum(tmp, checksum); err != nil {
			_ = os.Remove(tmp)
			return "", err
		}
	}
	if err := os.Rename(tmp, target); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to store download").
			WithCause(err)
	}
	return target, nil
}

func (a SourceAdapter) localArchive(archivePath string, checksum string) (string, error) {
	abs, err := filepath.Abs(archivePath)
	if err != nil {
		abs = archivePath
	}
	if _, err := os.Stat(abs); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("source archive not found").
			WithCause(err)
	}
	if strings.TrimSpace(checksum) != "" {
		if err := verifyChecksum(abs, checksum); err != nil {
			return "", err
		}
	}
	return abs, nil
}

func verifyChecksum(archivePath string, expected string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open archive for checksum").
			WithCause(err)
	}
	defer file.Close()
	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to hash archive").
			WithCause(err)
	}
	actual := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("checksum mismatch for %s: expected %s, got %s", filepath.Base(archivePath), expected, actual))
	}
	return nil
}

func doRequest(ctx context.Context, location string, cfg httpRetryConfig) (*http.Response, error) {
	client := &http.Client{Timeout: cfg.timeout}
	var lastErr error
	for attempt := 0; attempt < cfg.retries; attempt++ {
		if ctx.Err() != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request canceled").
				WithCause(ctx.Err())
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create request").
				WithCause(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("request canceled").
					WithCause(ctx.Err())
			}
			lastErr = err
			if attempt < cfg.retries-1 {
				sleepContext(ctx, httpRetryDelay(attempt, cfg))
				continue
			}
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request failed").
				WithCause(err)
		}
		if (resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests) && attempt < cfg.retries-1 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			sleepContext(ctx, httpRetryDelay(attempt, cfg))
			continue
		}
		return resp, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("request failed")
	}
	return nil, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("request failed").
		WithCause(lastErr)
}

func httpRetryDelay(attempt int, cfg httpRetryConfig) time.Duration {
	delay := cfg.baseDelay * time.Duration(1<<attempt)
	if delay > maxHTTPRetryDelay {
		delay = maxHTTPRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
