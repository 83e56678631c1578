package adapters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"ndkports/internal/ports"
	"ndkports/internal/types"
)

// MavenRepoHTTPAdapter uploads artifacts to a remote maven repository with
// plain HTTP PUTs, the way Nexus, Artifactory and ProGet maven feeds accept
// them.
type MavenRepoHTTPAdapter struct {
	Endpoint   string
	Username   string
	APIKey     string
	Workers    int
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	Client     *http.Client
}

const defaultMavenUploadWorkers = 4
const defaultMavenUploadRetries = 3
const defaultMavenRetryDelay = 200 * time.Millisecond
const defaultMavenTimeout = 60 * time.Second
const maxMavenRetryDelay = 2 * time.Second

func NewMavenRepoHTTPAdapter(endpoint string, username string, apiKey string, workers int, timeoutSec int, retries int, retryDelayMs int) MavenRepoHTTPAdapter {
	return MavenRepoHTTPAdapter{
		Endpoint:   endpoint,
		Username:   username,
		APIKey:     apiKey,
		Workers:    normalizeMavenWorkers(workers),
		Timeout:    normalizeMavenTimeout(timeoutSec),
		Retries:    normalizeMavenRetries(retries),
		RetryDelay: normalizeMavenRetryDelay(retryDelayMs),
	}
}

type mavenUpload struct {
	url  string
	path string
}

func (a MavenRepoHTTPAdapter) Publish(ctx context.Context, artifacts []types.MavenArtifact) error {
	endpoint := strings.TrimRight(strings.TrimSpace(a.Endpoint), "/")
	if endpoint == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("maven repository url is empty")
	}
	var uploads []mavenUpload
	for _, artifact := range artifacts {
		dir, err := mavenArtifactPath(artifact)
		if err != nil {
			return err
		}
		for _, file := range artifact.Files {
			uploads = append(uploads, mavenUpload{
				url:  fmt.Sprintf("%s/%s/%s", endpoint, dir, filepath.Base(file)),
				path: file,
			})
		}
	}
	return a.uploadParallel(ctx, uploads)
}

func (a MavenRepoHTTPAdapter) uploadParallel(ctx context.Context, uploads []mavenUpload) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	workerCount := normalizeMavenWorkers(a.Workers)
	if len(uploads) < workerCount {
		workerCount = len(uploads)
	}
	if workerCount == 0 {
		return nil
	}
	tasks := make(chan mavenUpload)
	results := make(chan error, len(uploads))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for upload := range tasks {
				if ctx.Err() != nil {
					results <- ctx.Err()
					continue
				}
				results <- a.uploadFile(ctx, upload)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	for _, upload := range uploads {
		tasks <- upload
	}
	close(tasks)

	var firstErr error
	for err := range results {
		if err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}

// uploadFile sends the file followed by its .sha1 checksum.
func (a MavenRepoHTTPAdapter) uploadFile(ctx context.Context, upload mavenUpload) error {
	data, err := os.ReadFile(upload.path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("failed to read artifact %s", filepath.Base(upload.path))).
			WithCause(err)
	}
	sum, err := fileSHA1(upload.path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to checksum artifact").
			WithCause(err)
	}
	if err := a.put(ctx, upload.url, data); err != nil {
		return err
	}
	if err := a.put(ctx, upload.url+".sha1", []byte(sum)); err != nil {
		return err
	}
	log.Ctx(ctx).Debug().Str("url", upload.url).Msg("uploaded artifact")
	return nil
}

func (a MavenRepoHTTPAdapter) put(ctx context.Context, url string, data []byte) error {
	retries := normalizeMavenRetries(a.Retries)
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		retry, err := a.putOnce(ctx, url, data)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == retries-1 {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.retryDelay(attempt)):
		}
	}
	return lastErr
}

func (a MavenRepoHTTPAdapter) putOnce(ctx context.Context, url string, data []byte) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create maven upload request").
			WithCause(err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if strings.TrimSpace(a.APIKey) != "" {
		user := strings.TrimSpace(a.Username)
		if user == "" {
			user = "api"
		}
		req.SetBasicAuth(user, a.APIKey)
	}
	resp, err := a.client().Do(req)
	if err != nil {
		return true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("maven upload failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}
	body, _ := io.ReadAll(resp.Body)
	message := strings.TrimSpace(string(body))
	if (resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusBadRequest) &&
		strings.Contains(strings.ToLower(message), "already") {
		return false, nil
	}
	retry := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
	return retry, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("maven upload failed").
		WithCause(fmt.Errorf("status=%d url=%s response=%s", resp.StatusCode, url, message))
}

func (a MavenRepoHTTPAdapter) client() *http.Client {
	if a.Client != nil {
		return a.Client
	}
	return &http.Client{Timeout: normalizeMavenTimeout(int(a.Timeout / time.Second))}
}

func (a MavenRepoHTTPAdapter) retryDelay(attempt int) time.Duration {
	delay := a.RetryDelay * time.Duration(1<<attempt)
	if delay <= 0 {
		delay = defaultMavenRetryDelay
	}
	if delay > maxMavenRetryDelay {
		delay = maxMavenRetryDelay
	}
	jitter := time.Duration(time.Now().UnixNano() % int64(delay/2+1))
	return delay + jitter
}

func normalizeMavenWorkers(value int) int {
	if value <= 0 {
		return defaultMavenUploadWorkers
	}
	return value
}

func normalizeMavenTimeout(value int) time.Duration {
	timeout := time.Duration(value) * time.Second
	if timeout <= 0 {
		return defaultMavenTimeout
	}
	return timeout
}

func normalizeMavenRetries(value int) int {
	if value <= 0 {
		return defaultMavenUploadRetries
	}
	return value
}

func normalizeMavenRetryDelay(value int) time.Duration {
	delay := time.Duration(value) * time.Millisecond
	if delay <= 0 {
		return defaultMavenRetryDelay
	}
	return delay
}

var _ ports.MavenRepoPort = MavenRepoHTTPAdapter{}
