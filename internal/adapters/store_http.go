package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"msstore-packager/internal/ports"
	"msstore-packager/internal/shared"
	"msstore-packager/internal/types"
)

// HTTPStoreClient talks to the store submission API: it creates a
// submission for the application, uploads package artifacts through a
// bounded worker pool, attaches listing content, and commits.
type HTTPStoreClient struct {
	Endpoint   string
	APIKey     string
	Workers    int
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

const defaultStoreUploadWorkers = 4
const defaultStoreUploadRetries = 3
const defaultStoreRetryDelay = 200 * time.Millisecond
const defaultStoreTimeout = 60 * time.Second
const maxStoreRetryDelay = 2 * time.Second

func NewHTTPStoreClient(endpoint string, apiKey string, workers int, timeoutSec int, retries int, retryDelayMs int) HTTPStoreClient {
	return HTTPStoreClient{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Workers:    normalizeStoreWorkers(workers),
		Timeout:    normalizeStoreTimeout(timeoutSec),
		Retries:    normalizeStoreRetries(retries),
		RetryDelay: normalizeStoreRetryDelay(retryDelayMs),
	}
}

func (c HTTPStoreClient) EnsureApplicationInitialized(ctx context.Context, identity *types.AppIdentity, recover ports.IdentityRecoveryFunc) (types.AppIdentity, error) {
	if identity != nil && identity.HasID() {
		return *identity, nil
	}
	if recover == nil {
		return types.AppIdentity{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no application identity")
	}
	recovered, err := recover(ctx)
	if err != nil {
		return types.AppIdentity{}, err
	}
	if !recovered.HasID() {
		return types.AppIdentity{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no application identity")
	}
	if identity != nil {
		// Keep caller-supplied naming fields, only the id was missing.
		merged := *identity
		merged.ID = recovered.ID
		return merged, nil
	}
	return recovered, nil
}

type submissionRequest struct {
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

type submissionResponse struct {
	ID string `json:"id"`
}

func (c HTTPStoreClient) Publish(ctx context.Context, identity types.AppIdentity, submission ports.SubmissionFunc, outputDir string, packageFiles []string) (int, error) {
	if strings.TrimSpace(c.Endpoint) == "" {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("store endpoint is empty")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("store api key is empty")
	}
	if len(packageFiles) == 0 {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no package files to publish")
	}

	data := submission()
	submissionID, err := c.createSubmission(ctx, identity.ID, data)
	if err != nil {
		return 0, err
	}
	if err := c.uploadPackagesParallel(ctx, identity.ID, submissionID, packageFiles); err != nil {
		return 0, err
	}
	if err := c.commitSubmission(ctx, identity.ID, submissionID); err != nil {
		return 0, err
	}
	return 0, nil
}

func (c HTTPStoreClient) createSubmission(ctx context.Context, appID string, data types.SubmissionData) (string, error) {
	url := fmt.Sprintf("%s/v1.0/my/applications/%s/submissions", c.baseURL(), appID)
	payload, err := json.Marshal(submissionRequest{
		Description: data.Description,
		Images:      data.Images,
	})
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode submission data").
			WithCause(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create submission request").
			WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	client := &http.Client{Timeout: c.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("submission creation failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("submission creation failed").
			WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, string(body)))
	}
	var created submissionResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("submission response is invalid").
			WithCause(err)
	}
	if strings.TrimSpace(created.ID) == "" {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("submission response has no id")
	}
	return created.ID, nil
}

func (c HTTPStoreClient) uploadPackagesParallel(ctx context.Context, appID string, submissionID string, files []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	workerCount := c.Workers
	if len(files) < workerCount {
		workerCount = len(files)
	}
	tasks := make(chan string)
	results := make(chan error, len(files))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for file := range tasks {
				if ctx.Err() != nil {
					results <- ctx.Err()
					continue
				}
				results <- c.uploadPackage(ctx, appID, submissionID, file)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	for _, file := range files {
		tasks <- file
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

func (c HTTPStoreClient) uploadPackage(ctx context.Context, appID string, submissionID string, path string) error {
	var lastErr error
	for attempt := 0; attempt < c.Retries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		retry, err := c.uploadPackageOnce(ctx, appID, submissionID, path)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retry || attempt == c.Retries-1 {
			return err
		}
		time.Sleep(c.retryDelay(attempt))
	}
	return lastErr
}

func (c HTTPStoreClient) uploadPackageOnce(ctx context.Context, appID string, submissionID string, path string) (bool, error) {
	url := fmt.Sprintf("%s/v1.0/my/applications/%s/submissions/%s/packages/%s", c.baseURL(), appID, submissionID, filepath.Base(path))
	file, err := os.Open(path)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to open package artifact").
			WithCause(err)
	}
	defer file.Close()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, file)
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create upload request").
			WithCause(err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	c.authorize(req)

	client := &http.Client{Timeout: c.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return true, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("package upload failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return false, nil
	}
	body, _ := io.ReadAll(resp.Body)
	retry := resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests
	return retry, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("package upload failed").
		WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, string(body)))
}

func (c HTTPStoreClient) commitSubmission(ctx context.Context, appID string, submissionID string) error {
	url := fmt.Sprintf("%s/v1.0/my/applications/%s/submissions/%s/commit", c.baseURL(), appID, submissionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create commit request").
			WithCause(err)
	}
	c.authorize(req)

	client := &http.Client{Timeout: c.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("submission commit failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("submission commit failed").
		WithCause(shared.HTTPStatusErrorWithBody(resp.StatusCode, url, string(body)))
}

func (c HTTPStoreClient) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.APIKey))
}

func (c HTTPStoreClient) baseURL() string {
	return strings.TrimRight(strings.TrimSpace(c.Endpoint), "/")
}

func (c HTTPStoreClient) retryDelay(attempt int) time.Duration {
	delay := c.RetryDelay * time.Duration(1<<attempt)
	if delay > maxStoreRetryDelay {
		delay = maxStoreRetryDelay
	}
	return delay
}

func normalizeStoreWorkers(value int) int {
	if value <= 0 {
		return defaultStoreUploadWorkers
	}
	return value
}

func normalizeStoreTimeout(value int) time.Duration {
	timeout := time.Duration(value) * time.Second
	if timeout <= 0 {
		return defaultStoreTimeout
	}
	return timeout
}

func normalizeStoreRetries(value int) int {
	if value <= 0 {
		return defaultStoreUploadRetries
	}
	return value
}

func normalizeStoreRetryDelay(value int) time.Duration {
	delay := time.Duration(value) * time.Millisecond
	if delay <= 0 {
		return defaultStoreRetryDelay
	}
	return delay
}

var _ ports.StoreClientPort = HTTPStoreClient{}
