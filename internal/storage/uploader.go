package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const uploadTimeout = 5 * time.Minute // video files take a while

// Uploader pushes thumbnail and video files to a bucket-oriented object
// store and hands back public URLs for the catalog records. It is an
// external collaborator: nothing in the sync core depends on it.
type Uploader struct {
	baseURL    string
	apiKey     string
	bucket     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewUploader creates an uploader for one bucket.
func NewUploader(baseURL, apiKey, bucket string, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		bucket:  bucket,
		httpClient: &http.Client{
			Timeout: uploadTimeout,
		},
		logger: logger,
	}
}

func (u *Uploader) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+u.apiKey)
	return req, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet.
// Must be called before the first Upload.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	checkURL := fmt.Sprintf("%s/storage/v1/bucket/%s", u.baseURL, u.bucket)
	req, err := u.newRequest(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return err
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bucket lookup failed: %w", err)
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	if resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("unexpected bucket lookup status: %d", resp.StatusCode)
	}

	u.logger.Info("creating storage bucket", "bucket", u.bucket)

	payload, err := json.Marshal(map[string]any{
		"id":     u.bucket,
		"name":   u.bucket,
		"public": true,
	})
	if err != nil {
		return fmt.Errorf("failed to encode bucket request: %w", err)
	}

	createURL := fmt.Sprintf("%s/storage/v1/bucket", u.baseURL)
	req, err = u.newRequest(ctx, http.MethodPost, createURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err = u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bucket creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bucket creation rejected: status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Upload stores the content under a collision-resistant object name derived
// from filename's extension and returns the public URL.
func (u *Uploader) Upload(ctx context.Context, filename, contentType string, content io.Reader) (string, error) {
	object := uuid.NewString() + strings.ToLower(path.Ext(filename))

	uploadURL := fmt.Sprintf("%s/storage/v1/object/%s/%s", u.baseURL, u.bucket, object)
	req, err := u.newRequest(ctx, http.MethodPost, uploadURL, content)
	if err != nil {
		return "", err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	u.logger.Debug("uploading object", "bucket", u.bucket, "object", object)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload rejected: status %d: %s", resp.StatusCode, string(body))
	}

	url := u.PublicURL(object)
	u.logger.Info("uploaded object", "bucket", u.bucket, "object", object, "url", url)
	return url, nil
}

// PublicURL returns the public download URL for an object in the bucket.
func (u *Uploader) PublicURL(object string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", u.baseURL, u.bucket, object)
}
