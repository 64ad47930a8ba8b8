package gcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pyy-alt/ppg-admin-sub000/pkg/config"
	"github.com/pyy-alt/ppg-admin-sub000/pkg/logger"
)

const (
	pingTimeout    = 5 * time.Second
	defaultBaseURL = "https://storage.googleapis.com"
)

// ErrObjectNotFound is returned by StatObject when the object does not exist.
var ErrObjectNotFound = errors.New("gcs object not found")

// Client reads object metadata from the JSON API so uploaded photos and
// invoices can be verified before a file asset row is written.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	defaultBucket string
	tokenSource   *tokenSource
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// ObjectAttrs is the subset of object metadata used to verify uploads.
type ObjectAttrs struct {
	Bucket      string
	Name        string
	ContentType string
	Size        int64
	Updated     time.Time
}

func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("gcs bucket name is required")
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	ts, err := tokenSourceFor(httpClient, gcp)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:    httpClient,
		baseURL:       defaultBaseURL,
		defaultBucket: cfg.BucketName,
		tokenSource:   ts,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "gcs client initialized")
	}

	return client, nil
}

func (c *Client) DefaultBucket() string {
	if c == nil {
		return ""
	}
	return c.defaultBucket
}

func (c *Client) Close() error {
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if c.defaultBucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", c.endpoint(), url.PathEscape(c.defaultBucket))
	resp, err := c.get(ctx, u)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError("gcs object check failed", resp)
	}
	return nil
}

// StatObject fetches object metadata. An empty bucket uses the default bucket.
func (c *Client) StatObject(ctx context.Context, bucket, object string) (*ObjectAttrs, error) {
	if c == nil || c.tokenSource == nil {
		return nil, errors.New("gcs client not initialized")
	}
	if bucket == "" {
		bucket = c.defaultBucket
	}
	if strings.TrimSpace(object) == "" {
		return nil, errors.New("object name required")
	}

	u := fmt.Sprintf("%s/storage/v1/b/%s/o/%s", c.endpoint(), url.PathEscape(bucket), url.PathEscape(object))
	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrObjectNotFound
	default:
		return nil, statusError("gcs stat object failed", resp)
	}

	var body struct {
		Bucket      string    `json:"bucket"`
		Name        string    `json:"name"`
		ContentType string    `json:"contentType"`
		Size        string    `json:"size"`
		Updated     time.Time `json:"updated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode object metadata: %w", err)
	}
	size, err := strconv.ParseInt(body.Size, 10, 64)
	if err != nil && body.Size != "" {
		return nil, fmt.Errorf("invalid object size %q: %w", body.Size, err)
	}
	return &ObjectAttrs{
		Bucket:      body.Bucket,
		Name:        body.Name,
		ContentType: body.ContentType,
		Size:        size,
		Updated:     body.Updated,
	}, nil
}

func (c *Client) endpoint() string {
	if c.baseURL == "" {
		return defaultBaseURL
	}
	return strings.TrimRight(c.baseURL, "/")
}

func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return c.httpClient.Do(req)
}

func statusError(prefix string, resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(b) > 0 {
		return fmt.Errorf("%s: %s: %s", prefix, resp.Status, strings.TrimSpace(string(b)))
	}
	return fmt.Errorf("%s: %s", prefix, resp.Status)
}
