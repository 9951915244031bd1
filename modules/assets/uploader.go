package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/url"
	"time"

	"github.com/example/footwear-wholesale/metrics"
	"github.com/valyala/fasthttp"
)

// ErrUploadFailed is returned when the asset host does not return a hosted URL.
var ErrUploadFailed = errors.New("image upload failed")

// UploaderPort uploads images to the asset host.
type UploaderPort interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// Uploader posts images to an image-hosting API as multipart form data.
type Uploader struct {
	client   *fasthttp.Client
	endpoint string
	apiKey   string
	timeout  time.Duration
}

// NewUploader creates an uploader for the given endpoint and API key.
func NewUploader(endpoint, apiKey string, timeout time.Duration) *Uploader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Uploader{
		client: &fasthttp.Client{
			Name:         "footwear-wholesale-assets",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  timeout,
	}
}

type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL        string `json:"url"`
		DisplayURL string `json:"display_url"`
	} `json:"data"`
}

// Upload sends the file in the "image" field and returns the hosted URL.
func (u *Uploader) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	hosted, err := u.upload(ctx, filename, data)
	if err != nil {
		metrics.Uploads.WithLabelValues(metrics.OutcomeFailure).Inc()
		return "", err
	}
	metrics.Uploads.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return hosted, nil
}

func (u *Uploader) upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrUploadFailed)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close form: %w", err)
	}

	target, err := url.Parse(u.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid asset host url: %w", err)
	}
	q := target.Query()
	q.Set("key", u.apiKey)
	target.RawQuery = q.Encode()

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(target.String())
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType(w.FormDataContentType())
	req.SetBody(body.Bytes())

	timeout := u.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := u.client.DoTimeout(req, resp, timeout); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode())
	}

	var parsed uploadResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return "", fmt.Errorf("%w: invalid response: %w", ErrUploadFailed, err)
	}
	hosted := parsed.Data.URL
	if hosted == "" {
		hosted = parsed.Data.DisplayURL
	}
	if hosted == "" {
		return "", fmt.Errorf("%w: response has no url", ErrUploadFailed)
	}
	return hosted, nil
}
