// Package catalogclient talks to the storefront API and keeps the shared
// client-side product cache.
package catalogclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/example/footwear-wholesale/domain/product"
	"github.com/example/footwear-wholesale/modules/orders"
	"github.com/valyala/fasthttp"
)

// APIError is a non-2xx response from the storefront API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// QuickOrderResult is the server's answer to a quick order.
type QuickOrderResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"reference"`
	Total     int    `json:"total"`
}

// Client is a typed storefront API client.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	timeout time.Duration
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http: &fasthttp.Client{
			Name:         "shopctl",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

// ListProducts fetches every product.
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/products", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// GetProduct fetches one product.
func (c *Client) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := c.doJSON(ctx, fasthttp.MethodGet, "/api/products/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, fields *product.Fields) (*product.Product, error) {
	var p product.Product
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/products", fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct applies a partial update.
func (c *Client) UpdateProduct(ctx context.Context, id string, patch *product.Patch) (*product.Product, error) {
	var p product.Product
	if err := c.doJSON(ctx, fasthttp.MethodPatch, "/api/products/"+url.PathEscape(id), patch, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, fasthttp.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

// PlaceOrder submits a cart checkout.
func (c *Client) PlaceOrder(ctx context.Context, req *orders.PlaceOrderRequest) error {
	return c.doJSON(ctx, fasthttp.MethodPost, "/api/orders", req, nil)
}

// QuickOrder orders a single product. The server computes the total.
func (c *Client) QuickOrder(ctx context.Context, req *orders.QuickOrderRequest) (*QuickOrderResult, error) {
	var result QuickOrderResult
	if err := c.doJSON(ctx, fasthttp.MethodPost, "/api/quick-order", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Upload sends an image through the server and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close form: %w", err)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, fasthttp.MethodPost, "/api/upload", w.FormDataContentType(), body.Bytes(), &result); err != nil {
		return "", err
	}
	return result.URL, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = data
	}
	return c.do(ctx, method, path, "application/json", body, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	if body != nil {
		req.Header.SetContentType(contentType)
		req.SetBody(body)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	if err := c.http.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if status := resp.StatusCode(); status < 200 || status >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(resp.Body(), &e)
		return &APIError{Status: status, Message: e.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
