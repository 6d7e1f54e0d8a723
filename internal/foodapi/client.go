package foodapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/foodmenu/internal/model"
)

const defaultTimeout = 10 * time.Second

// Config holds the remote foods resource settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// StatusError is returned when the remote resource answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("foods API %s %s returned status %d", e.Method, e.Path, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the remote resource.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Client talks to the remote foods collection.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the foods resource rooted at cfg.BaseURL.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// createRequest is the POST body; available is always sent.
type createRequest struct {
	model.FoodDraft
	Available bool `json:"available"`
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Food, error) {
	var foods []model.Food
	if _, err := c.do(ctx, http.MethodGet, "foods", nil, &foods); err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []model.Food{}
	}
	return foods, nil
}

// Create posts a new item marked available and returns the stored item with
// its server-assigned id.
func (c *Client) Create(ctx context.Context, d model.FoodDraft) (model.Food, error) {
	var created model.Food
	if _, err := c.do(ctx, http.MethodPost, "foods", createRequest{FoodDraft: d, Available: true}, &created); err != nil {
		return model.Food{}, err
	}
	return created, nil
}

// Replace sends the full representation of f to foods/{id}. An empty
// response body yields f unchanged.
func (c *Client) Replace(ctx context.Context, f model.Food) (model.Food, error) {
	var updated model.Food
	decoded, err := c.do(ctx, http.MethodPut, foodPath(f.ID), f, &updated)
	if err != nil {
		return model.Food{}, err
	}
	if !decoded {
		return f, nil
	}
	return updated, nil
}

// Delete removes foods/{id}. Any response body is ignored.
func (c *Client) Delete(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, foodPath(id), nil, nil)
	return err
}

func foodPath(id int64) string {
	return "foods/" + strconv.FormatInt(id, 10)
}

// do performs the request and decodes a JSON body into out when one is
// present. It reports whether anything was decoded.
func (c *Client) do(ctx context.Context, method, path string, in, out any) (bool, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return false, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+path, body)
	if err != nil {
		return false, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("foods API %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return false, &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return true, nil
}
