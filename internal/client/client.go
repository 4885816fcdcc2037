// Package client provides a Go client for the catalog REST API.
// The session credential is carried in a cookie jar, matching the
// browser app's credentialed requests.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// VehicleModel is a catalog entry as returned by the API.
type VehicleModel struct {
	ID           uint64     `json:"id"`
	Name         string     `json:"name"`
	Price        int64      `json:"price"`
	Year         int64      `json:"year"`
	Power        int64      `json:"power"`
	Battery      int64      `json:"battery"`
	ImageURL     string     `json:"imageUrl"`
	LastEditedAt *time.Time `json:"lastEditedAt,omitempty"`
}

// VehicleModelInput is the payload for creating or updating an entry.
type VehicleModelInput struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Year     int64  `json:"year"`
	Power    int64  `json:"power"`
	Battery  int64  `json:"battery"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// User identifies the authenticated principal.
type User struct {
	UserID uint64 `json:"userId"`
	Login  string `json:"login"`
}

// APIError represents a catalog service error response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog api: %d %s", e.Status, e.Message)
}

// IsUnauthorized reports whether the error is a 401 API response.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusUnauthorized
}

// IsNotFound reports whether the error is a 404 API response.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client calls the catalog service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a catalog client with its own cookie jar.
func NewClient(baseURL string) (*Client, error) {
	jar, errJar := cookiejar.New(nil)
	if errJar != nil {
		return nil, fmt.Errorf("client: new cookie jar: %w", errJar)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
		},
	}, nil
}

// ListModels fetches all catalog entries, optionally filtered by a
// case-insensitive name search.
func (c *Client) ListModels(ctx context.Context, search string) ([]VehicleModel, error) {
	path := c.baseURL + "/models"
	if strings.TrimSpace(search) != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var rows []VehicleModel
	if errDo := c.do(req, &rows); errDo != nil {
		return nil, errDo
	}
	return rows, nil
}

// GetModel fetches one catalog entry by id.
func (c *Client) GetModel(ctx context.Context, id uint64) (VehicleModel, error) {
	path := fmt.Sprintf("%s/models/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return VehicleModel{}, err
	}
	var row VehicleModel
	if errDo := c.do(req, &row); errDo != nil {
		return VehicleModel{}, errDo
	}
	return row, nil
}

// CreateModel creates a catalog entry. Requires an authenticated session.
func (c *Client) CreateModel(ctx context.Context, input VehicleModelInput) (VehicleModel, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, c.baseURL+"/models", input)
	if err != nil {
		return VehicleModel{}, err
	}
	var row VehicleModel
	if errDo := c.do(req, &row); errDo != nil {
		return VehicleModel{}, errDo
	}
	return row, nil
}

// UpdateModel replaces a catalog entry. Requires an authenticated session.
func (c *Client) UpdateModel(ctx context.Context, id uint64, input VehicleModelInput) (VehicleModel, error) {
	path := fmt.Sprintf("%s/models/%d", c.baseURL, id)
	req, err := c.jsonRequest(ctx, http.MethodPut, path, input)
	if err != nil {
		return VehicleModel{}, err
	}
	var row VehicleModel
	if errDo := c.do(req, &row); errDo != nil {
		return VehicleModel{}, errDo
	}
	return row, nil
}

// DeleteModel removes a catalog entry. Requires an authenticated session.
func (c *Client) DeleteModel(ctx context.Context, id uint64) error {
	path := fmt.Sprintf("%s/models/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// loginResponse wraps the user payload returned on login.
type loginResponse struct {
	User User `json:"user"`
}

// Login authenticates and stores the session cookie in the jar.
func (c *Client) Login(ctx context.Context, login, password string) (User, error) {
	payload := map[string]string{"login": login, "password": password}
	req, err := c.jsonRequest(ctx, http.MethodPost, c.baseURL+"/auth/login", payload)
	if err != nil {
		return User{}, err
	}
	var resp loginResponse
	if errDo := c.do(req, &resp); errDo != nil {
		return User{}, errDo
	}
	return resp.User, nil
}

// Logout clears the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// StatusResponse reports the server-side view of the session.
type StatusResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
	User            User `json:"user"`
}

// Status checks whether the stored session credential is still accepted.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/status", nil)
	if err != nil {
		return StatusResponse{}, err
	}
	var resp StatusResponse
	if errDo := c.do(req, &resp); errDo != nil {
		return StatusResponse{}, errDo
	}
	return resp, nil
}

// jsonRequest builds a request with a JSON-encoded body.
func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	encoded, errMarshal := json.Marshal(body)
	if errMarshal != nil {
		return nil, errMarshal
	}
	req, errReq := http.NewRequestWithContext(ctx, method, path, bytes.NewReader(encoded))
	if errReq != nil {
		return nil, errReq
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
