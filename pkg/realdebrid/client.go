// Package realdebrid is a thin client for the Real-Debrid REST API. It
// performs no retries and no validation; callers decide policy.
package realdebrid

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gostremiobr/gostremiobr/pkg/httputil"
)

const defaultBaseURL = "https://api.real-debrid.com/rest/1.0"

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL points the client at an alternate API root.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		httpClient: httputil.NewHTTPClient(60 * time.Second),
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// APIError carries the HTTP status and the Real-Debrid error payload.
type APIError struct {
	StatusCode int
	Code       int    `json:"error_code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("real-debrid: status %d, code %d: %s", e.StatusCode, e.Code, e.Message)
}

// AddMagnetResponse is the payload of POST /torrents/addMagnet.
type AddMagnetResponse struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// TorrentInfoResponse is the payload of GET /torrents/info/{id}.
type TorrentInfoResponse struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	Hash     string  `json:"hash"`
	Bytes    int64   `json:"bytes"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
	Files    []struct {
		ID       int    `json:"id"`
		Path     string `json:"path"`
		Bytes    int64  `json:"bytes"`
		Selected int    `json:"selected"`
	} `json:"files"`
	Links []string `json:"links"`
}

// TorrentListItem is one entry of GET /torrents.
type TorrentListItem struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	Hash     string  `json:"hash"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

// UnrestrictResponse is the payload of POST /unrestrict/link.
type UnrestrictResponse struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Filesize int64  `json:"filesize"`
	Download string `json:"download"`
}

func (c *Client) AddMagnet(apiKey, magnetURI string) (*AddMagnetResponse, error) {
	form := url.Values{}
	form.Set("magnet", magnetURI)

	var result AddMagnetResponse
	if err := c.postForm(apiKey, "/torrents/addMagnet", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) TorrentInfo(apiKey, torrentID string) (*TorrentInfoResponse, error) {
	var result TorrentInfoResponse
	if err := c.get(apiKey, "/torrents/info/"+url.PathEscape(torrentID), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SelectFiles marks files for retrieval. fileIDs is a comma-separated id
// list or "all". Real-Debrid answers 202 when the selection was already
// made; that is reported as success.
func (c *Client) SelectFiles(apiKey, torrentID, fileIDs string) error {
	form := url.Values{}
	form.Set("files", fileIDs)
	return c.postForm(apiKey, "/torrents/selectFiles/"+url.PathEscape(torrentID), form, nil)
}

func (c *Client) UnrestrictLink(apiKey, link string) (*UnrestrictResponse, error) {
	form := url.Values{}
	form.Set("link", link)

	var result UnrestrictResponse
	if err := c.postForm(apiKey, "/unrestrict/link", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListTorrents(apiKey string, limit int) ([]TorrentListItem, error) {
	var result []TorrentListItem
	path := fmt.Sprintf("/torrents?limit=%d", limit)
	if err := c.get(apiKey, path, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Client) get(apiKey, path string, result interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(apiKey, req, result)
}

func (c *Client) postForm(apiKey, path string, form url.Values, result interface{}) error {
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(apiKey, req, result)
}

func (c *Client) do(apiKey string, req *http.Request, result interface{}) error {
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if result == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
