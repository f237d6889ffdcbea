package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/TETRIX8/youtubesave/internal/domain"
)

// apiClient talks to a running youtubesave server
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		// no overall timeout, downloads can take minutes
		http: &http.Client{},
	}
}

// apiError is the {"error": ...} body every endpoint returns on failure
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func decodeError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &apiError{Status: resp.StatusCode, Message: msg}
}

func (c *apiClient) getJSON(path string, out interface{}) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *apiClient) Info(videoURL string) (*domain.VideoMetadata, error) {
	data, _ := json.Marshal(map[string]string{"url": videoURL})
	resp, err := c.http.Post(c.baseURL+"/api/info", "application/json", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var meta domain.VideoMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// Download streams the attachment into dir and returns the written path
func (c *apiClient) Download(videoURL, formatID, dir string) (string, int64, error) {
	q := url.Values{"url": {videoURL}, "format_id": {formatID}}
	resp, err := c.http.Get(c.baseURL + "/download?" + q.Encode())
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, decodeError(resp)
	}

	name := attachmentName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = "download-" + formatID
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, err
	}

	tmp, err := os.CreateTemp(dir, ".youtubesave-*")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return "", 0, fmt.Errorf("failed to write download: %w", err)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return "", 0, fmt.Errorf("incomplete download: got %d of %d bytes", n, resp.ContentLength)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", 0, err
	}
	return path, n, nil
}

// historyList mirrors the GET /api/history response
type historyList struct {
	Entries []domain.HistoryEntry `json:"entries"`
	Count   int                   `json:"count"`
}

func (c *apiClient) History(limit int) (*historyList, error) {
	var list historyList
	if err := c.getJSON("/api/history?limit="+strconv.Itoa(limit), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *apiClient) Stats() (*domain.HistoryStats, error) {
	var stats domain.HistoryStats
	if err := c.getJSON("/api/history/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *apiClient) Health() (map[string]interface{}, error) {
	var health map[string]interface{}
	if err := c.getJSON("/health", &health); err != nil {
		return nil, err
	}
	return health, nil
}

// attachmentName extracts a safe base filename from a Content-Disposition header
func attachmentName(header string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return name
}
