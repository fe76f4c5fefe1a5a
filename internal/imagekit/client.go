// Package imagekit is a minimal client for the ImageKit media API, used to
// store product images outside the database.
package imagekit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

var (
	ErrUploadFailed = errors.New("image upload failed")
	ErrDeleteFailed = errors.New("image delete failed")
)

// UploadResult identifies a stored image
type UploadResult struct {
	URL    string `json:"url"`
	FileID string `json:"fileId"`
}

// Client talks to the ImageKit upload API
type Client struct {
	privateKey string
	uploadURL  string
	httpClient *http.Client
}

// New creates an ImageKit client. uploadURL is the API base, e.g.
// https://upload.imagekit.io/api/v1/files
func New(privateKey, uploadURL string) *Client {
	return &Client{
		privateKey: privateKey,
		uploadURL:  uploadURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// authHeader builds the basic auth header ImageKit expects: the private
// key as username with an empty password.
func (c *Client) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(c.privateKey+":"))
}

// Upload stores an image and returns its URL and file id. The image is
// sent as a base64 data URL in a multipart form.
func (c *Client) Upload(ctx context.Context, data []byte, mimeType, fileName string) (*UploadResult, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("file", dataURL); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.WriteField("fileName", fileName); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.WriteField("useUniqueFileName", "false"); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+"/upload", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	return &result, nil
}

// Delete removes a stored image by file id
func (c *Client) Delete(ctx context.Context, fileID string) error {
	url := fmt.Sprintf("%s/%s/delete", c.uploadURL, fileID)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: status %d", ErrDeleteFailed, resp.StatusCode)
	}

	return nil
}
