package jmap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/klappstuhl/stalmail/internal/transport"
)

// UploadBlobResult is the server's record of an uploaded blob. BlobID
// feeds attachment references on send and AttachmentURL for downloads.
type UploadBlobResult struct {
	AccountID string `json:"accountId"`
	BlobID    string `json:"blobId"`
	Type      string `json:"type"`
	Size      int64  `json:"size"`
}

// UploadBlob streams r to the account's upload endpoint. An empty
// contentType falls back to application/octet-stream.
func (c *Client) UploadBlob(ctx context.Context, r io.Reader, contentType string) (*UploadBlobResult, error) {
	session, creds, err := c.currentSession()
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadURL := strings.ReplaceAll(session.UploadURL, "{accountId}", session.AccountID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+creds)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &transport.HTTPError{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, transport.NewHTTPError("upload", resp, body)
	}

	var result UploadBlobResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ProtocolError{Expected: "upload response", Got: err.Error()}
	}
	return &result, nil
}

// AttachmentURL expands the session's download URL template for the
// given blob. The filename and content type are percent-encoded into
// the {name} and {type} slots. Returns "" when not authenticated.
func (c *Client) AttachmentURL(blobID, name, contentType string) string {
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session == nil {
		return ""
	}

	u := session.DownloadURL
	u = strings.ReplaceAll(u, "{accountId}", session.AccountID)
	u = strings.ReplaceAll(u, "{blobId}", blobID)
	u = strings.ReplaceAll(u, "{name}", url.PathEscape(name))
	u = strings.ReplaceAll(u, "{type}", url.QueryEscape(contentType))
	return u
}

// DownloadAttachment fetches a blob's content. The caller owns the
// returned ReadCloser.
func (c *Client) DownloadAttachment(ctx context.Context, blobID, name, contentType string) (io.ReadCloser, error) {
	_, creds, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AttachmentURL(blobID, name, contentType), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+creds)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &transport.HTTPError{Op: "download", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, transport.NewHTTPError("download", resp, body)
	}
	return resp.Body, nil
}
