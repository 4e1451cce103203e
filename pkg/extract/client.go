package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/artem13815/careerdesk/pkg/desk"
)

// Path is the extraction endpoint relative to the base URL.
const Path = "/extract-resume-text"

// maxResponseBytes bounds the decoded response body.
const maxResponseBytes = 32 << 20

// Client posts resume files to a remote extraction service. It makes exactly
// one request per call and never retries.
type Client struct {
	BaseURL string
	httpDo  *http.Client
}

// New returns a client for baseURL. timeout <= 0 keeps the transport default (no deadline).
func New(baseURL string, timeout time.Duration) *Client {
	c := &http.Client{}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), httpDo: c}
}

// Error is a non-successful extraction answer.
type Error struct {
	Status int
	// Message from the server's "detail" field, may be empty.
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("extraction failed with status code %d", e.Status)
}

// Detail implements desk.Detailer.
func (e *Error) Detail() string { return e.Message }

type extractResponse struct {
	ResumeText string `json:"resume_text"`
	Detail     string `json:"detail"`
}

// Extract implements desk.Extractor.
func (c *Client) Extract(ctx context.Context, f desk.File) (string, error) {
	body, contentType, err := encodeFile(f)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+Path, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out extractResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{Status: resp.StatusCode, Message: out.Detail}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("decode extraction response: %w", decodeErr)
	}
	if out.ResumeText == "" && out.Detail != "" {
		return "", &Error{Status: resp.StatusCode, Message: out.Detail}
	}
	return out.ResumeText, nil
}

func encodeFile(f desk.File) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(f.Name)))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }
