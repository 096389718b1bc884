package inkwell

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client is the request pipeline every server call goes through. It reads
// the bearer token from the credential store before each request and unwraps
// the response payload after, so resource wrappers stay declarative.
//
// A 401 response clears the stored credential and fires the rejection hook
// exactly once for that call, then surfaces as a credential-rejected error.
// No status is retried.
type Client struct {
	base       string
	httpClient *http.Client
	store      *CredentialStore
	logger     Logger
	onRejected func()
}

// MultipartUpload describes a single-file multipart request body.
type MultipartUpload struct {
	FieldName string
	FileName  string
	Content   io.Reader
	Fields    map[string]string
}

// NewClient creates a pipeline rooted at baseURL, e.g.
// "http://localhost:8600/api".
func NewClient(baseURL string, store *CredentialStore) *Client {
	return &Client{
		base:       strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      store,
		logger:     defLogger{},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	if client != nil {
		c.httpClient = client
	}
	return c
}

// WithLogger replaces the default logger.
func (c *Client) WithLogger(logger Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// OnCredentialRejected installs the hook invoked when a 401 clears the
// credential. The hook runs after the store is cleared and must not issue
// requests through this client.
func (c *Client) OnCredentialRejected(fn func()) *Client {
	c.onRejected = fn
	return c
}

// Get issues a GET and decodes the payload into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

// Post issues a POST with a JSON body and decodes the payload into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	reader, err := encodeBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, reader, "application/json", out)
}

// Put issues a PUT with a JSON body and decodes the payload into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	reader, err := encodeBody(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, path, reader, "application/json", out)
}

// Delete issues a DELETE and decodes the payload into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

// PostMultipart issues a POST with a multipart body, for file uploads.
func (c *Client) PostMultipart(ctx context.Context, path string, upload MultipartUpload, out any) error {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile(upload.FieldName, upload.FileName)
	if err != nil {
		return newMalformedResponse(err, http.MethodPost, path)
	}
	if _, err := io.Copy(part, upload.Content); err != nil {
		return newMalformedResponse(err, http.MethodPost, path)
	}
	for key, value := range upload.Fields {
		if err := writer.WriteField(key, value); err != nil {
			return newMalformedResponse(err, http.MethodPost, path)
		}
	}
	if err := writer.Close(); err != nil {
		return newMalformedResponse(err, http.MethodPost, path)
	}

	return c.do(ctx, http.MethodPost, path, buf, writer.FormDataContentType(), out)
}

func encodeBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, newMalformedResponse(err, "", "")
	}
	return bytes.NewReader(raw), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return newTransportUnavailable(err, method, path)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	cred, err := c.store.Read(ctx)
	if err != nil {
		c.logger.Debug("credential read failed, sending anonymous request: %v", err)
	}
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("%s %s: transport error: %v", method, path, err)
		return newTransportUnavailable(err, method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportUnavailable(err, method, path)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleRejected(ctx, method, path, data)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(data) == 0 {
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return newMalformedResponse(err, method, path)
		}
		return nil
	}

	detail := serverDetail(data)
	c.logger.Debug("%s %s: rejected with %d: %s", method, path, resp.StatusCode, detail)
	return newOperationRejected(resp.StatusCode, detail, method, path)
}

// handleRejected clears the credential before the hook runs so anything the
// hook triggers already observes the signed-out state.
func (c *Client) handleRejected(ctx context.Context, method, path string, data []byte) error {
	c.logger.Info("credential rejected on %s %s, clearing session", method, path)

	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error("failed to clear rejected credential: %v", err)
	}

	if c.onRejected != nil {
		c.onRejected()
	}

	return newCredentialRejected(serverDetail(data), method, path)
}

// serverDetail extracts the message from an error payload of the form
// {"detail": ...}. Non-string details are rendered as compact JSON.
func serverDetail(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var envelope struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Detail == nil {
		return ""
	}
	if s, ok := envelope.Detail.(string); ok {
		return s
	}
	raw, err := json.Marshal(envelope.Detail)
	if err != nil {
		return ""
	}
	return string(raw)
}
