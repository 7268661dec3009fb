package gqlclient

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

	"github.com/dmitrijs2005/receiptscan/internal/models"
)

const defaultTimeout = 30 * time.Second

// HTTPClient executes GraphQL operations over HTTP against one endpoint.
type HTTPClient struct {
	endpointURL string
	httpClient  *http.Client
	creds       CredentialReader
}

// NewHTTPClient builds a client for the given endpoint. The credential
// reader is consulted before every request; timeout bounds each call
// (zero means the default).
func NewHTTPClient(endpointURL string, creds CredentialReader, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPClient{
		endpointURL: endpointURL,
		httpClient:  &http.Client{Timeout: timeout},
		creds:       creds,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type gqlEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	var resp struct {
		Login AuthPayload `json:"login"`
	}
	vars := map[string]any{"email": email, "password": password}
	if err := c.execute(ctx, loginMutation, vars, &resp); err != nil {
		return nil, err
	}
	return &resp.Login, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string) (*AuthPayload, error) {
	var resp struct {
		Register AuthPayload `json:"register"`
	}
	vars := map[string]any{"name": name, "email": email, "password": password}
	if err := c.execute(ctx, registerMutation, vars, &resp); err != nil {
		return nil, err
	}
	return &resp.Register, nil
}

func (c *HTTPClient) UploadReceipt(ctx context.Context, file Upload, category string) (*UploadResult, error) {
	var resp struct {
		UploadReceipt UploadResult `json:"uploadReceipt"`
	}
	vars := map[string]any{"file": nil, "category": optional(category)}
	if err := c.executeMultipart(ctx, uploadReceiptMutation, vars, file, &resp); err != nil {
		return nil, err
	}
	return &resp.UploadReceipt, nil
}

func (c *HTTPClient) Receipts(ctx context.Context, page, limit int, category string) (*models.Page, error) {
	var resp struct {
		Receipts ListResult `json:"receipts"`
	}
	vars := map[string]any{"page": page, "limit": limit, "category": optional(category)}
	if err := c.execute(ctx, receiptsQuery, vars, &resp); err != nil {
		return nil, err
	}
	return &resp.Receipts.Data, nil
}

func (c *HTTPClient) Receipt(ctx context.Context, id string) (*models.Detail, error) {
	var resp struct {
		Receipt DetailResult `json:"receipt"`
	}
	if err := c.execute(ctx, receiptQuery, map[string]any{"id": id}, &resp); err != nil {
		return nil, err
	}
	return &resp.Receipt.Receipt, nil
}

// optional maps the empty string to GraphQL null.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// execute sends a standard JSON GraphQL request.
func (c *HTTPClient) execute(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(req, out)
}

// executeMultipart sends the operation in the GraphQL multipart request
// form: an "operations" field with the document and null-ed file variable,
// a "map" field binding part "0" to variables.file, and the file as part "0".
func (c *HTTPClient) executeMultipart(ctx context.Context, query string, variables map[string]any, file Upload, out any) error {
	operations, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshaling operations: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("operations", string(operations)); err != nil {
		return fmt.Errorf("writing operations field: %w", err)
	}
	if err := w.WriteField("map", `{"0":["variables.file"]}`); err != nil {
		return fmt.Errorf("writing map field: %w", err)
	}

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="0"; filename=%q`, file.Filename))
	h.Set("Content-Type", file.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return fmt.Errorf("writing file part: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, &buf)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, out)
}

// send attaches the bearer credential when one is stored, executes the
// request and decodes the GraphQL envelope into out.
func (c *HTTPClient) send(req *http.Request, out any) error {
	cred, err := c.creds.Load()
	if err != nil {
		return fmt.Errorf("reading credential: %w", err)
	}
	if cred != nil {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Err: fmt.Errorf("reading response: %w", err)}
	}

	var env gqlEnvelope
	decodeErr := json.Unmarshal(body, &env)

	if decodeErr == nil && len(env.Errors) > 0 {
		first := env.Errors[0]
		return &ProtocolError{Message: first.Message, Code: first.Extensions.Code}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("service returned status %d", resp.StatusCode)
		if decodeErr != nil && len(body) > 0 {
			msg = fmt.Sprintf("%s: %s", msg, strings.TrimSpace(string(body)))
		}
		return &ProtocolError{Message: msg}
	}
	if decodeErr != nil {
		return &TransportError{Err: fmt.Errorf("decoding response: %w", decodeErr)}
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &TransportError{Err: fmt.Errorf("decoding data: %w", err)}
		}
	}
	return nil
}
