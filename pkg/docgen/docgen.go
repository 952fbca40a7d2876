// Package docgen talks to the external documentation-generation service.
// The service takes a session id, a requested format, and a base64 capture
// of the current diagram, and returns a sparse bundle of generated
// artifacts: a PDF report, a Markdown document, a standalone diagram image,
// or any subset depending on the requested format.
package docgen

import (
	"context"
	"net/http"
)

// Artifact formats a caller may request.
const (
	FormatPDF      = "pdf"
	FormatMarkdown = "markdown"
	FormatAll      = "all"
)

// TokenSource supplies the bearer credential for a single request. The
// credential is resolved per request, never cached in the client, so token
// rotation between exports takes effect immediately.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource returning a fixed credential.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// Request is one document-generation call.
type Request struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
	// ImageBase64 is the PNG capture of the current diagram, base64-encoded.
	ImageBase64 string `json:"image_base64"`
}

// NewHTTPClient creates the HTTP client for generation calls. It carries
// no client-side timeout: the generation service owns its own deadline,
// and cancellation comes from the caller's context.
func NewHTTPClient() *http.Client {
	return &http.Client{}
}
