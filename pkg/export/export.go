// Package export coordinates the full export flow: validate the request,
// capture the current diagram, hand the capture to the documentation
// generator when the format needs one, and deliver the resulting artifacts
// as files. One export runs at a time.
package export

import (
	"context"

	"archcanvas/pkg/errors"
)

// Format identifies an export output.
type Format string

const (
	// FormatPNG is a raster snapshot of the diagram alone. It is produced
	// locally and never touches the generation service.
	FormatPNG Format = "png"

	// FormatPDF is a generated PDF report.
	FormatPDF Format = "pdf"

	// FormatMarkdown is a generated Markdown document.
	FormatMarkdown Format = "markdown"

	// FormatAll requests every artifact the generator can produce.
	FormatAll Format = "all"
)

// ParseFormat validates a caller-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatPDF, FormatMarkdown, FormatAll:
		return Format(s), nil
	case "":
		return "", errors.New(errors.ErrCodeInvalidFormat, "export format is required")
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format %q (want png, pdf, markdown, or all)", s)
	}
}

// NeedsGeneration reports whether the format requires the documentation
// generator. PNG export is served entirely from the local capture.
func (f Format) NeedsGeneration() bool {
	return f != FormatPNG
}

// Request is one export invocation.
type Request struct {
	SessionID string
	Format    Format
}

// Validate checks the request before any capture work starts.
func (r Request) Validate() error {
	if _, err := ParseFormat(string(r.Format)); err != nil {
		return err
	}
	if err := errors.ValidateSessionID(r.SessionID); err != nil {
		return err
	}
	return nil
}

// Delivered describes one artifact written by the deliverer.
type Delivered struct {
	Filename string `json:"filename"`
	Size     int    `json:"size"`
}

// Result summarizes a completed export.
type Result struct {
	Format    Format      `json:"format"`
	Artifacts []Delivered `json:"artifacts"`
}

// Deliverer hands a finished artifact to the user. Implementations decide
// what "download" means: a directory write, an HTTP attachment, a stream.
type Deliverer interface {
	Deliver(ctx context.Context, filename string, data []byte) error
}
