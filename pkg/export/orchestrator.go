package export

import (
	"context"
	"encoding/base64"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"archcanvas/pkg/docgen"
	"archcanvas/pkg/errors"
	"archcanvas/pkg/observability"
)

// pngFilename names the locally captured raster export.
const pngFilename = "diagram.png"

// Capturer produces a PNG snapshot of the current diagram.
type Capturer interface {
	Capture(ctx context.Context) ([]byte, error)
}

// Generator produces document bundles from a capture. *docgen.Client
// satisfies this.
type Generator interface {
	Generate(ctx context.Context, req docgen.Request) (docgen.Bundle, error)
}

// Orchestrator runs exports. At most one export is in flight at a time;
// requests arriving while one runs are rejected, not queued.
type Orchestrator struct {
	capturer  Capturer
	generator Generator
	deliverer Deliverer
	busy      atomic.Bool
	logger    *log.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger. Defaults to a discard logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// New creates an export orchestrator.
func New(capturer Capturer, generator Generator, deliverer Deliverer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		capturer:  capturer,
		generator: generator,
		deliverer: deliverer,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Busy reports whether an export is currently in flight.
func (o *Orchestrator) Busy() bool {
	return o.busy.Load()
}

// Export runs one export end to end.
//
// The request is validated before any capture work: an unknown format or a
// missing session id fails without touching the surface. Capture failures
// abort before the generation service is contacted. PNG export delivers the
// capture directly; every other format sends the capture to the generator
// and delivers whichever artifacts the sparse bundle carries.
func (o *Orchestrator) Export(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	if !o.busy.CompareAndSwap(false, true) {
		return Result{}, errors.New(errors.ErrCodeExportBusy, "an export is already running")
	}
	defer o.busy.Store(false)

	observability.Export().OnExportStart(ctx, string(req.Format))
	start := time.Now()

	// On failure the result still lists any artifacts delivered before the
	// error, so callers can report partial output.
	result, err := o.run(ctx, req)
	observability.Export().OnExportComplete(ctx, string(req.Format), len(result.Artifacts), time.Since(start), err)
	if err != nil {
		o.logger.Error("export failed", "format", req.Format, "err", err)
		return result, err
	}

	o.logger.Info("export complete", "format", req.Format, "artifacts", len(result.Artifacts), "duration", time.Since(start))
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, req Request) (Result, error) {
	png, err := o.capturer.Capture(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{Format: req.Format}

	if !req.Format.NeedsGeneration() {
		if err := o.deliver(ctx, &result, pngFilename, png); err != nil {
			return Result{}, err
		}
		return result, nil
	}

	bundle, err := o.generator.Generate(ctx, docgen.Request{
		SessionID:   req.SessionID,
		Format:      generationFormat(req.Format),
		ImageBase64: base64.StdEncoding.EncodeToString(png),
	})
	if err != nil {
		return Result{}, err
	}

	// Artifacts deliver independently; a missing field or a failed write
	// never blocks the others. The result records what actually landed.
	var deliverErr error
	for _, a := range []*docgen.Artifact{bundle.PDF, bundle.Markdown, bundle.DiagramPNG} {
		if a == nil {
			continue
		}
		if err := o.deliver(ctx, &result, a.Filename, a.Data); err != nil {
			o.logger.Warn("artifact delivery failed", "filename", a.Filename, "err", err)
			if deliverErr == nil {
				deliverErr = err
			}
		}
	}
	if deliverErr != nil {
		return result, deliverErr
	}

	if len(result.Artifacts) == 0 {
		return Result{}, errors.New(errors.ErrCodeInternal, "generation service returned an empty bundle")
	}
	return result, nil
}

func (o *Orchestrator) deliver(ctx context.Context, result *Result, filename string, data []byte) error {
	if err := errors.ValidateFilename(filename); err != nil {
		return err
	}
	if err := o.deliverer.Deliver(ctx, filename, data); err != nil {
		return errors.Wrap(errors.ErrCodeDeliveryFailed, err, "deliver %s", filename)
	}
	result.Artifacts = append(result.Artifacts, Delivered{Filename: filename, Size: len(data)})
	return nil
}

// generationFormat maps the export format to the generation service's
// format vocabulary.
func generationFormat(f Format) string {
	switch f {
	case FormatPDF:
		return docgen.FormatPDF
	case FormatMarkdown:
		return docgen.FormatMarkdown
	default:
		return docgen.FormatAll
	}
}
