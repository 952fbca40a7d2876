// Package capture produces raster snapshots of the interactive graph
// surface for export. A capture renders the current diagram at identity
// transform on a white background at doubled pixel density, with edge-label
// decorations temporarily hidden so exported images show clean connection
// lines.
package capture

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"archcanvas/pkg/errors"
	"archcanvas/pkg/observability"
	"archcanvas/pkg/render"
)

// Capture rendering parameters. Exports double the pixel density so raster
// output stays sharp when embedded in documents.
const (
	PixelScale = 2.0
	Background = "#ffffff"
)

// settleDelay gives in-flight layout animation time to finish before the
// frame is read.
const defaultSettleDelay = 150 * time.Millisecond

// Encoder converts an SVG frame to an encoded raster image.
type Encoder interface {
	// EncodePNG rasterizes the SVG at the given pixel scale.
	EncodePNG(ctx context.Context, svg []byte, scale float64) ([]byte, error)
}

// Unit captures the surface state as a PNG image.
type Unit struct {
	surface *render.Surface
	encoder Encoder
	settle  time.Duration
	logger  *log.Logger
}

// Option configures a capture Unit.
type Option func(*Unit)

// WithEncoder overrides the default librsvg-based encoder.
func WithEncoder(e Encoder) Option {
	return func(u *Unit) { u.encoder = e }
}

// WithSettleDelay overrides the pre-capture settle delay. Zero disables it.
func WithSettleDelay(d time.Duration) Option {
	return func(u *Unit) { u.settle = d }
}

// WithLogger sets the unit logger. Defaults to a discard logger.
func WithLogger(l *log.Logger) Option {
	return func(u *Unit) { u.logger = l }
}

// New creates a capture unit over the given surface.
func New(surface *render.Surface, opts ...Option) *Unit {
	u := &Unit{
		surface: surface,
		encoder: RSVGEncoder{},
		settle:  defaultSettleDelay,
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Capture renders the current diagram to a PNG.
//
// The frame is rendered at identity transform regardless of the user's
// current pan and zoom, on an opaque white background, at doubled pixel
// density. Edge-label decorations are hidden for the duration of the capture
// and restored afterwards whether or not encoding succeeds.
//
// Capturing an empty surface fails without touching decoration state.
func (u *Unit) Capture(ctx context.Context) ([]byte, error) {
	if u.surface.Empty() {
		return nil, errors.New(errors.ErrCodeNoViewport, "nothing to capture: no diagram on the surface")
	}

	observability.Export().OnCaptureStart(ctx)
	start := time.Now()

	prev := u.surface.SetEdgeLabelsHidden(true)
	defer u.surface.SetEdgeLabelsHidden(prev)

	if u.settle > 0 {
		select {
		case <-time.After(u.settle):
		case <-ctx.Done():
			return nil, errors.Wrap(errors.ErrCodeCaptureFailed, ctx.Err(), "capture canceled")
		}
	}

	svg := render.RenderSVG(u.surface.Snapshot(),
		render.WithIdentityTransform(),
		render.WithBackground(Background),
	)

	png, err := u.encoder.EncodePNG(ctx, svg, PixelScale)
	if err != nil {
		wrapped := errors.Wrap(errors.ErrCodeCaptureFailed, err, "encode capture")
		observability.Export().OnCaptureComplete(ctx, 0, time.Since(start), wrapped)
		return nil, wrapped
	}

	u.logger.Debug("captured frame", "bytes", len(png), "duration", time.Since(start))
	observability.Export().OnCaptureComplete(ctx, len(png), time.Since(start), nil)
	return png, nil
}
