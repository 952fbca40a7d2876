package capture

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// RSVGEncoder rasterizes SVG by shelling out to rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVGEncoder struct{}

// EncodePNG converts SVG bytes to PNG at the given scale factor.
// Scale of 2.0 produces a 2x resolution image. PDF output never happens
// here; that document comes from the generation service.
func (RSVGEncoder) EncodePNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("png export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	cmd := exec.CommandContext(ctx, "rsvg-convert", "-f", "png", "-z", fmt.Sprintf("%.2f", scale))
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
