package export

import (
	"context"
	"os"
	"path/filepath"
)

// DirDeliverer writes artifacts into a directory, creating it on first use.
type DirDeliverer struct {
	Dir string
}

// Deliver writes the artifact under the deliverer's directory.
func (d DirDeliverer) Deliver(_ context.Context, filename string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.Dir, filename), data, 0o644)
}
