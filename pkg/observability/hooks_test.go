package observability

import (
	"context"
	"testing"
	"time"
)

type recordingExportHooks struct {
	captures int
	exports  int
}

func (r *recordingExportHooks) OnCaptureStart(context.Context) { r.captures++ }
func (r *recordingExportHooks) OnCaptureComplete(context.Context, int, time.Duration, error) {
}
func (r *recordingExportHooks) OnExportStart(context.Context, string) { r.exports++ }
func (r *recordingExportHooks) OnExportComplete(context.Context, string, int, time.Duration, error) {
}

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()
	ctx := context.Background()

	// None of these should panic.
	Surface().OnDiagramReplaced(ctx, 3, 2)
	Surface().OnNodeActivated(ctx, "api")
	Surface().OnNodeDeleteRequested(ctx, "api")
	Export().OnCaptureStart(ctx)
	Export().OnCaptureComplete(ctx, 0, 0, nil)
	Export().OnExportStart(ctx, "pdf")
	Export().OnExportComplete(ctx, "pdf", 1, 0, nil)
	HTTP().OnRequest(ctx, "POST", "docgen.internal", "/generate")
	HTTP().OnResponse(ctx, "POST", "docgen.internal", "/generate", 200, 0)
	HTTP().OnError(ctx, "POST", "docgen.internal", "/generate", nil)
}

func TestSetExportHooks(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recordingExportHooks{}
	SetExportHooks(rec)

	ctx := context.Background()
	Export().OnCaptureStart(ctx)
	Export().OnExportStart(ctx, "markdown")
	Export().OnExportStart(ctx, "pdf")

	if rec.captures != 1 {
		t.Errorf("captures = %d, want 1", rec.captures)
	}
	if rec.exports != 2 {
		t.Errorf("exports = %d, want 2", rec.exports)
	}
}

func TestSetNilHookIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	SetExportHooks(nil)
	if Export() == nil {
		t.Fatal("Export() should never return nil")
	}
}
