package compress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"satchel/internal/classify"
	"satchel/internal/services"
)

// Compressor reduces an image file in place.
type Compressor interface {
	// Compress rewrites path according to the configured budget. It returns
	// true when the file was modified.
	Compress(ctx context.Context, path string) (bool, error)
}

// Options configures the ImageMagick-backed compressor.
type Options struct {
	Binary           string
	Timeout          time.Duration
	MaxSizeKB        int
	ResizeWidth      int
	PreserveMetadata bool
}

// Enabled reports whether any compression pass would run at all.
func (o Options) Enabled() bool {
	return o.MaxSizeKB > 0 || o.ResizeWidth > 0
}

// Tool invokes an ImageMagick-compatible binary to rewrite images.
type Tool struct {
	opts Options
}

// NewTool constructs a Tool. Use New to fall back to a no-op automatically.
func NewTool(opts Options) *Tool {
	if opts.Binary == "" {
		opts.Binary = "magick"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}
	return &Tool{opts: opts}
}

// New returns a Tool when the options enable compression and a no-op
// compressor otherwise.
func New(opts Options) Compressor {
	if !opts.Enabled() {
		return noop{}
	}
	return NewTool(opts)
}

func (t *Tool) Compress(ctx context.Context, path string) (bool, error) {
	if !classify.Compressible(path) {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, services.Wrap(services.ErrTransient, "compress", "stat", path, err)
	}
	underBudget := t.opts.MaxSizeKB <= 0 || info.Size() <= int64(t.opts.MaxSizeKB)*1024
	if underBudget && t.opts.ResizeWidth <= 0 {
		return false, nil
	}

	args := t.args(path, underBudget)
	runCtx := ctx
	if t.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.opts.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(runCtx, t.opts.Binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		detail := fmt.Sprintf("%s: %s", path, strings.TrimSpace(string(output)))
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return false, services.Wrap(services.ErrTimeout, "compress", t.opts.Binary, detail, err)
		}
		return false, services.Wrap(services.ErrExternalTool, "compress", t.opts.Binary, detail, err)
	}
	return true, nil
}

// args builds the mogrify invocation. skipSize elides the size budget pass
// when the file is already small enough.
func (t *Tool) args(path string, skipSize bool) []string {
	args := []string{"mogrify"}
	if !t.opts.PreserveMetadata {
		args = append(args, "-strip")
	}
	if t.opts.ResizeWidth > 0 {
		// The trailing > shrinks only; small images keep their dimensions.
		args = append(args, "-resize", strconv.Itoa(t.opts.ResizeWidth)+"x>")
	}
	if t.opts.MaxSizeKB > 0 && !skipSize {
		args = append(args, "-define", fmt.Sprintf("jpeg:extent=%dkb", t.opts.MaxSizeKB))
	}
	return append(args, path)
}

type noop struct{}

func (noop) Compress(context.Context, string) (bool, error) { return false, nil }
