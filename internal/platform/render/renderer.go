package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Renderer turns an HTML file into a PDF file.
type Renderer interface {
	// RenderPDF renders htmlPath to pdfPath. A nil error means pdfPath
	// exists and is complete.
	RenderPDF(ctx context.Context, htmlPath, pdfPath string) error
	// Name identifies the renderer in report metadata.
	Name() string
}

// CommandRenderer shells out to an external HTML-to-PDF command, appending
// the input and output paths as the final two arguments. The command is
// killed when the timeout elapses.
type CommandRenderer struct {
	command string
	args    []string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewCommandRenderer splits cmdline on whitespace into command and leading
// arguments. An empty cmdline yields nil: PDF rendering is disabled and
// reports degrade to HTML.
func NewCommandRenderer(cmdline string, timeout time.Duration, logger zerolog.Logger) *CommandRenderer {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil
	}
	return &CommandRenderer{
		command: fields[0],
		args:    fields[1:],
		timeout: timeout,
		logger:  logger.With().Str("component", "pdf-renderer").Logger(),
	}
}

func (r *CommandRenderer) Name() string { return r.command }

func (r *CommandRenderer) RenderPDF(ctx context.Context, htmlPath, pdfPath string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := append(append([]string{}, r.args...), htmlPath, pdfPath)
	cmd := exec.CommandContext(ctx, r.command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.logger.Error().Err(err).Str("output", string(out)).Msg("pdf renderer failed")
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("pdf renderer timed out after %s", r.timeout)
		}
		return fmt.Errorf("pdf renderer: %w", err)
	}
	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("pdf renderer exited cleanly but produced no output file: %w", err)
	}
	return nil
}

// Result describes the artifact a report generation produced. Format is
// "pdf" on full success and "html" when the PDF step failed and the HTML
// document stands in for it.
type Result struct {
	File     string
	Path     string
	Format   string
	Renderer string
	Status   string
}
