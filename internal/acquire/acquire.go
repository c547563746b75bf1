package acquire

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"kycdocs/constants"
	"kycdocs/internal/common"
)

// Config points at the poppler binaries and the scratch area where page
// renders and region crops are written. Scratch files are swept by the
// server's cleanup job, not by callers.
type Config struct {
	Pdftotext  string
	Pdftoppm   string
	ScratchDir string
}

// Acquirer pulls text and page images out of PDF documents.
type Acquirer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewAcquirer(cfg Config, runner Runner, logger *slog.Logger) *Acquirer {
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = os.TempDir()
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{cfg: cfg, runner: runner, logger: logger}
}

// Probe opens the document and returns its page count. A document that cannot
// be opened fails acquisition for its kind and nothing downstream runs on it.
func (a *Acquirer) Probe(ctx context.Context, path string) (int, error) {
	_ = ctx
	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, common.TagError(common.ErrAcquisition, fmt.Sprintf("unreadable document %s", filepath.Base(path)), err)
	}
	if pages == 0 {
		return 0, common.TagError(common.ErrAcquisition, fmt.Sprintf("document %s has no pages", filepath.Base(path)), nil)
	}
	return pages, nil
}

// EmbeddedText extracts the text layer of every page, preserving layout.
func (a *Acquirer) EmbeddedText(ctx context.Context, path string) (string, error) {
	start := time.Now()

	stdout, _, err := a.runner.Run(ctx, a.cfg.Pdftotext,
		"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", common.TagError(common.ErrAcquisition, "pdftotext failed", err)
	}

	text := string(stdout)
	a.logger.Debug("acquire.text.ok",
		"path", filepath.Base(path),
		"chars", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// RenderPages rasterizes every page to PNG at the given DPI and returns the
// image paths in page order.
func (a *Acquirer) RenderPages(ctx context.Context, path string, dpi int) ([]string, error) {
	if dpi <= 0 {
		dpi = constants.RenderDPI
	}
	start := time.Now()

	dir := filepath.Join(a.cfg.ScratchDir, "pages-"+uuid.New().String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, common.TagError(common.ErrAcquisition, "create render dir", err)
	}
	prefix := filepath.Join(dir, "page")

	_, _, err := a.runner.Run(ctx, a.cfg.Pdftoppm,
		"-r", strconv.Itoa(dpi), "-png", path, prefix)
	if err != nil {
		return nil, common.TagError(common.ErrAcquisition, "pdftoppm failed", err)
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(matches) == 0 {
		return nil, common.TagError(common.ErrAcquisition, "no page images produced", err)
	}
	sort.Strings(matches)

	a.logger.Debug("acquire.render.ok",
		"path", filepath.Base(path),
		"pages", len(matches),
		"dpi", dpi,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return matches, nil
}

// Region crop offsets in PDF points: the value we want sits to the right of
// its label, so the box is widened rightward and padded a little vertically.
const (
	cropPadTop    = 20.0
	cropPadRight  = 350.0
	cropPadBottom = 80.0
)

// LocateAndCrop searches the document's word geometry for any of the anchor
// phrases and renders the padded region around the first hit as a PNG at high
// resolution. A document without any anchor yields an empty path and no error;
// errors are reserved for tool failures.
func (a *Acquirer) LocateAndCrop(ctx context.Context, path string, anchors []string) (string, error) {
	start := time.Now()

	stdout, _, err := a.runner.Run(ctx, a.cfg.Pdftotext, "-bbox", path, "-")
	if err != nil {
		return "", common.TagError(common.ErrAcquisition, "pdftotext -bbox failed", err)
	}
	doc, err := parseBBox(stdout)
	if err != nil {
		return "", common.TagError(common.ErrAcquisition, "bad bbox output", err)
	}

	for pageIdx := range doc.Pages {
		page := &doc.Pages[pageIdx]
		for _, anchor := range anchors {
			r, ok := page.findPhrase(anchor)
			if !ok {
				continue
			}

			r.y0 = max(r.y0-cropPadTop, 0)
			r.x1 = min(r.x1+cropPadRight, page.Width)
			r.y1 = min(r.y1+cropPadBottom, page.Height)

			out, err := a.cropRegion(ctx, path, pageIdx+1, r)
			if err != nil {
				return "", err
			}
			a.logger.Debug("acquire.crop.ok",
				"path", filepath.Base(path),
				"anchor", anchor,
				"page", pageIdx+1,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return out, nil
		}
	}
	a.logger.Debug("acquire.crop.no_anchor",
		"path", filepath.Base(path),
		"anchors", len(anchors),
	)
	return "", nil
}

// cropRegion renders one region of one page. pdftoppm takes the crop window
// in pixels at the render DPI, so point coordinates scale by dpi/72.
func (a *Acquirer) cropRegion(ctx context.Context, path string, page int, r rect) (string, error) {
	scale := float64(constants.CropDPI) / 72.0
	x := int(r.x0 * scale)
	y := int(r.y0 * scale)
	w := int((r.x1 - r.x0) * scale)
	h := int((r.y1 - r.y0) * scale)
	if w <= 0 || h <= 0 {
		return "", common.TagError(common.ErrAcquisition, "degenerate crop region", nil)
	}

	prefix := filepath.Join(a.cfg.ScratchDir, "crop-"+uuid.New().String())
	pg := strconv.Itoa(page)
	_, _, err := a.runner.Run(ctx, a.cfg.Pdftoppm,
		"-f", pg, "-l", pg,
		"-r", strconv.Itoa(constants.CropDPI),
		"-x", strconv.Itoa(x), "-y", strconv.Itoa(y),
		"-W", strconv.Itoa(w), "-H", strconv.Itoa(h),
		"-png", path, prefix)
	if err != nil {
		return "", common.TagError(common.ErrAcquisition, "pdftoppm crop failed", err)
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(matches) == 0 {
		return "", common.TagError(common.ErrAcquisition, "crop image not produced", err)
	}
	return matches[0], nil
}
