package poppler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	defaultBinary = "pdftoppm"
	defaultDPI    = 150
)

// Rasterizer renders the leading pages of a PDF to grayscale PNGs by shelling
// out to poppler's pdftoppm. 150 DPI balances recognition accuracy against
// rendering speed for scanned submissions.
type Rasterizer struct {
	binary string
	dpi    int
}

func New(binary string, dpi int) *Rasterizer {
	if binary == "" {
		binary = defaultBinary
	}
	if dpi <= 0 {
		dpi = defaultDPI
	}
	return &Rasterizer{binary: binary, dpi: dpi}
}

func (r *Rasterizer) Rasterize(ctx context.Context, content []byte, maxPages int) ([][]byte, error) {
	if maxPages <= 0 {
		return nil, fmt.Errorf("max pages must be positive, got %d", maxPages)
	}

	dir, err := os.MkdirTemp("", "nca-raster-*")
	if err != nil {
		return nil, fmt.Errorf("create raster workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	source := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(source, content, 0o600); err != nil {
		return nil, fmt.Errorf("write source pdf: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	cmd := exec.CommandContext(ctx, r.binary,
		"-png",
		"-gray",
		"-r", strconv.Itoa(r.dpi),
		"-f", "1",
		"-l", strconv.Itoa(maxPages),
		source,
		prefix,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			return nil, fmt.Errorf("%s: %w", r.binary, err)
		}
		return nil, fmt.Errorf("%s: %w: %s", r.binary, err, detail)
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("list page images: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s produced no page images", r.binary)
	}
	// pdftoppm zero-pads page numbers to a uniform width, so lexical order
	// is page order.
	sort.Strings(matches)

	images := make([][]byte, 0, len(matches))
	for _, path := range matches {
		image, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read page image %s: %w", filepath.Base(path), err)
		}
		images = append(images, image)
	}
	return images, nil
}
