// Package cover produces a still image for a rendered video: the animation
// state at a chosen time, optionally stamped with a QR code linking to the
// published clip.
package cover

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/svg2video/internal/document"
	"github.com/ivlev/svg2video/internal/rasterizer"
	"github.com/ivlev/svg2video/internal/snapshot"
	"github.com/ivlev/svg2video/internal/timeline"
)

type Options struct {
	Raster rasterizer.Options

	// Time selects which animation instant becomes the cover.
	Time float64

	// URL, when set, is rendered as a QR code in the bottom-right corner.
	URL string

	// QRSize is the code's edge length in pixels. Zero picks a tenth of
	// the frame height.
	QRSize int
}

// Generate renders the cover frame.
func Generate(doc *document.Document, tl *timeline.Timeline, opts Options) (*image.RGBA, error) {
	still := snapshot.Snapshot(doc, tl, opts.Time)
	img := rasterizer.Render(still, opts.Raster)

	if opts.URL != "" {
		size := opts.QRSize
		if size <= 0 {
			size = opts.Raster.Height / 10
		}
		qr, err := qrcode.New(opts.URL, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("qr code: %w", err)
		}
		code := qr.Image(size)

		margin := size / 4
		bounds := code.Bounds()
		target := image.Rect(
			opts.Raster.Width-bounds.Dx()-margin,
			opts.Raster.Height-bounds.Dy()-margin,
			opts.Raster.Width-margin,
			opts.Raster.Height-margin,
		)
		draw.Draw(img, target, code, bounds.Min, draw.Over)
	}

	return img, nil
}

// WriteFile renders the cover and saves it as a PNG.
func WriteFile(path string, doc *document.Document, tl *timeline.Timeline, opts Options) error {
	img, err := Generate(doc, tl, opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png encode: %w", err)
	}
	return f.Close()
}
