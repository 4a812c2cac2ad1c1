package display

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Terminal renders images as 24-bit ANSI half blocks: every character cell
// shows two vertically stacked pixels.
type Terminal struct {
	out    io.Writer
	width  int // character cells
	height int // character rows
}

// NewTerminal creates a renderer bounded to width x height cells. Zero
// values fall back to 80x24.
func NewTerminal(out io.Writer, width, height int) *Terminal {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Terminal{out: out, width: width, height: height}
}

// DisplayBytes decodes data and writes a scaled preview to the terminal.
func (t *Terminal) DisplayBytes(data []byte) error {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	scaled := scaleToFit(img, t.width, t.height*2)

	w := bufio.NewWriter(t.out)
	b := scaled.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			tr, tg, tb := rgb8(scaled, x, y)
			if y+1 < b.Max.Y {
				br, bg, bb := rgb8(scaled, x, y+1)
				fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀", tr, tg, tb, br, bg, bb)
			} else {
				fmt.Fprintf(w, "\x1b[38;2;%d;%d;%dm▀", tr, tg, tb)
			}
		}
		w.WriteString("\x1b[0m\n")
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to display image: %w", err)
	}
	return nil
}

// scaleToFit shrinks img to fit maxW x maxH pixels keeping its aspect ratio.
// Images already inside the box are returned as RGBA without resampling.
func scaleToFit(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}

	nw, nh := w, h
	if nw > maxW {
		nh = nh * maxW / nw
		nw = maxW
	}
	if nh > maxH {
		nw = nw * maxH / nh
		nh = maxH
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	if nw == w && nh == h {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func rgb8(img *image.RGBA, x, y int) (uint8, uint8, uint8) {
	c := img.RGBAAt(x, y)
	return c.R, c.G, c.B
}

// Dimensions reads pixel dimensions from the image header without decoding
// the whole image. Supports png, jpeg, gif and webp.
func Dimensions(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
