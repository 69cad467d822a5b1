package components

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/mmcdole/pixfind/internal/tui/styles"
)

const (
	upperHalfBlock = "▀"
	ansiReset      = "\033[0m"
)

// RenderImage draws img as truecolor half blocks in a cols x rows cell box,
// two pixels per cell vertically. The image is centered; cells outside it
// are blank. img is expected to be pre-scaled to fit cols x rows*2 pixels.
func RenderImage(img image.Image, cols, rows int) string {
	if img == nil || cols <= 0 || rows <= 0 {
		return RenderPlaceholder(cols, rows)
	}

	b := img.Bounds()
	offX := (cols - b.Dx()) / 2
	offY := (rows*2 - b.Dy()) / 2

	pixel := func(x, y int) (color.RGBA, bool) {
		px, py := x-offX, y-offY
		if px < 0 || py < 0 || px >= b.Dx() || py >= b.Dy() {
			return color.RGBA{}, false
		}
		return color.RGBAModel.Convert(img.At(b.Min.X+px, b.Min.Y+py)).(color.RGBA), true
	}

	var out strings.Builder
	for row := 0; row < rows; row++ {
		for x := 0; x < cols; x++ {
			top, hasTop := pixel(x, row*2)
			bottom, hasBottom := pixel(x, row*2+1)

			switch {
			case hasTop && hasBottom:
				fmt.Fprintf(&out, "\033[38;2;%d;%d;%dm\033[48;2;%d;%d;%dm%s%s",
					top.R, top.G, top.B, bottom.R, bottom.G, bottom.B, upperHalfBlock, ansiReset)
			case hasTop:
				fmt.Fprintf(&out, "\033[38;2;%d;%d;%dm%s%s", top.R, top.G, top.B, upperHalfBlock, ansiReset)
			case hasBottom:
				fmt.Fprintf(&out, "\033[38;2;%d;%d;%dm▄%s", bottom.R, bottom.G, bottom.B, ansiReset)
			default:
				out.WriteByte(' ')
			}
		}
		if row < rows-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

// RenderPlaceholder draws the fixed lazy-load thumbnail: a shaded frame
func RenderPlaceholder(cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}

	lines := make([]string, rows)
	for row := 0; row < rows; row++ {
		var line strings.Builder
		for x := 0; x < cols; x++ {
			if row == 0 || row == rows-1 || x == 0 || x == cols-1 {
				line.WriteString("▒")
			} else {
				line.WriteString("░")
			}
		}
		lines[row] = styles.PlaceholderStyle.Render(line.String())
	}
	return strings.Join(lines, "\n")
}
