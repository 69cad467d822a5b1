package imageload

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Scaler names accepted by ScaleToFit
const (
	ScalerNearest    = "nearest"
	ScalerBilinear   = "bilinear"
	ScalerCatmullRom = "catmullrom"
	ScalerLanczos    = "lanczos"
)

// ScaleToFit shrinks src to fit within maxW x maxH keeping its aspect ratio.
// Images already inside the box are returned unchanged.
func ScaleToFit(src image.Image, maxW, maxH int, scaler string) image.Image {
	b := src.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if maxW <= 0 || maxH <= 0 || srcW == 0 || srcH == 0 {
		return src
	}
	if srcW <= maxW && srcH <= maxH {
		return src
	}

	if scaler == ScalerLanczos {
		return resize.Thumbnail(uint(maxW), uint(maxH), src, resize.Lanczos3)
	}

	w, h := fitBox(srcW, srcH, maxW, maxH)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	chooseScaler(scaler).Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// fitBox returns the largest w x h with the aspect of srcW x srcH inside maxW x maxH
func fitBox(srcW, srcH, maxW, maxH int) (int, int) {
	w, h := maxW, srcH*maxW/srcW
	if h > maxH {
		w, h = srcW*maxH/srcH, maxH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func chooseScaler(name string) draw.Scaler {
	switch name {
	case ScalerNearest:
		return draw.NearestNeighbor
	case ScalerCatmullRom:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}
