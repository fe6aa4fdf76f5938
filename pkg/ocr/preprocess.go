package ocr

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Variant is one preprocessed rendition of a source image. The extraction
// core treats variants as opaque inputs to strategy fusion.
type Variant struct {
	Name  string
	Image image.Image
}

// Variants produces the preprocessing renditions run through OCR per image:
// the raw pixels, a sharpened global binarization, its inversion (trading
// UIs are light-on-dark), and an adaptive threshold with light dilation.
func Variants(img image.Image) []Variant {
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < 900 {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}
	binary := binarize(gray, 210)
	adaptive := dilate(adaptiveThreshold(gray, 15, 7), 1)
	return []Variant{
		{Name: "raw", Image: img},
		{Name: "binary", Image: binary},
		{Name: "inverted", Image: imaging.Invert(binary)},
		{Name: "adaptive", Image: adaptive},
	}
}

// binarize performs a simple global threshold on a grayscale image.
func binarize(img image.Image, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			gray := uint8((r + g + bb) / 3 >> 8)
			var v uint8 = 255
			if gray <= threshold {
				v = 0
			}
			out.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return out
}

// adaptiveThreshold performs a mean adaptive threshold using an integral
// image so the window mean is O(1) per pixel.
func adaptiveThreshold(img image.Image, window int, bias int) *image.NRGBA {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	out := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
	half := window / 2
	ints := integralImage(img)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(x-half, 0), max(y-half, 0)
			x1, y1 := min(x+half, w-1), min(y+half, h-1)
			sum := windowSum(ints, w, x0, y0, x1, y1)
			mean := sum / ((x1 - x0 + 1) * (y1 - y0 + 1))
			rv, gv, bv, _ := img.At(x, y).RGBA()
			pix := int((rv + gv + bv) / 3 >> 8)
			th := mean - bias
			if th < 0 {
				th = 0
			}
			if pix < th {
				out.Set(x, y, color.NRGBA{0, 0, 0, 255})
			} else {
				out.Set(x, y, color.NRGBA{255, 255, 255, 255})
			}
		}
	}
	return out
}

// integralImage builds the inclusive prefix-sum table of the grayscale pixel
// values: entry (y,x) is the sum over rows 0..y and columns 0..x.
func integralImage(img image.Image) []int {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	ints := make([]int, w*h)
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			rowSum += int((r + g + b) / 3 >> 8)
			idx := y*w + x
			if y == 0 {
				ints[idx] = rowSum
			} else {
				ints[idx] = ints[(y-1)*w+x] + rowSum
			}
		}
	}
	return ints
}

// windowSum reads the inclusive pixel sum of [x0,x1]x[y0,y1] from an
// integral image. The integral entry at (y,x) covers rows 0..y and columns
// 0..x, so the subtracted prefixes are at y0-1 and x0-1.
func windowSum(ints []int, w, x0, y0, x1, y1 int) int {
	at := func(yy, xx int) int {
		if yy < 0 || xx < 0 {
			return 0
		}
		return ints[yy*w+xx]
	}
	return at(y1, x1) - at(y0-1, x1) - at(y1, x0-1) + at(y0-1, x0-1)
}

// dilate performs a 4-neighborhood dilation of black pixels radius times.
func dilate(img *image.NRGBA, radius int) *image.NRGBA {
	if radius <= 0 {
		return img
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	cur := img
	for r := 0; r < radius; r++ {
		next := imaging.New(w, h, color.NRGBA{255, 255, 255, 255})
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				black := false
				for _, d := range [][2]int{{0, 0}, {1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
					x2, y2 := x+d[0], y+d[1]
					if x2 < 0 || y2 < 0 || x2 >= w || y2 >= h {
						continue
					}
					rv, gv, bv, _ := cur.At(x2, y2).RGBA()
					if rv+gv+bv == 0 {
						black = true
						break
					}
				}
				if black {
					next.Set(x, y, color.NRGBA{0, 0, 0, 255})
				}
			}
		}
		cur = next
	}
	return cur
}
