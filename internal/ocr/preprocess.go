package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	xdraw "golang.org/x/image/draw"
)

// Adaptive threshold window and offset for Latin scripts, and the closing
// kernel size for dense scripts. Chosen to match the preprocessing the
// heading heuristics were tuned against.
const (
	adaptiveWindow = 11
	adaptiveOffset = 2
	closingKernel  = 2
)

// Preprocess prepares a rendered page image for OCR: grayscale, contrast
// stretch, binarization, and a morphological closing pass. Dense scripts
// (CJK/Hangul) binarize with Otsu's global threshold; Latin scripts use an
// adaptive mean threshold. Returns the result PNG-encoded for the engine.
func Preprocess(img image.Image, denseScript bool) ([]byte, error) {
	gray := toGray(img)
	stretchContrast(gray)

	var binary *image.Gray
	if denseScript {
		binary = thresholdGlobal(gray, otsuThreshold(gray))
	} else {
		binary = thresholdAdaptive(gray, adaptiveWindow, adaptiveOffset)
	}

	if denseScript {
		binary = closeBinary(binary, closingKernel)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, binary); err != nil {
		return nil, fmt.Errorf("failed to encode preprocessed image: %w", err)
	}
	return buf.Bytes(), nil
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		out := image.NewGray(g.Bounds())
		copy(out.Pix, g.Pix)
		return out
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	xdraw.Draw(gray, bounds, img, bounds.Min, xdraw.Src)
	return gray
}

// stretchContrast linearly remaps pixel intensities to the full 0-255
// range in place.
func stretchContrast(g *image.Gray) {
	minV, maxV := uint8(255), uint8(0)
	for _, p := range g.Pix {
		if p < minV {
			minV = p
		}
		if p > maxV {
			maxV = p
		}
	}
	if maxV <= minV {
		return
	}
	span := int(maxV) - int(minV)
	for i, p := range g.Pix {
		g.Pix[i] = uint8((int(p) - int(minV)) * 255 / span)
	}
}

// otsuThreshold picks the global threshold maximizing between-class
// variance of the intensity histogram.
func otsuThreshold(g *image.Gray) uint8 {
	var hist [256]int
	for _, p := range g.Pix {
		hist[p]++
	}
	total := len(g.Pix)
	if total == 0 {
		return 128
	}

	var sum float64
	for i, c := range hist {
		sum += float64(i) * float64(c)
	}

	var sumB, wB float64
	var best float64
	threshold := uint8(128)
	for t := 0; t < 256; t++ {
		wB += float64(hist[t])
		if wB == 0 {
			continue
		}
		wF := float64(total) - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = uint8(t)
		}
	}
	return threshold
}

func thresholdGlobal(g *image.Gray, threshold uint8) *image.Gray {
	out := image.NewGray(g.Bounds())
	for i, p := range g.Pix {
		if p > threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

// thresholdAdaptive binarizes against the local window mean minus a fixed
// offset, using an integral image for O(1) window sums.
func thresholdAdaptive(g *image.Gray, window, offset int) *image.Gray {
	bounds := g.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)
	if w == 0 || h == 0 {
		return out
	}

	integral := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(g.Pix[y*g.Stride+x])
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	half := window / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-half), max(0, y-half)
			x1, y1 := min(w, x+half+1), min(h, y+half+1)
			area := int64((x1 - x0) * (y1 - y0))
			sum := integral[y1*(w+1)+x1] - integral[y0*(w+1)+x1] -
				integral[y1*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := sum / area
			if int64(g.Pix[y*g.Stride+x]) > mean-int64(offset) {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// closeBinary applies morphological closing (dilate then erode) with a
// square kernel to seal small gaps in dense-script strokes.
func closeBinary(g *image.Gray, kernel int) *image.Gray {
	if kernel <= 1 {
		return g
	}
	return erode(dilate(g, kernel), kernel)
}

func dilate(g *image.Gray, kernel int) *image.Gray {
	return morph(g, kernel, func(cur, p uint8) uint8 { return min(cur, p) })
}

func erode(g *image.Gray, kernel int) *image.Gray {
	return morph(g, kernel, func(cur, p uint8) uint8 { return max(cur, p) })
}

// morph applies a square-kernel reduction over each pixel neighborhood.
// Text is dark on white, so dilation takes the neighborhood minimum and
// erosion the maximum.
func morph(g *image.Gray, kernel int, pick func(cur, p uint8) uint8) *image.Gray {
	bounds := g.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(bounds)
	half := kernel / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cur := g.Pix[y*g.Stride+x]
			for dy := -half; dy < kernel-half; dy++ {
				for dx := -half; dx < kernel-half; dx++ {
					yy, xx := y+dy, x+dx
					if yy < 0 || yy >= h || xx < 0 || xx >= w {
						continue
					}
					cur = pick(cur, g.Pix[yy*g.Stride+xx])
				}
			}
			out.Pix[y*out.Stride+x] = cur
		}
	}
	return out
}
