package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// bimodal builds a gray image with a dark square on a light background.
func bimodal() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if x >= 8 && x < 24 && y >= 8 && y < 24 {
				img.SetGray(x, y, color.Gray{Y: 30})
			} else {
				img.SetGray(x, y, color.Gray{Y: 220})
			}
		}
	}
	return img
}

func TestPreprocess_ProducesPNG(t *testing.T) {
	for _, dense := range []bool{false, true} {
		data, err := Preprocess(bimodal(), dense)
		if err != nil {
			t.Fatalf("Preprocess(dense=%t) error = %v", dense, err)
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Preprocess(dense=%t) output is not PNG: %v", dense, err)
		}
		if decoded.Bounds() != bimodal().Bounds() {
			t.Errorf("Preprocess(dense=%t) changed bounds: %v", dense, decoded.Bounds())
		}
	}
}

func TestPreprocess_BinarizesBimodalImage(t *testing.T) {
	data, err := Preprocess(bimodal(), true)
	if err != nil {
		t.Fatalf("Preprocess() error = %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode error = %v", err)
	}

	// The dark square stays black, the background turns white.
	gray := decoded.(*image.Gray)
	if v := gray.GrayAt(16, 16).Y; v != 0 {
		t.Errorf("center pixel = %d, want 0", v)
	}
	if v := gray.GrayAt(2, 2).Y; v != 255 {
		t.Errorf("corner pixel = %d, want 255", v)
	}
}

func TestOtsuThreshold_SeparatesModes(t *testing.T) {
	threshold := otsuThreshold(bimodal())
	// After contrast stretching the modes sit near 0 and 255; on the raw
	// image they are 30 and 220, so the threshold must fall between them.
	if threshold <= 30 || threshold >= 220 {
		t.Errorf("threshold = %d, want between the two modes", threshold)
	}
}

func TestStretchContrast(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.Pix = []uint8{100, 150, 200}
	stretchContrast(img)

	if img.Pix[0] != 0 {
		t.Errorf("min pixel = %d, want 0", img.Pix[0])
	}
	if img.Pix[2] != 255 {
		t.Errorf("max pixel = %d, want 255", img.Pix[2])
	}
	if img.Pix[1] != 127 {
		t.Errorf("mid pixel = %d, want 127", img.Pix[1])
	}
}

func TestStretchContrast_FlatImageUnchanged(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2, 1))
	img.Pix = []uint8{128, 128}
	stretchContrast(img)

	if img.Pix[0] != 128 || img.Pix[1] != 128 {
		t.Errorf("flat image changed: %v", img.Pix)
	}
}

func TestThresholdAdaptive_UniformBackground(t *testing.T) {
	// A uniform light image binarizes to all white: every pixel sits
	// above its window mean minus the offset.
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 200
	}

	out := thresholdAdaptive(img, adaptiveWindow, adaptiveOffset)
	for i, p := range out.Pix {
		if p != 255 {
			t.Fatalf("pixel %d = %d, want 255", i, p)
		}
	}
}

func TestCloseBinary_PreservesSolidRegions(t *testing.T) {
	// White background stays white and the interior of a solid dark
	// block stays dark.
	img := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for y := 2; y < 6; y++ {
		for x := 2; x < 6; x++ {
			img.SetGray(x, y, color.Gray{Y: 0})
		}
	}

	out := closeBinary(img, closingKernel)
	if out.GrayAt(0, 0).Y != 255 {
		t.Errorf("background pixel = %d, want 255", out.GrayAt(0, 0).Y)
	}
	if out.GrayAt(3, 3).Y != 0 || out.GrayAt(4, 4).Y != 0 {
		t.Error("block interior should stay dark after closing")
	}
}

func TestCloseBinary_KernelOneIsIdentity(t *testing.T) {
	img := bimodal()
	if out := closeBinary(img, 1); out != img {
		t.Error("kernel 1 should return the image unchanged")
	}
}
