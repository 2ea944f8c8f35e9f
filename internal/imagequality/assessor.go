// Package imagequality scores input photos before provider selection.
// The score is advisory: an unreadable image yields a neutral profile, never
// an error, so a bad photo still flows through the pipeline.
package imagequality

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
)

// Profile is the derived quality estimate for one image.
type Profile struct {
	Score           float64  `json:"score"` // 0..1
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Megapixels      float64  `json:"megapixels"`
	Brightness      float64  `json:"brightness"` // mean intensity 0..255
	Contrast        float64  `json:"contrast"`   // intensity stdev
	AspectRatio     float64  `json:"aspect_ratio"`
	Recommendations []string `json:"recommendations,omitempty"`
}

type Assessor struct {
	logger *slog.Logger
}

func NewAssessor(logger *slog.Logger) *Assessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assessor{logger: logger}
}

// Assess decodes the image and scores it. Decode failures log a warning and
// return the neutral profile.
func (a *Assessor) Assess(data []byte) Profile {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		a.logger.Warn("imagequality.decode_failed", "error", err, "bytes", len(data))
		return NeutralProfile()
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		a.logger.Warn("imagequality.empty_image", "format", format)
		return NeutralProfile()
	}

	brightness, contrast := intensityStats(img)

	p := Profile{
		Width:      w,
		Height:     h,
		Megapixels: float64(w*h) / 1e6,
		Brightness: brightness,
		Contrast:   contrast,
	}
	if h > 0 {
		p.AspectRatio = float64(w) / float64(h)
	}
	p.Score, p.Recommendations = score(p)

	a.logger.Debug("imagequality.assessed",
		"format", format, "score", p.Score,
		"mp", p.Megapixels, "brightness", brightness, "contrast", contrast,
	)
	return p
}

// NeutralProfile is used when the image cannot be inspected.
func NeutralProfile() Profile {
	return Profile{Score: 0.5}
}

func score(p Profile) (float64, []string) {
	s := 0.5
	var recs []string

	switch {
	case p.Megapixels > 2.0:
		s += 0.2
	case p.Megapixels >= 0.5:
		s += 0.1
	default:
		s -= 0.1
		recs = append(recs, fmt.Sprintf("resolution is low (%.1fMP); retake closer or at a higher resolution", p.Megapixels))
	}

	switch {
	case p.Brightness >= 80 && p.Brightness <= 180:
		s += 0.15
	case p.Brightness < 50:
		s -= 0.15
		recs = append(recs, "image is too dark; retake with more light")
	case p.Brightness > 220:
		s -= 0.15
		recs = append(recs, "image is overexposed; avoid direct light or flash glare")
	}

	switch {
	case p.Contrast > 40:
		s += 0.1
	case p.Contrast < 20:
		s -= 0.1
		recs = append(recs, "low contrast; place the receipt on a darker background")
	}

	if receiptAspect(p.AspectRatio) {
		s += 0.05
	}

	return clamp01(s), recs
}

// receipt-like bands: portrait strip or landscape photo of a strip
func receiptAspect(r float64) bool {
	return (r >= 0.6 && r <= 0.8) || (r >= 1.2 && r <= 1.7)
}

// intensityStats computes mean and stdev of pixel luma, sampling large images
// on a stride so a 12MP photo does not cost 12M conversions.
func intensityStats(img image.Image) (mean, stdev float64) {
	bounds := img.Bounds()
	stride := 1
	if px := bounds.Dx() * bounds.Dy(); px > 1<<20 {
		stride = int(math.Sqrt(float64(px) / float64(1<<20)))
		if stride < 1 {
			stride = 1
		}
	}

	var sum, sumSq float64
	var n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stride {
		for x := bounds.Min.X; x < bounds.Max.X; x += stride {
			r, g, b, _ := img.At(x, y).RGBA()
			// Rec. 601 luma on 8-bit scale
			luma := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
			sum += luma
			sumSq += luma * luma
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance > 0 {
		stdev = math.Sqrt(variance)
	}
	return mean, stdev
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
