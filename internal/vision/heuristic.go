package vision

import (
	"context"
	"image"
	"math"
)

// HeuristicConfig holds tuning knobs for the saliency-based detector.
type HeuristicConfig struct {
	// EdgeThreshold is the minimum normalized edge strength for a cell to
	// count as salient.
	EdgeThreshold float64
	// MinCoverage is the minimum fraction of salient cells required before
	// the salient bounding box is trusted over a full-frame fallback.
	MinCoverage float64
	// MinConfidence and MaxConfidence bound the confidence derived from
	// saliency coverage.
	MinConfidence float64
	MaxConfidence float64
}

// DefaultHeuristicConfig mirrors the sensitivity the saliency scan was tuned
// with on garment photos.
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		EdgeThreshold: 0.05,
		MinCoverage:   0.02,
		MinConfidence: 0.35,
		MaxConfidence: 0.85,
	}
}

// HeuristicDetector locates garment candidates without a trained model, by
// scanning for the salient subject region and guessing the garment class
// from its shape. It is the default detector for builds without the gocv
// model backend and deliberately favors recall: a flat image with no salient
// structure still yields one full-frame candidate.
type HeuristicDetector struct {
	cfg HeuristicConfig
}

func NewHeuristicDetector() *HeuristicDetector {
	return &HeuristicDetector{cfg: DefaultHeuristicConfig()}
}

func NewHeuristicDetectorWithConfig(cfg HeuristicConfig) *HeuristicDetector {
	return &HeuristicDetector{cfg: cfg}
}

func (d *HeuristicDetector) Name() string { return "heuristic-saliency" }

func (d *HeuristicDetector) Detect(ctx context.Context, img image.Image) ([]Candidate, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < minBoxSide || height < minBoxSide {
		return []Candidate{}, nil
	}

	salient, coverage, err := d.salientBox(ctx, img)
	if err != nil {
		return nil, err
	}

	if coverage < d.cfg.MinCoverage || salient.Width() < minBoxSide || salient.Height() < minBoxSide {
		// No usable structure; analyze the frame as one garment.
		full := Region{X1: 0, Y1: 0, X2: width, Y2: height}
		return []Candidate{{
			Label:      guessLabel(full),
			Confidence: 0.5,
			Region:     full,
		}}, nil
	}

	conf := d.cfg.MinConfidence + coverage*(d.cfg.MaxConfidence-d.cfg.MinConfidence)*4
	if conf > d.cfg.MaxConfidence {
		conf = d.cfg.MaxConfidence
	}

	aspect := float64(salient.Height()) / float64(salient.Width())
	if aspect > 1.8 {
		// Person-shaped subject: split into an upper (top garment) and a
		// lower (bottom garment) region rather than reporting one box.
		split := salient.Y1 + int(float64(salient.Height())*0.55)
		upper := Region{X1: salient.X1, Y1: salient.Y1, X2: salient.X2, Y2: split}
		lower := Region{X1: salient.X1, Y1: salient.Y1 + int(float64(salient.Height())*0.45), X2: salient.X2, Y2: salient.Y2}
		cands := []Candidate{
			{Label: "shirt", Confidence: conf * 0.8, Region: upper},
			{Label: "pants", Confidence: conf * 0.75, Region: lower},
		}
		return filterCandidates(cands, width, height, 0), nil
	}

	cands := []Candidate{{
		Label:      guessLabel(salient),
		Confidence: conf,
		Region:     salient,
	}}
	return filterCandidates(cands, width, height, 0), nil
}

// guessLabel infers a garment label from region shape alone: tall regions
// read as dresses, wide ones as pants, the rest as shirts.
func guessLabel(r Region) string {
	aspect := float64(r.Height()) / float64(r.Width())
	switch {
	case aspect > 1.4:
		return "dress"
	case aspect < 0.8:
		return "pants"
	default:
		return "shirt"
	}
}

// salientBox scans the image on a coarse grid, scores each cell by local
// edge strength, and returns the bounding box of cells above the threshold
// together with their fraction of the grid.
func (d *HeuristicDetector) salientBox(ctx context.Context, img image.Image) (Region, float64, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	step := width / 128
	if h := height / 128; h > step {
		step = h
	}
	if step < 1 {
		step = 1
	}

	minX, minY := width, height
	maxX, maxY := -1, -1
	cells, hits := 0, 0

	for y := 0; y+step < height; y += step {
		select {
		case <-ctx.Done():
			return Region{}, 0, ctx.Err()
		default:
		}
		for x := 0; x+step < width; x += step {
			cells++
			edge := edgeStrength(img, bounds.Min.X+x, bounds.Min.Y+y, step)
			if edge < d.cfg.EdgeThreshold {
				continue
			}
			hits++
			if x < minX {
				minX = x
			}
			if y < minY {
				minY = y
			}
			if x+step > maxX {
				maxX = x + step
			}
			if y+step > maxY {
				maxY = y + step
			}
		}
	}

	if hits == 0 || cells == 0 {
		return Region{}, 0, nil
	}
	box := Region{X1: minX, Y1: minY, X2: maxX, Y2: maxY}.Clamp(width, height)
	return box, float64(hits) / float64(cells), nil
}

// edgeStrength measures normalized color difference between a pixel and its
// right and lower neighbors at the given stride.
func edgeStrength(img image.Image, x, y, step int) float64 {
	r0, g0, b0, _ := img.At(x, y).RGBA()
	r1, g1, b1, _ := img.At(x+step, y).RGBA()
	r2, g2, b2, _ := img.At(x, y+step).RGBA()

	dh := colorDistance(r0, g0, b0, r1, g1, b1)
	dv := colorDistance(r0, g0, b0, r2, g2, b2)
	return (dh + dv) / 2
}

func colorDistance(r0, g0, b0, r1, g1, b1 uint32) float64 {
	dr := float64(r0) - float64(r1)
	dg := float64(g0) - float64(g1)
	db := float64(b0) - float64(b1)
	// Max distance is sqrt(3) * 65535 for 16-bit channels.
	return math.Sqrt(dr*dr+dg*dg+db*db) / (math.Sqrt(3) * 65535)
}
