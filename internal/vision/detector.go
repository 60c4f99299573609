package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
)

// ErrModelUnavailable is returned by detector constructors when the backing
// detection model cannot be initialized. The server treats it as fatal at
// startup rather than serving degraded results.
var ErrModelUnavailable = errors.New("detection model unavailable")

// Region is an axis-aligned rectangle in image pixel coordinates.
// A well-formed region satisfies 0 <= X1 < X2 <= width and
// 0 <= Y1 < Y2 <= height of its source image.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (r Region) Width() int  { return r.X2 - r.X1 }
func (r Region) Height() int { return r.Y2 - r.Y1 }
func (r Region) Area() int   { return r.Width() * r.Height() }

// Empty reports whether the region encloses no pixels.
func (r Region) Empty() bool { return r.X1 >= r.X2 || r.Y1 >= r.Y2 }

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Clamp constrains the region to a width x height image. The result may be
// empty if the region lies fully outside the image.
func (r Region) Clamp(width, height int) Region {
	out := r
	if out.X1 < 0 {
		out.X1 = 0
	}
	if out.Y1 < 0 {
		out.Y1 = 0
	}
	if out.X2 > width {
		out.X2 = width
	}
	if out.Y2 > height {
		out.Y2 = height
	}
	if out.X2 < out.X1 {
		out.X2 = out.X1
	}
	if out.Y2 < out.Y1 {
		out.Y2 = out.Y1
	}
	return out
}

// IoU computes intersection-over-union between two regions.
func (r Region) IoU(other Region) float64 {
	ix1 := max(r.X1, other.X1)
	iy1 := max(r.Y1, other.Y1)
	ix2 := min(r.X2, other.X2)
	iy2 := min(r.Y2, other.Y2)
	if ix2 <= ix1 || iy2 <= iy1 {
		return 0
	}
	inter := (ix2 - ix1) * (iy2 - iy1)
	union := r.Area() + other.Area() - inter
	if union <= 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", r.X1, r.Y1, r.X2, r.Y2)
}

// Candidate is one detector output before suppression or selection.
type Candidate struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Region     Region  `json:"region"`
}

// Detector finds labeled garment candidates in a decoded image.
// Implementations must be safe for concurrent use: the underlying model is
// loaded once and read-only afterwards. Detectors do not deduplicate
// overlapping boxes; that is the pipeline's job.
type Detector interface {
	// Detect returns zero or more candidates with confidence in [0,1] and
	// regions clamped to the image bounds. A well-formed image never
	// produces an error; an empty slice means no qualifying detections.
	Detect(ctx context.Context, img image.Image) ([]Candidate, error)

	// Name identifies the detection method for result metadata.
	Name() string
}

// minBoxSide is the smallest candidate box edge worth analyzing; smaller
// boxes are detector noise.
const minBoxSide = 30

// filterCandidates drops candidates below the confidence floor or with
// degenerate boxes, and clamps the survivors to the image bounds.
func filterCandidates(cands []Candidate, width, height int, minConfidence float64) []Candidate {
	out := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.Confidence < minConfidence {
			continue
		}
		c.Region = c.Region.Clamp(width, height)
		if c.Region.Width() < minBoxSide || c.Region.Height() < minBoxSide {
			continue
		}
		out = append(out, c)
	}
	return out
}
