// Package colors extracts the dominant colors of an image region by
// clustering sampled pixels in RGB space. Output is deterministic for a
// fixed image, region, seed, and cluster budget.
package colors

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// Sample is one dominant color of a region.
type Sample struct {
	Name       string
	RGB        [3]uint8
	Percentage float64
}

// Config holds the extractor's policy knobs. The defaults match the
// reference behavior; they are configuration, not algorithmic requirements.
type Config struct {
	// KMax is the cluster budget and the maximum number of samples returned.
	KMax int
	// MinShare is the minimum percentage a cluster must cover before the
	// remaining shares are renormalized; smaller clusters are background
	// speckle.
	MinShare float64
	// SampleBudget bounds the number of pixels clustered, keeping runtime
	// independent of image resolution.
	SampleBudget int
	// Seed fixes the clustering RNG so output is reproducible.
	Seed int64
}

// DefaultConfig returns the reference defaults.
func DefaultConfig() Config {
	return Config{
		KMax:         5,
		MinShare:     2.0,
		SampleBudget: 2000,
		Seed:         42,
	}
}

// Extractor clusters region pixels into named dominant colors. It holds no
// per-request state and is safe for concurrent use.
type Extractor struct {
	cfg Config
}

func NewExtractor(cfg Config) *Extractor {
	if cfg.KMax <= 0 {
		cfg.KMax = DefaultConfig().KMax
	}
	if cfg.SampleBudget <= 0 {
		cfg.SampleBudget = DefaultConfig().SampleBudget
	}
	return &Extractor{cfg: cfg}
}

// Extract returns the dominant colors of the given region of img, sorted by
// percentage descending and truncated to KMax entries. Percentages of the
// surviving clusters are renormalized to sum to 100. A region with no
// sampleable pixels yields an empty slice, not an error.
func (e *Extractor) Extract(ctx context.Context, img image.Image, region image.Rectangle) ([]Sample, error) {
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return []Sample{}, nil
	}

	pixels := e.samplePixels(img, region)
	if len(pixels) == 0 {
		return []Sample{}, nil
	}

	k := min(e.cfg.KMax, colorRichness(pixels))
	if k < 1 {
		return []Sample{}, nil
	}

	centers, counts, err := e.cluster(ctx, pixels, k)
	if err != nil {
		return nil, err
	}

	total := len(pixels)
	samples := make([]Sample, 0, len(centers))
	for i, c := range centers {
		share := float64(counts[i]) / float64(total) * 100
		if share < e.cfg.MinShare {
			continue
		}
		r, g, b := clampChannel(c[0]), clampChannel(c[1]), clampChannel(c[2])
		samples = append(samples, Sample{
			Name:       Name(r, g, b),
			RGB:        [3]uint8{r, g, b},
			Percentage: share,
		})
	}

	// Renormalize the surviving shares so they sum to 100.
	var kept float64
	for _, s := range samples {
		kept += s.Percentage
	}
	if kept > 0 {
		for i := range samples {
			samples[i].Percentage = math.Round(samples[i].Percentage/kept*1000) / 10
		}
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Percentage > samples[j].Percentage
	})
	if len(samples) > e.cfg.KMax {
		samples = samples[:e.cfg.KMax]
	}
	return samples, nil
}

// samplePixels walks the region with a deterministic stride so at most
// SampleBudget pixels are collected. Near-black and near-white pixels are
// treated as background noise and skipped, unless that would leave too few
// pixels to cluster.
func (e *Extractor) samplePixels(img image.Image, region image.Rectangle) [][3]float64 {
	total := region.Dx() * region.Dy()
	stride := 1
	if total > e.cfg.SampleBudget {
		stride = int(math.Ceil(math.Sqrt(float64(total) / float64(e.cfg.SampleBudget))))
	}

	filtered := make([][3]float64, 0, e.cfg.SampleBudget+1)
	all := make([][3]float64, 0, e.cfg.SampleBudget+1)
	for y := region.Min.Y; y < region.Max.Y; y += stride {
		for x := region.Min.X; x < region.Max.X; x += stride {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			p := [3]float64{float64(r16 >> 8), float64(g16 >> 8), float64(b16 >> 8)}
			all = append(all, p)
			if isNoise(p) {
				continue
			}
			filtered = append(filtered, p)
		}
	}

	if len(filtered) < 10 {
		return all
	}
	return filtered
}

// isNoise flags pixels so dark or so washed out that they are usually
// shadow or background rather than fabric.
func isNoise(p [3]float64) bool {
	if p[0] < 16 && p[1] < 16 && p[2] < 16 {
		return true
	}
	if p[0] > 239 && p[1] > 239 && p[2] > 239 {
		return true
	}
	return false
}

// colorRichness estimates how many distinct colors the sample actually
// holds, after 4-bit quantization, so k never exceeds what the data can
// support.
func colorRichness(pixels [][3]float64) int {
	distinct := make(map[uint32]struct{}, len(pixels))
	for _, p := range pixels {
		key := uint32(p[0])>>4<<8 | uint32(p[1])>>4<<4 | uint32(p[2])>>4
		distinct[key] = struct{}{}
	}
	return len(distinct)
}

const maxIterations = 20

// cluster runs fixed-seed k-means over the sampled pixels and returns the
// final centroids with their member counts. The context is checked once per
// iteration so callers can bound the work with a deadline.
func (e *Extractor) cluster(ctx context.Context, pixels [][3]float64, k int) ([][3]float64, []int, error) {
	rng := rand.New(rand.NewSource(e.cfg.Seed))
	centers := seedCenters(rng, pixels, k)
	assign := make([]int, len(pixels))
	counts := make([]int, k)

	for iter := 0; iter < maxIterations; iter++ {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("color clustering: %w", ctx.Err())
		default:
		}

		changed := false
		for i, p := range pixels {
			best, bestDist := 0, math.MaxFloat64
			for c := range centers {
				d := sqDist(p, centers[c])
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if assign[i] != best || iter == 0 {
				assign[i] = best
				changed = true
			}
		}

		sums := make([][3]float64, k)
		counts = make([]int, k)
		for i, p := range pixels {
			c := assign[i]
			sums[c][0] += p[0]
			sums[c][1] += p[1]
			sums[c][2] += p[2]
			counts[c]++
		}
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			centers[c] = [3]float64{
				sums[c][0] / float64(counts[c]),
				sums[c][1] / float64(counts[c]),
				sums[c][2] / float64(counts[c]),
			}
		}

		if !changed {
			break
		}
	}
	return centers, counts, nil
}

// seedCenters picks initial centroids k-means++ style: a seeded-random
// first pick, then repeatedly the pixel with the largest weighted distance
// to its nearest chosen center.
func seedCenters(rng *rand.Rand, pixels [][3]float64, k int) [][3]float64 {
	centers := make([][3]float64, 0, k)
	centers = append(centers, pixels[rng.Intn(len(pixels))])

	for len(centers) < k {
		bestIdx, bestDist := 0, -1.0
		for i, p := range pixels {
			nearest := math.MaxFloat64
			for _, c := range centers {
				if d := sqDist(p, c); d < nearest {
					nearest = d
				}
			}
			if nearest > bestDist {
				bestIdx, bestDist = i, nearest
			}
		}
		if bestDist <= 0 {
			// All remaining pixels coincide with a center.
			break
		}
		centers = append(centers, pixels[bestIdx])
	}
	return centers
}

func sqDist(a, b [3]float64) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}

func clampChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}

// Describe renders samples as a short human-readable sentence, e.g.
// "45.2% white, 42.8% lightblue, 12.0% gray".
func Describe(samples []Sample) string {
	if len(samples) == 0 {
		return "No colors detected"
	}
	parts := make([]string, len(samples))
	for i, s := range samples {
		parts[i] = fmt.Sprintf("%.1f%% %s", s.Percentage, s.Name)
	}
	return strings.Join(parts, ", ")
}
