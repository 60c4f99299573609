// Package analysis runs the fashion pipeline: decode, detect, suppress,
// and either analyze the single garment found or park the candidates for a
// follow-up selection call.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/yotamfogel/Dress-App/internal/colors"
	"github.com/yotamfogel/Dress-App/internal/fashion"
	"github.com/yotamfogel/Dress-App/internal/imgproc"
	"github.com/yotamfogel/Dress-App/internal/vision"
)

// Config holds the pipeline policy knobs.
type Config struct {
	DetectTimeout time.Duration
	ColorTimeout  time.Duration
	NMSIoU        float64
	PendingTTL    time.Duration
}

func DefaultConfig() Config {
	return Config{
		DetectTimeout: 30 * time.Second,
		ColorTimeout:  20 * time.Second,
		NMSIoU:        0.5,
		PendingTTL:    3 * time.Minute,
	}
}

// Result is the terminal output of the pipeline for one garment region.
type Result struct {
	ClothingType     string
	Styles           []string
	Colors           []colors.Sample
	ColorDescription string
	Confidence       float64
	Region           vision.Region
	Method           string
}

// Outcome is what one pipeline run produced. Exactly one of Result and
// Pending is set; both nil means no qualifying detections.
type Outcome struct {
	Result  *Result
	Pending *PendingSelection
}

// Service wires the pipeline stages together. It is constructed once at
// process start and shared across requests.
type Service struct {
	decoder   *imgproc.Decoder
	detector  vision.Detector
	extractor *colors.Extractor
	store     PendingStore
	cfg       Config
}

func NewService(decoder *imgproc.Decoder, detector vision.Detector, extractor *colors.Extractor, store PendingStore, cfg Config) *Service {
	if cfg.DetectTimeout <= 0 {
		cfg.DetectTimeout = DefaultConfig().DetectTimeout
	}
	if cfg.ColorTimeout <= 0 {
		cfg.ColorTimeout = DefaultConfig().ColorTimeout
	}
	if cfg.NMSIoU <= 0 {
		cfg.NMSIoU = DefaultConfig().NMSIoU
	}
	if cfg.PendingTTL <= 0 {
		cfg.PendingTTL = DefaultConfig().PendingTTL
	}
	return &Service{
		decoder:   decoder,
		detector:  detector,
		extractor: extractor,
		store:     store,
		cfg:       cfg,
	}
}

// DetectorName reports which detection pipeline the service runs.
func (s *Service) DetectorName() string { return s.detector.Name() }

// Analyze runs the full pipeline over a base64 image payload.
//
// Zero qualifying candidates yield an empty Outcome. One distinct garment
// yields Outcome.Result. Two or more distinct garments yield
// Outcome.Pending, stored for a follow-up Resolve call. Duplicate boxes on
// the same garment never trigger the multiple-items path; the suppressed
// survivors collapse to the top-confidence candidate.
func (s *Service) Analyze(ctx context.Context, imageB64 string) (*Outcome, error) {
	img, _, err := s.decoder.Decode(imageB64)
	if err != nil {
		return nil, err
	}

	cands, err := s.detect(ctx, img)
	if err != nil {
		return nil, err
	}

	survivors := vision.NonMaxSuppress(knownOnly(cands), s.cfg.NMSIoU)
	if len(survivors) == 0 {
		return &Outcome{}, nil
	}

	best := bestPerLabel(survivors)
	if len(best) == 1 {
		res, err := s.analyzeCandidate(ctx, img, best[0])
		if err != nil {
			return nil, err
		}
		return &Outcome{Result: res}, nil
	}

	now := time.Now()
	pending := &PendingSelection{
		ID:         uuid.New().String(),
		Candidates: best,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.cfg.PendingTTL),
	}
	if err := s.store.Put(ctx, pending); err != nil {
		return nil, fmt.Errorf("store pending selection: %w", err)
	}
	return &Outcome{Pending: pending}, nil
}

// Resolve completes a disambiguation exchange. itemID is the 1-based index
// into the candidate list offered by the prompt call. The pending entry is
// consumed only by a valid selection; an invalid id leaves it intact so the
// client can retry with a correct one.
func (s *Service) Resolve(ctx context.Context, imageB64, sessionID string, itemID int) (*Outcome, error) {
	pending, err := s.store.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrPendingNotFound) {
			return nil, &SelectionError{Reason: "unknown or expired session"}
		}
		return nil, fmt.Errorf("load pending selection: %w", err)
	}

	if itemID < 1 || itemID > len(pending.Candidates) {
		return nil, &SelectionError{Reason: fmt.Sprintf("item %d is not in the offered set of %d", itemID, len(pending.Candidates))}
	}
	chosen := pending.Candidates[itemID-1]

	// Decode before consuming the entry: a garbled resubmitted payload
	// must not destroy the session, so the client can retry it.
	img, _, err := s.decoder.Decode(imageB64)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		return nil, fmt.Errorf("consume pending selection: %w", err)
	}

	res, err := s.analyzeCandidate(ctx, img, chosen)
	if err != nil {
		return nil, err
	}
	return &Outcome{Result: res}, nil
}

func (s *Service) detect(ctx context.Context, img image.Image) ([]vision.Candidate, error) {
	dctx, cancel := context.WithTimeout(ctx, s.cfg.DetectTimeout)
	defer cancel()
	cands, err := s.detector.Detect(dctx, img)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	return cands, nil
}

// analyzeCandidate runs color extraction and style classification over one
// candidate's region.
func (s *Service) analyzeCandidate(ctx context.Context, img image.Image, cand vision.Candidate) (*Result, error) {
	b := img.Bounds()
	region := cand.Region.Clamp(b.Dx(), b.Dy())
	crop := imaging.Crop(img, region.Rect().Add(b.Min))

	cctx, cancel := context.WithTimeout(ctx, s.cfg.ColorTimeout)
	defer cancel()
	samples, err := s.extractor.Extract(cctx, crop, crop.Bounds())
	if err != nil {
		return nil, fmt.Errorf("extract colors: %w", err)
	}

	garment := fashion.NormalizeLabel(cand.Label)
	return &Result{
		ClothingType:     garment.String(),
		Styles:           fashion.StyleNames(fashion.StylesFor(garment)),
		Colors:           samples,
		ColorDescription: colors.Describe(samples),
		Confidence:       cand.Confidence,
		Region:           region,
		Method:           s.detector.Name(),
	}, nil
}

// knownOnly drops candidates whose labels fall outside the garment
// vocabulary (people, furniture, whatever else the detector saw).
func knownOnly(cands []vision.Candidate) []vision.Candidate {
	kept := make([]vision.Candidate, 0, len(cands))
	for _, c := range cands {
		if fashion.KnownLabel(c.Label) {
			kept = append(kept, c)
		}
	}
	return kept
}

// bestPerLabel reduces suppressed survivors to one candidate per distinct
// label. NonMaxSuppress orders its output by confidence descending, so the
// first occurrence of a label is its best candidate and the result stays
// sorted. Multiplicity is about distinct garments, not box count.
func bestPerLabel(cands []vision.Candidate) []vision.Candidate {
	seen := make(map[string]struct{}, len(cands))
	best := make([]vision.Candidate, 0, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.Label]; ok {
			continue
		}
		seen[c.Label] = struct{}{}
		best = append(best, c)
	}
	return best
}
