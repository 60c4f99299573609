package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yotamfogel/Dress-App/internal/colors"
	"github.com/yotamfogel/Dress-App/internal/imgproc"
	"github.com/yotamfogel/Dress-App/internal/vision"
)

type fakeDetector struct {
	cands []vision.Candidate
	err   error
}

func (f *fakeDetector) Detect(_ context.Context, _ image.Image) ([]vision.Candidate, error) {
	return f.cands, f.err
}

func (f *fakeDetector) Name() string { return "fake" }

func solidPNG(t *testing.T, w, h int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestService(det vision.Detector, store PendingStore) *Service {
	return NewService(
		&imgproc.Decoder{MaxDim: 2000},
		det,
		colors.NewExtractor(colors.DefaultConfig()),
		store,
		DefaultConfig(),
	)
}

func TestAnalyze_SingleRedShirt(t *testing.T) {
	det := &fakeDetector{cands: []vision.Candidate{
		{Label: "shirt", Confidence: 0.9, Region: vision.Region{X1: 0, Y1: 0, X2: 100, Y2: 100}},
	}}
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(det, store)

	out, err := svc.Analyze(context.Background(), solidPNG(t, 100, 100, color.RGBA{R: 255, A: 255}))
	require.NoError(t, err)
	require.Nil(t, out.Pending)
	require.NotNil(t, out.Result)

	res := out.Result
	require.Equal(t, "shirt", res.ClothingType)
	require.Equal(t, 0.9, res.Confidence)
	require.Equal(t, "fake", res.Method)
	require.Equal(t, vision.Region{X1: 0, Y1: 0, X2: 100, Y2: 100}, res.Region)

	require.Len(t, res.Colors, 1)
	require.Equal(t, "red", res.Colors[0].Name)
	require.Equal(t, [3]uint8{255, 0, 0}, res.Colors[0].RGB)
	require.InDelta(t, 100.0, res.Colors[0].Percentage, 0.1)
	require.Equal(t, "100.0% red", res.ColorDescription)
}

func TestAnalyze_NoDetections(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(&fakeDetector{}, store)

	out, err := svc.Analyze(context.Background(), solidPNG(t, 50, 50, color.White))
	require.NoError(t, err)
	require.Nil(t, out.Result)
	require.Nil(t, out.Pending)
}

func TestAnalyze_UnknownLabelsFiltered(t *testing.T) {
	det := &fakeDetector{cands: []vision.Candidate{
		{Label: "person", Confidence: 0.95, Region: vision.Region{X2: 50, Y2: 50}},
		{Label: "laptop", Confidence: 0.8, Region: vision.Region{X2: 40, Y2: 40}},
	}}
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(det, store)

	out, err := svc.Analyze(context.Background(), solidPNG(t, 50, 50, color.White))
	require.NoError(t, err)
	require.Nil(t, out.Result)
	require.Nil(t, out.Pending)
}

func TestAnalyze_DuplicateBoxesCollapse(t *testing.T) {
	// Two near-identical boxes on the same garment must not trigger the
	// multiple-items prompt.
	det := &fakeDetector{cands: []vision.Candidate{
		{Label: "shirt", Confidence: 0.9, Region: vision.Region{X1: 10, Y1: 10, X2: 90, Y2: 90}},
		{Label: "shirt", Confidence: 0.7, Region: vision.Region{X1: 12, Y1: 12, X2: 92, Y2: 92}},
	}}
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(det, store)

	out, err := svc.Analyze(context.Background(), solidPNG(t, 100, 100, color.RGBA{R: 255, A: 255}))
	require.NoError(t, err)
	require.Nil(t, out.Pending)
	require.NotNil(t, out.Result)
	require.Equal(t, 0.9, out.Result.Confidence)
}

func TestAnalyze_DecodeErrorPropagates(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(&fakeDetector{}, store)

	_, err := svc.Analyze(context.Background(), "!!garbage!!")
	var decodeErr *imgproc.DecodeError
	require.True(t, errors.As(err, &decodeErr))
}

func TestDisambiguationRoundTrip(t *testing.T) {
	shirtRegion := vision.Region{X1: 10, Y1: 10, X2: 90, Y2: 190}
	pantsRegion := vision.Region{X1: 110, Y1: 10, X2: 190, Y2: 190}
	det := &fakeDetector{cands: []vision.Candidate{
		{Label: "shirt", Confidence: 0.89, Region: shirtRegion},
		{Label: "pants", Confidence: 0.78, Region: pantsRegion},
	}}
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(det, store)

	payload := solidPNG(t, 200, 200, color.RGBA{R: 255, A: 255})
	out, err := svc.Analyze(context.Background(), payload)
	require.NoError(t, err)
	require.Nil(t, out.Result)
	require.NotNil(t, out.Pending)

	pending := out.Pending
	require.NotEmpty(t, pending.ID)
	require.Len(t, pending.Candidates, 2)
	require.Equal(t, "shirt", pending.Candidates[0].Label)
	require.Equal(t, "pants", pending.Candidates[1].Label)

	resolved, err := svc.Resolve(context.Background(), payload, pending.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, resolved.Result)
	require.Equal(t, "shirt", resolved.Result.ClothingType)
	require.Equal(t, shirtRegion, resolved.Result.Region)

	// The pending entry was consumed; a second resolve fails.
	_, err = svc.Resolve(context.Background(), payload, pending.ID, 1)
	var selErr *SelectionError
	require.True(t, errors.As(err, &selErr))
}

func TestResolve_InvalidItemLeavesPendingIntact(t *testing.T) {
	det := &fakeDetector{cands: []vision.Candidate{
		{Label: "shirt", Confidence: 0.89, Region: vision.Region{X1: 10, Y1: 10, X2: 90, Y2: 190}},
		{Label: "pants", Confidence: 0.78, Region: vision.Region{X1: 110, Y1: 10, X2: 190, Y2: 190}},
	}}
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(det, store)

	payload := solidPNG(t, 200, 200, color.RGBA{B: 255, A: 255})
	out, err := svc.Analyze(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, out.Pending)

	var selErr *SelectionError
	_, err = svc.Resolve(context.Background(), payload, out.Pending.ID, 3)
	require.True(t, errors.As(err, &selErr))
	_, err = svc.Resolve(context.Background(), payload, out.Pending.ID, 0)
	require.True(t, errors.As(err, &selErr))

	// A correct id still works afterwards.
	resolved, err := svc.Resolve(context.Background(), payload, out.Pending.ID, 2)
	require.NoError(t, err)
	require.Equal(t, "pants", resolved.Result.ClothingType)
}

func TestAnalyze_DisjointSameLabelKeepsBest(t *testing.T) {
	// Two boxes of the same garment far apart survive suppression; they
	// still collapse to the top confidence instead of prompting, even when
	// the detector lists the weaker one first.
	det := &fakeDetector{cands: []vision.Candidate{
		{Label: "shirt", Confidence: 0.6, Region: vision.Region{X1: 110, Y1: 10, X2: 190, Y2: 90}},
		{Label: "shirt", Confidence: 0.9, Region: vision.Region{X1: 10, Y1: 10, X2: 90, Y2: 90}},
	}}
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(det, store)

	out, err := svc.Analyze(context.Background(), solidPNG(t, 200, 100, color.RGBA{R: 255, A: 255}))
	require.NoError(t, err)
	require.Nil(t, out.Pending)
	require.NotNil(t, out.Result)
	require.Equal(t, 0.9, out.Result.Confidence)
	require.Equal(t, vision.Region{X1: 10, Y1: 10, X2: 90, Y2: 90}, out.Result.Region)
}

func TestResolve_BadPayloadKeepsPending(t *testing.T) {
	det := &fakeDetector{cands: []vision.Candidate{
		{Label: "shirt", Confidence: 0.89, Region: vision.Region{X1: 10, Y1: 10, X2: 90, Y2: 190}},
		{Label: "pants", Confidence: 0.78, Region: vision.Region{X1: 110, Y1: 10, X2: 190, Y2: 190}},
	}}
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(det, store)

	payload := solidPNG(t, 200, 200, color.RGBA{R: 255, A: 255})
	out, err := svc.Analyze(context.Background(), payload)
	require.NoError(t, err)
	require.NotNil(t, out.Pending)

	// A valid selection with a garbled resubmitted image fails without
	// consuming the session.
	_, err = svc.Resolve(context.Background(), "!!garbage!!", out.Pending.ID, 1)
	var decodeErr *imgproc.DecodeError
	require.True(t, errors.As(err, &decodeErr))

	resolved, err := svc.Resolve(context.Background(), payload, out.Pending.ID, 1)
	require.NoError(t, err)
	require.Equal(t, "shirt", resolved.Result.ClothingType)
}

func TestResolve_UnknownSession(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(&fakeDetector{}, store)

	_, err := svc.Resolve(context.Background(), solidPNG(t, 50, 50, color.White), "no-such-session", 1)
	var selErr *SelectionError
	require.True(t, errors.As(err, &selErr))
}

func TestResolve_ExpiredSession(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	svc := newTestService(&fakeDetector{}, store)

	now := time.Now()
	require.NoError(t, store.Put(context.Background(), &PendingSelection{
		ID: "stale",
		Candidates: []vision.Candidate{
			{Label: "shirt", Confidence: 0.9, Region: vision.Region{X2: 50, Y2: 50}},
		},
		CreatedAt: now.Add(-10 * time.Minute),
		ExpiresAt: now.Add(-7 * time.Minute),
	}))

	_, err := svc.Resolve(context.Background(), solidPNG(t, 50, 50, color.White), "stale", 1)
	var selErr *SelectionError
	require.True(t, errors.As(err, &selErr))
}
