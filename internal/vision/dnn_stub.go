//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"
	"image"
)

// DNNDetector requires the gocv build tag and an OpenCV installation.
// Without it the constructor reports the model as unavailable so the server
// can refuse to start instead of serving degraded results.
type DNNDetector struct{}

func NewDNNDetector(modelPath, configPath, classesPath string) (*DNNDetector, error) {
	return nil, fmt.Errorf("%w: binary built without the gocv tag", ErrModelUnavailable)
}

func (d *DNNDetector) Name() string { return "dnn-yolo" }

func (d *DNNDetector) Close() error { return nil }

func (d *DNNDetector) Detect(ctx context.Context, img image.Image) ([]Candidate, error) {
	return nil, ErrModelUnavailable
}
