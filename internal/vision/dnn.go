//go:build gocv
// +build gocv

package vision

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"
)

// DNNDetector wraps a pretrained YOLO-class detection network loaded through
// OpenCV's DNN module. The network is loaded once at construction and only
// read afterwards, so one detector may serve concurrent requests.
type DNNDetector struct {
	net        gocv.Net
	classes    []string
	inputSize  int
	confidence float64
}

// NewDNNDetector loads the network weights, optional config, and the class
// name list (one label per line). A load failure wraps ErrModelUnavailable.
func NewDNNDetector(modelPath, configPath, classesPath string) (*DNNDetector, error) {
	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: cannot read network from %s", ErrModelUnavailable, modelPath)
	}

	classes, err := readClassNames(classesPath)
	if err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	return &DNNDetector{
		net:        net,
		classes:    classes,
		inputSize:  416,
		confidence: 0.3,
	}, nil
}

func (d *DNNDetector) Name() string { return "dnn-yolo" }

// Close releases the underlying network.
func (d *DNNDetector) Close() error { return d.net.Close() }

func (d *DNNDetector) Detect(ctx context.Context, img image.Image) ([]Candidate, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0,
		image.Pt(d.inputSize, d.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	cands := d.parseOutput(output, width, height)
	return filterCandidates(cands, width, height, d.confidence), nil
}

// parseOutput reads YOLO-style rows: cx, cy, w, h, objectness, then one
// score per class, all normalized to the input frame.
func (d *DNNDetector) parseOutput(output gocv.Mat, width, height int) []Candidate {
	var cands []Candidate

	rows := output.Total() / output.Cols()
	cols := output.Cols()
	data, err := output.DataPtrFloat32()
	if err != nil || cols < 6 {
		return cands
	}

	for i := 0; i < rows; i++ {
		row := data[i*cols : (i+1)*cols]
		classID, score := 0, float32(0)
		for c := 5; c < cols; c++ {
			if row[c] > score {
				score = row[c]
				classID = c - 5
			}
		}
		conf := float64(row[4]) * float64(score)
		if classID >= len(d.classes) {
			continue
		}
		label := d.classes[classID]

		cx := float64(row[0]) * float64(width)
		cy := float64(row[1]) * float64(height)
		w := float64(row[2]) * float64(width)
		h := float64(row[3]) * float64(height)

		cands = append(cands, Candidate{
			Label:      label,
			Confidence: conf,
			Region: Region{
				X1: int(cx - w/2),
				Y1: int(cy - h/2),
				X2: int(cx + w/2),
				Y2: int(cy + h/2),
			},
		})
	}
	return cands
}

func readClassNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open class names %s: %w", path, err)
	}
	defer f.Close()

	var classes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			classes = append(classes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read class names: %w", err)
	}
	return classes, nil
}
