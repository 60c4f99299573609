// Package imgproc is the image decode boundary: base64 payloads in, bounded
// image.Image values out.
package imgproc

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// OversizePolicy decides what happens to an image whose longer side exceeds
// the configured maximum dimension.
type OversizePolicy int

const (
	// Downscale fits the image inside the limit, preserving aspect ratio.
	Downscale OversizePolicy = iota
	// Reject refuses the image with a SizeLimitError.
	Reject
)

// DecodeError reports a payload that could not be turned into an image.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode image: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode image: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// SizeLimitError reports an image larger than the configured maximum
// dimension under the Reject policy.
type SizeLimitError struct {
	Width, Height, Limit int
}

func (e *SizeLimitError) Error() string {
	return fmt.Sprintf("image %dx%d exceeds maximum dimension %d", e.Width, e.Height, e.Limit)
}

// Decoder turns base64 image payloads into in-memory images, enforcing the
// dimension limit according to its policy.
type Decoder struct {
	MaxDim int
	Policy OversizePolicy
}

// Decode accepts a raw base64 string or a data URL
// ("data:image/png;base64,...."), decodes it, and applies the size policy.
// The returned format is the registered image format name ("jpeg", "png",
// "gif", "webp").
func (d *Decoder) Decode(payload string) (image.Image, string, error) {
	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, "", err
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", &DecodeError{Reason: "unrecognized image data", Err: err}
	}

	b := img.Bounds()
	if d.MaxDim > 0 && (b.Dx() > d.MaxDim || b.Dy() > d.MaxDim) {
		if d.Policy == Reject {
			return nil, "", &SizeLimitError{Width: b.Dx(), Height: b.Dy(), Limit: d.MaxDim}
		}
		img = imaging.Fit(img, d.MaxDim, d.MaxDim, imaging.Lanczos)
	}
	return img, format, nil
}

// decodeBase64 strips an optional data-URL prefix and decodes the remainder.
func decodeBase64(payload string) ([]byte, error) {
	s := strings.TrimSpace(payload)
	if s == "" {
		return nil, &DecodeError{Reason: "empty payload"}
	}
	if strings.HasPrefix(s, "data:") {
		i := strings.Index(s, ",")
		if i < 0 {
			return nil, &DecodeError{Reason: "malformed data URL"}
		}
		s = s[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients strip padding.
		raw, err = base64.RawStdEncoding.DecodeString(s)
	}
	if err != nil {
		return nil, &DecodeError{Reason: "invalid base64", Err: err}
	}
	if len(raw) == 0 {
		return nil, &DecodeError{Reason: "empty payload"}
	}
	return raw, nil
}
