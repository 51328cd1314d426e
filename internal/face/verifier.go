// Package face derives comparable embeddings from uploaded images and
// decides whether two faces match.
//
// The pipeline is: decode, grayscale, detect (detection always runs before
// embedding extraction; an embedding of an unlocated face is meaningless),
// crop the best region, resize to a fixed 64x64 patch, and normalize to a
// zero-mean unit-length vector. Two embeddings match when their Euclidean
// distance is below the configured threshold. The metric and patch size are
// fixed so decisions reproduce across runs; the threshold is a tunable.
package face

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"time"

	"golang.org/x/image/draw"
)

const patchSize = 64

var (
	// ErrDecode indicates malformed or unsupported image input.
	ErrDecode = errors.New("image could not be decoded")
	// ErrNoFaceDetected indicates a well-formed image with zero detectable
	// faces. Distinct from a match/no-match outcome.
	ErrNoFaceDetected = errors.New("no face detected")
)

// Embedding is a fixed-length numeric representation of a detected face.
type Embedding []float64

// Verifier extracts embeddings and makes binary match decisions.
type Verifier struct {
	detector  Detector
	threshold float64
	timeout   time.Duration
	sem       chan struct{}
}

// NewVerifier constructs a verifier around an injected detector. workers
// bounds how many embedding extractions run at once; timeout bounds each
// extraction so image work cannot pin request handlers indefinitely.
func NewVerifier(detector Detector, threshold float64, timeout time.Duration, workers int) *Verifier {
	if workers < 1 {
		workers = 1
	}
	return &Verifier{
		detector:  detector,
		threshold: threshold,
		timeout:   timeout,
		sem:       make(chan struct{}, workers),
	}
}

// Threshold reports the configured match threshold.
func (v *Verifier) Threshold() float64 { return v.threshold }

// Embed decodes imageBytes, locates a face, and returns its embedding.
// When several faces are found the highest-quality detection wins, ties
// resolved by detector ordering.
func (v *Verifier) Embed(ctx context.Context, imageBytes []byte) (Embedding, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case v.sem <- struct{}{}:
		defer func() { <-v.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	img, _, err := image.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	bounds := img.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	gray := toGrayscale(img)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	regions := v.detector.Detect(gray.Pix, rows, cols)
	if len(regions) == 0 {
		return nil, ErrNoFaceDetected
	}
	best := regions[0]
	for _, r := range regions[1:] {
		if r.Q > best.Q {
			best = r
		}
	}

	patch := cropResize(gray, best)
	return normalize(patch), nil
}

// Match compares two embeddings and returns the binary decision along with
// the measured distance.
func (v *Verifier) Match(a, b Embedding) (bool, float64) {
	dist := euclidean(a, b)
	return dist <= v.threshold, dist
}

func toGrayscale(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}

// cropResize cuts the detected square (clamped to the image) and scales it
// to the fixed patch size with bilinear interpolation.
func cropResize(gray *image.Gray, region Region) *image.Gray {
	half := region.Size / 2
	rect := image.Rect(region.Col-half, region.Row-half, region.Col+half, region.Row+half)
	rect = rect.Intersect(gray.Bounds())
	if rect.Empty() {
		rect = gray.Bounds()
	}

	patch := image.NewGray(image.Rect(0, 0, patchSize, patchSize))
	draw.BiLinear.Scale(patch, patch.Bounds(), gray.SubImage(rect), rect, draw.Src, nil)
	return patch
}

// normalize turns the patch into a zero-mean, L2-normalized vector so that
// distances are insensitive to brightness and contrast.
func normalize(patch *image.Gray) Embedding {
	vec := make(Embedding, patchSize*patchSize)

	var mean float64
	for i := range vec {
		vec[i] = float64(patch.Pix[i])
		mean += vec[i]
	}
	mean /= float64(len(vec))

	var norm float64
	for i := range vec {
		vec[i] -= mean
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

func euclidean(a, b Embedding) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
