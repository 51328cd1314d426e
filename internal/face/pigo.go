package face

import (
	"fmt"
	"os"
	"sort"

	pigo "github.com/esimov/pigo/core"
)

// minDetectionQuality filters out low-confidence cascade hits.
const minDetectionQuality = 5.0

// PigoDetector runs the pigo cascade classifier. The classifier is loaded
// once at startup and injected wherever detection is needed; it is immutable
// and safe for concurrent use.
type PigoDetector struct {
	classifier *pigo.Pigo
}

// NewPigoDetector unpacks a binary cascade file from disk.
func NewPigoDetector(cascadePath string) (*PigoDetector, error) {
	data, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read cascade file: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade: %w", err)
	}
	return &PigoDetector{classifier: classifier}, nil
}

// Detect runs the cascade over the grayscale pixels and returns clustered
// detections above the quality cutoff, best first.
func (d *PigoDetector) Detect(pixels []uint8, rows, cols int) []Region {
	maxSize := rows
	if cols < maxSize {
		maxSize = cols
	}

	params := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pixels,
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)

	var regions []Region
	for _, det := range dets {
		if det.Q < minDetectionQuality {
			continue
		}
		regions = append(regions, Region{
			Row:  det.Row,
			Col:  det.Col,
			Size: det.Scale,
			Q:    det.Q,
		})
	}
	sort.SliceStable(regions, func(i, j int) bool { return regions[i].Q > regions[j].Q })
	return regions
}
