package face

// Region is one detected face: a square of side Size centered at (Row, Col)
// in pixel coordinates, with the detector's quality score.
type Region struct {
	Row  int
	Col  int
	Size int
	Q    float32
}

// Detector locates face regions in a grayscale image. Implementations must
// return regions in a deterministic order for identical input.
type Detector interface {
	Detect(pixels []uint8, rows, cols int) []Region
}
