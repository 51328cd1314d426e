package face

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDetector returns a fixed set of regions regardless of input.
type stubDetector struct {
	regions []Region
}

func (d *stubDetector) Detect(_ []uint8, _, _ int) []Region {
	return d.regions
}

func fullFrameRegion() []Region {
	return []Region{{Row: 64, Col: 64, Size: 128, Q: 10}}
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// gradientImage produces a smooth diagonal ramp; checkerImage a high-contrast
// tile pattern. Their normalized embeddings are far apart.
func gradientImage(t *testing.T) []byte {
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.Pix[y*img.Stride+x] = uint8(x + y)
		}
	}
	return encodePNG(t, img)
}

func checkerImage(t *testing.T) []byte {
	img := image.NewGray(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			if (x/8+y/8)%2 == 0 {
				img.Pix[y*img.Stride+x] = 255
			}
		}
	}
	return encodePNG(t, img)
}

func newTestVerifier(det Detector) *Verifier {
	return NewVerifier(det, 0.60, 2*time.Second, 2)
}

func TestEmbedThenMatchSameImage(t *testing.T) {
	v := newTestVerifier(&stubDetector{regions: fullFrameRegion()})
	img := gradientImage(t)

	a, err := v.Embed(context.Background(), img)
	require.NoError(t, err)
	b, err := v.Embed(context.Background(), img)
	require.NoError(t, err)

	match, dist := v.Match(a, b)
	assert.True(t, match)
	assert.InDelta(t, 0, dist, 1e-9, "identical input embeds identically")
}

func TestMatchRejectsUnrelatedImage(t *testing.T) {
	v := newTestVerifier(&stubDetector{regions: fullFrameRegion()})

	a, err := v.Embed(context.Background(), gradientImage(t))
	require.NoError(t, err)
	b, err := v.Embed(context.Background(), checkerImage(t))
	require.NoError(t, err)

	match, dist := v.Match(a, b)
	assert.False(t, match)
	assert.Greater(t, dist, v.Threshold())
}

func TestEmbedFailsWithoutFace(t *testing.T) {
	v := newTestVerifier(&stubDetector{})

	_, err := v.Embed(context.Background(), gradientImage(t))
	assert.ErrorIs(t, err, ErrNoFaceDetected)
}

func TestEmbedFailsOnUndecodableInput(t *testing.T) {
	v := newTestVerifier(&stubDetector{regions: fullFrameRegion()})

	_, err := v.Embed(context.Background(), []byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestEmbedPicksHighestQualityRegion(t *testing.T) {
	// Two candidate regions: a tiny corner crop and the full frame with a
	// better score. The full frame must win deterministically.
	det := &stubDetector{regions: []Region{
		{Row: 8, Col: 8, Size: 16, Q: 6},
		{Row: 64, Col: 64, Size: 128, Q: 12},
	}}
	v := newTestVerifier(det)
	img := gradientImage(t)

	fromBoth, err := v.Embed(context.Background(), img)
	require.NoError(t, err)

	full := newTestVerifier(&stubDetector{regions: fullFrameRegion()})
	reference, err := full.Embed(context.Background(), img)
	require.NoError(t, err)

	match, _ := v.Match(fromBoth, reference)
	assert.True(t, match, "selection must use the best-scored region")
}

func TestEmbedHonorsContextCancellation(t *testing.T) {
	v := newTestVerifier(&stubDetector{regions: fullFrameRegion()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Embed(ctx, gradientImage(t))
	assert.Error(t, err)
}

func TestEmbedClampsRegionToImage(t *testing.T) {
	det := &stubDetector{regions: []Region{{Row: 0, Col: 0, Size: 512, Q: 9}}}
	v := newTestVerifier(det)

	emb, err := v.Embed(context.Background(), gradientImage(t))
	require.NoError(t, err)
	assert.Len(t, emb, patchSize*patchSize)
}
