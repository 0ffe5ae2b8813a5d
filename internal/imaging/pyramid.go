package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// Plane is a single-channel float raster used for correlation.
type Plane struct {
	W, H int
	Pix  []float64 // luma, row-major
	Mask []uint8   // 1 = pixel participates; nil means every pixel does
}

// At returns the value at (x, y).
func (p *Plane) At(x, y int) float64 {
	return p.Pix[y*p.W+x]
}

// PyrDown halves img in each dimension, rounding up, by averaging 2x2
// blocks. Alpha is averaged along with color.
func PyrDown(img image.Image) *image.NRGBA {
	b := img.Bounds()
	return imaging.Resize(img, (b.Dx()+1)/2, (b.Dy()+1)/2, imaging.Box)
}

// GrayPyramid converts img to grayscale and returns levels+1 planes, level 0
// being full resolution and each following level half the previous one.
//
// When masked is true every plane carries its own mask, thresholded at
// DefaultAlphaThreshold from that level's resampled alpha. Thresholding per
// level keeps thin opaque features that a downsampled binary mask would
// erode away.
func GrayPyramid(img image.Image, levels int, masked bool) ([]*Plane, error) {
	gray, err := Grayscale(img)
	if err != nil {
		return nil, err
	}

	planes := make([]*Plane, 0, levels+1)
	cur := gray
	for i := 0; i <= levels; i++ {
		if i > 0 {
			cur = PyrDown(cur)
		}
		planes = append(planes, planeOf(cur, masked))
	}
	return planes, nil
}

// planeOf reads the luma (R channel) of a grayscale NRGBA image.
func planeOf(m *image.NRGBA, masked bool) *Plane {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	p := &Plane{W: w, H: h, Pix: make([]float64, w*h)}
	for y := 0; y < h; y++ {
		row := m.Pix[y*m.Stride:]
		for x := 0; x < w; x++ {
			p.Pix[y*w+x] = float64(row[x*4])
		}
	}
	if masked {
		p.Mask = alphaMask(m, DefaultAlphaThreshold)
	}
	return p
}
