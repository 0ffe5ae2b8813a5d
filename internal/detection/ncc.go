package detection

import (
	"math"

	"github.com/ironsheep/visual-match/internal/imaging"
)

// flatVariance is the per-pixel variance below which a patch is treated as
// constant.
const flatVariance = 1e-6

// scoreMap holds a correlation score for every placement of a template
// inside a search plane. Placement (x, y) is stored at y*W+x.
type scoreMap struct {
	W, H   int
	Scores []float64
}

// best returns the highest score and its placement. Ties keep the first
// placement in row-major order.
func (m *scoreMap) best() (x, y int, score float64) {
	score = math.Inf(-1)
	for i, s := range m.Scores {
		if s > score {
			score = s
			x, y = i%m.W, i/m.W
		}
	}
	return x, y, score
}

// integral is a summed-area table over a plane and over its squares, padded
// with a zero row and column so window sums need no edge checks.
type integral struct {
	stride int
	sum    []float64
	sumSq  []float64
}

func newIntegral(p *imaging.Plane) *integral {
	stride := p.W + 1
	in := &integral{
		stride: stride,
		sum:    make([]float64, stride*(p.H+1)),
		sumSq:  make([]float64, stride*(p.H+1)),
	}
	for y := 0; y < p.H; y++ {
		var rowSum, rowSq float64
		for x := 0; x < p.W; x++ {
			v := p.Pix[y*p.W+x]
			rowSum += v
			rowSq += v * v
			off := (y+1)*stride + x + 1
			in.sum[off] = in.sum[off-stride] + rowSum
			in.sumSq[off] = in.sumSq[off-stride] + rowSq
		}
	}
	return in
}

// window returns the sum and sum of squares over the w×h window at (x, y).
func (in *integral) window(x, y, w, h int) (sum, sumSq float64) {
	a := y*in.stride + x
	b := a + w
	c := (y+h)*in.stride + x
	d := c + w
	return in.sum[d] - in.sum[b] - in.sum[c] + in.sum[a],
		in.sumSq[d] - in.sumSq[b] - in.sumSq[c] + in.sumSq[a]
}

// correlate computes the normalized correlation coefficient of tmpl against
// every placement inside img. When tmpl carries a mask only its set pixels
// take part, both in the template statistics and in each window's.
//
// The caller guarantees tmpl fits inside img.
func correlate(img, tmpl *imaging.Plane) *scoreMap {
	m := &scoreMap{W: img.W - tmpl.W + 1, H: img.H - tmpl.H + 1}
	m.Scores = make([]float64, m.W*m.H)

	if tmpl.Mask != nil {
		correlateMasked(img, tmpl, m)
		return m
	}

	n := float64(tmpl.W * tmpl.H)
	var sumT float64
	for _, v := range tmpl.Pix {
		sumT += v
	}
	meanT := sumT / n

	// Zero-mean template: sum(t'·f) equals sum(t'·(f - meanF)).
	tz := make([]float64, len(tmpl.Pix))
	var varT float64
	for i, v := range tmpl.Pix {
		tz[i] = v - meanT
		varT += tz[i] * tz[i]
	}
	flatT := varT/n <= flatVariance

	in := newIntegral(img)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			sumF, sumF2 := in.window(x, y, tmpl.W, tmpl.H)
			varF := sumF2 - sumF*sumF/n
			flatF := varF/n <= flatVariance

			var score float64
			switch {
			case flatT && flatF:
				score = 1
			case flatT || flatF:
				score = 0
			default:
				var cross float64
				for ty := 0; ty < tmpl.H; ty++ {
					row := img.Pix[(y+ty)*img.W+x:]
					trow := tz[ty*tmpl.W : (ty+1)*tmpl.W]
					for tx, t := range trow {
						cross += t * row[tx]
					}
				}
				score = clampScore(cross / math.Sqrt(varT*varF))
			}
			m.Scores[y*m.W+x] = score
		}
	}
	return m
}

// correlateMasked is correlate restricted to the template's mask.
func correlateMasked(img, tmpl *imaging.Plane, m *scoreMap) {
	offsets := make([]int, 0, len(tmpl.Mask))
	values := make([]float64, 0, len(tmpl.Mask))
	for ty := 0; ty < tmpl.H; ty++ {
		for tx := 0; tx < tmpl.W; tx++ {
			i := ty*tmpl.W + tx
			if tmpl.Mask[i] == 0 {
				continue
			}
			offsets = append(offsets, ty*img.W+tx)
			values = append(values, tmpl.Pix[i])
		}
	}
	if len(offsets) == 0 {
		return
	}

	n := float64(len(values))
	var sumT float64
	for _, v := range values {
		sumT += v
	}
	meanT := sumT / n
	var varT float64
	for i, v := range values {
		values[i] = v - meanT
		varT += values[i] * values[i]
	}
	flatT := varT/n <= flatVariance

	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			base := y*img.W + x
			var sumF, sumF2, cross float64
			for i, off := range offsets {
				f := img.Pix[base+off]
				sumF += f
				sumF2 += f * f
				cross += values[i] * f
			}
			varF := sumF2 - sumF*sumF/n
			flatF := varF/n <= flatVariance

			var score float64
			switch {
			case flatT && flatF:
				score = 1
			case flatT || flatF:
				score = 0
			default:
				score = clampScore(cross / math.Sqrt(varT*varF))
			}
			m.Scores[y*m.W+x] = score
		}
	}
}

func clampScore(s float64) float64 {
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
