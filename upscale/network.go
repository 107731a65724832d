package upscale

import (
	"errors"
	"image"
	"image/color"

	"github.com/gonum/matrix/mat64"
)

// layerSpec mirrors one convolution layer of a pretrained weight file:
// Weight is indexed [output plane][input plane][kernel row][kernel col].
type layerSpec struct {
	Weight       [][][][]float64 `json:"weight"`
	Bias         []float64       `json:"bias"`
	NInputPlane  int             `json:"nInputPlane"`
	NOutputPlane int             `json:"nOutputPlane"`
	KW           int             `json:"kW"`
	KH           int             `json:"kH"`
}

// network is a stack of 3x3 convolution layers applied to the luma channel
// of an already interpolation-upscaled image. Chroma passes through
// untouched.
type network struct {
	layers []layerSpec
}

func (n *network) empty() bool {
	return len(n.layers) == 0
}

// refine runs the convolution stack over the luma plane of src and writes
// the refined luma back over the original chroma.
func (n *network) refine(src image.Image) (*image.RGBA, error) {
	b := src.Bounds()
	width, height := b.Dx(), b.Dy()

	pix := make([]color.YCbCr, width*height)
	luma := make([]float64, width*height)
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := src.At(x, y).RGBA()
			Y, cb, cr := color.RGBToYCbCr(uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			pix[idx] = color.YCbCr{Y: Y, Cb: cb, Cr: cr}
			luma[idx] = float64(Y) / 255.0
			idx++
		}
	}

	// Replicate-padding by the layer count keeps the final plane at the
	// source dimensions, since every 3x3 correlation shrinks by one on
	// each side.
	planes := []*mat64.Dense{padReplicate(mat64.NewDense(height, width, luma), len(n.layers))}

	for _, l := range n.layers {
		depth := min(len(l.Bias), len(l.Weight))
		next := make([]*mat64.Dense, 0, depth)
		for i := 0; i < depth; i++ {
			kernels := l.Weight[i]
			var sum *mat64.Dense
			for j := 0; j < len(planes) && j < len(kernels); j++ {
				p := correlate3x3(planes[j], kernels[j])
				if sum == nil {
					sum = p
				} else {
					sum.Add(sum, p)
				}
			}
			if sum == nil {
				return nil, errors.New("malformed layer: no kernels")
			}
			next = append(next, leakyReLU(sum, l.Bias[i]))
		}
		planes = next
	}

	if len(planes) != 1 {
		return nil, errors.New("network did not converge to a single output plane")
	}

	out := planes[0]
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	idx = 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := clamp(out.At(y, x), 0, 1)
			c := pix[idx]
			c.Y = uint8(v * 255.0)
			dst.Set(x, y, c)
			idx++
		}
	}
	return dst, nil
}

// padReplicate grows m by p on every side, repeating the border values.
func padReplicate(m *mat64.Dense, p int) *mat64.Dense {
	r, c := m.Dims()
	out := mat64.NewDense(r+2*p, c+2*p, nil)
	for i := 0; i < r+2*p; i++ {
		si := clampInt(i-p, 0, r-1)
		for j := 0; j < c+2*p; j++ {
			sj := clampInt(j-p, 0, c-1)
			out.Set(i, j, m.At(si, sj))
		}
	}
	return out
}

// correlate3x3 applies a 3x3 kernel at every interior point, shrinking the
// plane by one on each side.
func correlate3x3(m *mat64.Dense, k [][]float64) *mat64.Dense {
	r, c := m.Dims()
	out := mat64.NewDense(r-2, c-2, nil)
	for i := 1; i < r-1; i++ {
		for j := 1; j < c-1; j++ {
			s := m.At(i-1, j-1)*k[0][0] + m.At(i-1, j)*k[0][1] + m.At(i-1, j+1)*k[0][2] +
				m.At(i, j-1)*k[1][0] + m.At(i, j)*k[1][1] + m.At(i, j+1)*k[1][2] +
				m.At(i+1, j-1)*k[2][0] + m.At(i+1, j)*k[2][1] + m.At(i+1, j+1)*k[2][2]
			out.Set(i-1, j-1, s)
		}
	}
	return out
}

// leakyReLU adds the layer bias and applies max(v,0) + 0.1*min(v,0)
// in place.
func leakyReLU(m *mat64.Dense, bias float64) *mat64.Dense {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j) + bias
			if v < 0 {
				v *= 0.1
			}
			m.Set(i, j, v)
		}
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
