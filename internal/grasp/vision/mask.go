// Package vision implements the depth-difference visibility mask used by
// gaze-based target acquisition. An object's visibility is decided by
// differencing two depth renders (object present vs. object removed)
// rather than by projecting geometry through camera intrinsics, so that
// occlusion by other scene geometry is accounted for automatically.
//
// Masks are binary images over gonum mat.Dense with values 0 or 255,
// rows = image height, cols = image width. They are transient: computed
// per evaluation and never persisted.
package vision

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// MaskOn is the intensity of a set mask pixel.
const MaskOn = 255.0

// DefaultBlurKernel is the box blur window used to denoise difference
// masks before re-binarising.
const DefaultBlurKernel = 5

// Rect is an axis-aligned pixel rectangle: X,Y is the top-left corner,
// W,H the extent in pixels.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the pixel (px, py) lies within the rectangle,
// inclusive on all four edges: x <= px <= x+w and y <= py <= y+h.
func (r Rect) Contains(px, py int) bool {
	return r.X <= px && px <= r.X+r.W && r.Y <= py && py <= r.Y+r.H
}

// DiffMask returns the binary difference of two depth images: pixels
// where the absolute depth difference is nonzero are set to MaskOn, all
// others to zero. The inputs must share dimensions.
func DiffMask(a, b *mat.Dense) (*mat.Dense, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return nil, fmt.Errorf("depth image dimensions differ: %dx%d vs %dx%d", ar, ac, br, bc)
	}
	out := mat.NewDense(ar, ac, nil)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			if math.Abs(a.At(i, j)-b.At(i, j)) > 0 {
				out.Set(i, j, MaskOn)
			}
		}
	}
	return out, nil
}

// BoxBlur applies a k x k local average to the image. Windows are
// clipped at the image border and normalised by the number of in-window
// pixels, so a fully-set neighbourhood still averages to exactly MaskOn.
func BoxBlur(m *mat.Dense, k int) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	half := k / 2
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			var sum float64
			var n int
			for di := -half; di <= half; di++ {
				for dj := -half; dj <= half; dj++ {
					ri, rj := i+di, j+dj
					if ri < 0 || ri >= rows || rj < 0 || rj >= cols {
						continue
					}
					sum += m.At(ri, rj)
					n++
				}
			}
			out.Set(i, j, sum/float64(n))
		}
	}
	return out
}

// Denoise removes isolated difference pixels from a binary mask: the
// mask is blurred and then re-binarised all-or-nothing, so only pixels
// whose entire blur window was set survive. Mutates and returns a new
// mask; the input is left untouched.
func Denoise(mask *mat.Dense, kernel int) *mat.Dense {
	blurred := BoxBlur(mask, kernel)
	rows, cols := blurred.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if blurred.At(i, j) < MaskOn {
				blurred.Set(i, j, 0)
			}
		}
	}
	return blurred
}

// VisibilityMask runs the full pipeline: binary difference of the two
// depth renders followed by denoising.
func VisibilityMask(withObject, withoutObject *mat.Dense, kernel int) (*mat.Dense, error) {
	diff, err := DiffMask(withObject, withoutObject)
	if err != nil {
		return nil, err
	}
	return Denoise(diff, kernel), nil
}

// BoundingRect returns the bounding rectangle of the mask's nonzero
// region. The second return is false when the mask is empty.
func BoundingRect(mask *mat.Dense) (Rect, bool) {
	rows, cols := mask.Dims()
	minRow, minCol := rows, cols
	maxRow, maxCol := -1, -1
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if mask.At(i, j) == 0 {
				continue
			}
			if i < minRow {
				minRow = i
			}
			if i > maxRow {
				maxRow = i
			}
			if j < minCol {
				minCol = j
			}
			if j > maxCol {
				maxCol = j
			}
		}
	}
	if maxRow < 0 {
		return Rect{}, false
	}
	return Rect{
		X: minCol,
		Y: minRow,
		W: maxCol - minCol + 1,
		H: maxRow - minRow + 1,
	}, true
}

// CenterContained reports whether the image's centre pixel
// (width/2, height/2) falls inside the bounding rectangle of the mask's
// nonzero region. An empty mask never contains the centre.
func CenterContained(mask *mat.Dense) bool {
	rect, ok := BoundingRect(mask)
	if !ok {
		return false
	}
	rows, cols := mask.Dims()
	return rect.Contains(cols/2, rows/2)
}
