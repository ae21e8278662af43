// Package matrix adapts rank-2 tensors to gonum's mat package, the boundary
// used by linear-algebra consumers of the engine.
package matrix

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/ndarray/internal/tensor"
)

// View exposes a rank-2 float64 tensor as a gonum matrix without copying.
// Writes through Set land in the tensor's buffer.
type View struct {
	t *tensor.Tensor[float64]
}

var _ mat.Mutable = (*View)(nil)

// AsMatrix wraps t, which must have rank 2. Any storage kind is accepted.
func AsMatrix(t *tensor.Tensor[float64]) (*View, error) {
	if t.Rank() != 2 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "as_matrix: shape %v is not rank 2", t.Shape())
	}
	return &View{t: t}, nil
}

// Dims returns the number of rows and columns.
func (v *View) Dims() (r, c int) {
	s := v.t.Shape()
	return s[0], s[1]
}

// At returns the element at row i, column j. It panics when out of bounds,
// as gonum matrices do.
func (v *View) At(i, j int) float64 {
	return v.t.At(i, j)
}

// Set writes the element at row i, column j.
func (v *View) Set(i, j int, x float64) {
	v.t.Set(x, i, j)
}

// T returns the transpose as another view over the same memory.
func (v *View) T() mat.Matrix {
	tr, err := tensor.Transpose(v.t)
	if err != nil {
		panic(err)
	}
	return &View{t: tr}
}

// Tensor returns the wrapped tensor.
func (v *View) Tensor() *tensor.Tensor[float64] {
	return v.t
}

// FromMatrix copies any gonum matrix into a new owned tensor.
func FromMatrix(m mat.Matrix, layout tensor.Layout) (*tensor.Tensor[float64], error) {
	r, c := m.Dims()
	out, err := tensor.Empty[float64](tensor.Shape{r, c}, layout)
	if err != nil {
		return nil, err
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.SetElem([]int{i, j}, m.At(i, j))
		}
	}
	return out, nil
}

// WrapDense returns a strided tensor view over d's backing storage, so
// mutations through either side are visible to the other.
func WrapDense(d *mat.Dense) (*tensor.Tensor[float64], error) {
	raw := d.RawMatrix()
	base, err := tensor.Wrap(raw.Data, tensor.Shape{len(raw.Data)}, tensor.RowMajor)
	if err != nil {
		return nil, err
	}
	return tensor.AsStrided(base, tensor.Shape{raw.Rows, raw.Cols}, []int{raw.Stride, 1}, 0)
}

// ToDense copies a rank-2 expression into a new gonum Dense matrix.
func ToDense(e tensor.Expr[float64]) (*mat.Dense, error) {
	s := e.Shape()
	if len(s) != 2 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "to_dense: shape %v is not rank 2", s)
	}
	if s[0] == 0 || s[1] == 0 {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "to_dense: gonum cannot hold empty shape %v", s)
	}
	flat, err := tensor.Flatten(e, tensor.RowMajor)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(s[0], s[1], flat.Data()), nil
}
