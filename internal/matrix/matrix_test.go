package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/ndarray/internal/tensor"
)

func mustTensor(t *testing.T, data []float64, shape tensor.Shape) *tensor.Tensor[float64] {
	t.Helper()
	out, err := tensor.FromSlice(data, shape, tensor.RowMajor)
	require.NoError(t, err)
	return out
}

func TestAsMatrix(t *testing.T) {
	a := mustTensor(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	v, err := AsMatrix(a)
	require.NoError(t, err)

	r, c := v.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.True(t, mat.Equal(v, mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})))

	v.Set(0, 0, 10)
	assert.Equal(t, 10.0, a.At(0, 0))
	assert.Same(t, a, v.Tensor())

	_, err = AsMatrix(mustTensor(t, []float64{1, 2}, tensor.Shape{2}))
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestViewTranspose(t *testing.T) {
	a := mustTensor(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	v, err := AsMatrix(a)
	require.NoError(t, err)

	want := mat.NewDense(3, 2, []float64{1, 4, 2, 5, 3, 6})
	assert.True(t, mat.Equal(v.T(), want))

	// A^T A through gonum, reading straight from the tensor.
	var prod mat.Dense
	prod.Mul(v.T(), v)
	expected := mat.NewDense(3, 3, []float64{
		17, 22, 27,
		22, 29, 36,
		27, 36, 45,
	})
	assert.True(t, mat.EqualApprox(&prod, expected, 1e-12))
}

func TestViewOfStridedTensor(t *testing.T) {
	a := mustTensor(t, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{3, 3})
	sub, err := tensor.Slice(a, tensor.Step(0, 3, 2), tensor.Span(1, 3))
	require.NoError(t, err)

	v, err := AsMatrix(sub)
	require.NoError(t, err)
	assert.True(t, mat.Equal(v, mat.NewDense(2, 2, []float64{2, 3, 8, 9})))
}

func TestFromMatrix(t *testing.T) {
	d := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	out, err := FromMatrix(d, tensor.ColumnMajor)
	require.NoError(t, err)
	assert.Equal(t, tensor.ColumnMajor, out.Layout())
	assert.Equal(t, []float64{1, 3, 2, 4}, out.Data())

	d.Set(0, 0, 100)
	assert.Equal(t, 1.0, out.At(0, 0), "FromMatrix copies")
}

func TestWrapDense(t *testing.T) {
	d := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	out, err := WrapDense(d)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, 6.0, out.At(1, 2))

	out.Set(-1, 0, 1)
	assert.Equal(t, -1.0, d.At(0, 1))

	d.Set(1, 0, 40)
	assert.Equal(t, 40.0, out.At(1, 0))

	// A sub-matrix has a stride wider than its column count.
	sub := d.Slice(0, 2, 1, 3).(*mat.Dense)
	sv, err := WrapDense(sub)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1, 3, 5, 6}, sv.ToSlice(tensor.RowMajor))
}

func TestToDense(t *testing.T) {
	a := mustTensor(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	tr, err := tensor.Transpose(a)
	require.NoError(t, err)

	d, err := ToDense(tr)
	require.NoError(t, err)
	assert.True(t, mat.Equal(d, mat.NewDense(3, 2, []float64{1, 4, 2, 5, 3, 6})))

	sum, err := tensor.Add[float64](a, tensor.Scalar(1.0))
	require.NoError(t, err)
	d, err = ToDense(sum)
	require.NoError(t, err)
	assert.Equal(t, 7.0, d.At(1, 2))

	_, err = ToDense(mustTensor(t, []float64{1}, tensor.Shape{1}))
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)

	empty, err := tensor.Zeros[float64](tensor.Shape{0, 3}, tensor.RowMajor)
	require.NoError(t, err)
	_, err = ToDense(empty)
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
