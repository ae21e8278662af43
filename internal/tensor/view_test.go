package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspose(t *testing.T) {
	a := mustFromSlice(t, []int{0, 1, 2, 3, 4, 5}, Shape{2, 3})

	t.Run("reverse", func(t *testing.T) {
		tr, err := Transpose(a)
		require.NoError(t, err)
		assert.Equal(t, Shape{3, 2}, tr.Shape())
		assert.Equal(t, ColumnMajor, tr.Layout())
		assert.True(t, tr.IsContiguous())
		assert.Equal(t, []int{0, 3, 1, 4, 2, 5}, tr.ToSlice(RowMajor))
	})

	t.Run("permutation", func(t *testing.T) {
		b := must1(Arange(0, 24, 1))
		b = must1(Reshape(b, Shape{2, 3, 4}))
		p, err := Transpose(b, 1, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, Shape{3, 4, 2}, p.Shape())
		assert.Equal(t, b.At(1, 2, 3), p.At(2, 3, 1))
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Transpose(a, 0, 0)
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = Transpose(a, 0)
		require.ErrorIs(t, err, ErrShapeMismatch)
		_, err = Transpose(a, 0, 2)
		require.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestSwapAxes(t *testing.T) {
	a := mustFromSlice(t, []int{0, 1, 2, 3, 4, 5}, Shape{1, 2, 3})
	s, err := SwapAxes(a, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, Shape{3, 2, 1}, s.Shape())
	assert.Equal(t, 5, s.At(2, 1, 0))
}

func TestSlice(t *testing.T) {
	a := must1(Arange(0, 20, 1))
	m := must1(Reshape(a, Shape{4, 5}))

	t.Run("row", func(t *testing.T) {
		row, err := Slice(m, Point(1))
		require.NoError(t, err)
		assert.Equal(t, Shape{5}, row.Shape())
		assert.Equal(t, []int{5, 6, 7, 8, 9}, row.ToSlice(RowMajor))
	})

	t.Run("negative point", func(t *testing.T) {
		row, err := Slice(m, Point(-1))
		require.NoError(t, err)
		assert.Equal(t, []int{15, 16, 17, 18, 19}, row.ToSlice(RowMajor))
	})

	t.Run("step", func(t *testing.T) {
		s, err := Slice(m, Span(1, 3), Step(0, 5, 2))
		require.NoError(t, err)
		assert.Equal(t, Shape{2, 3}, s.Shape())
		assert.Equal(t, []int{5, 7, 9, 10, 12, 14}, s.ToSlice(RowMajor))
		assert.False(t, s.IsContiguous())
	})

	t.Run("clamped", func(t *testing.T) {
		s, err := Slice(m, Span(-2, 100))
		require.NoError(t, err)
		assert.Equal(t, Shape{2, 5}, s.Shape())
		assert.Equal(t, 15, s.At(1, 0))

		e, err := Slice(m, Span(3, 1))
		require.NoError(t, err)
		assert.Equal(t, Shape{0, 5}, e.Shape())
	})

	t.Run("writes through", func(t *testing.T) {
		c := m.Clone()
		s := must1(Slice(c, All(), Span(1, 2)))
		require.NoError(t, s.Fill(-1))
		assert.Equal(t, []int{0, -1, 2, 3, 4}, must1(Slice(c, Point(0))).ToSlice(RowMajor))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Slice(m, Point(4))
		require.ErrorIs(t, err, ErrOutOfRange)
		_, err = Slice(m, Step(0, 5, 0))
		require.ErrorIs(t, err, ErrInvalidArgument)
		_, err = Slice(m, All(), All(), All())
		require.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestFlip(t *testing.T) {
	m := mustFromSlice(t, []int{1, 2, 3, 4, 5, 6}, Shape{2, 3})

	f, err := Flip(m, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2, 1, 6, 5, 4}, f.ToSlice(RowMajor))

	f, err = Flip(m, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6, 1, 2, 3}, f.ToSlice(RowMajor))

	f.Set(0, 0, 0)
	assert.Equal(t, 0, m.At(1, 0))
}

func TestReshape(t *testing.T) {
	a := must1(Arange(0, 12, 1))

	t.Run("view", func(t *testing.T) {
		r, err := Reshape(a, Shape{3, -1})
		require.NoError(t, err)
		assert.Equal(t, Shape{3, 4}, r.Shape())
		assert.True(t, r.Aliases(a))
		assert.Equal(t, 6, r.At(1, 2))
	})

	t.Run("copy of non-contiguous", func(t *testing.T) {
		m := must1(Reshape(a, Shape{3, 4}))
		col := must1(Slice(m, All(), Span(0, 2)))
		r, err := Reshape(col, Shape{-1})
		require.NoError(t, err)
		assert.False(t, r.Aliases(a))
		assert.Equal(t, []int{0, 1, 4, 5, 8, 9}, r.ToSlice(RowMajor))
	})

	t.Run("column-major", func(t *testing.T) {
		f := must1(FromSlice([]int{0, 1, 2, 3, 4, 5}, Shape{2, 3}, ColumnMajor))
		r, err := Reshape(f, Shape{3, 2})
		require.NoError(t, err)
		// Elements are reinterpreted in column-major order.
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, r.ToSlice(ColumnMajor))
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Reshape(a, Shape{5, -1})
		require.ErrorIs(t, err, ErrShapeMismatch)
		_, err = Reshape(a, Shape{2, 2})
		require.ErrorIs(t, err, ErrShapeMismatch)
		_, err = Reshape(a, Shape{-2, 6})
		require.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("overflowing shapes", func(t *testing.T) {
		b := must1(Arange(0, 8, 1))

		// 4 * (2^62 + 2) wraps to 8 in 64-bit arithmetic.
		_, err := Reshape(b, Shape{4, 1<<62 + 2})
		require.ErrorIs(t, err, ErrOutOfMemory)

		_, err = Reshape(b, Shape{-1, 1 << 62, 8})
		require.ErrorIs(t, err, ErrOutOfMemory)

		_, err = Reshape(b, Shape{2, 1 << 62, 0})
		require.ErrorIs(t, err, ErrShapeMismatch)
	})
}

func TestRavel(t *testing.T) {
	m := mustFromSlice(t, []int{1, 2, 3, 4}, Shape{2, 2})
	r, err := Ravel(m)
	require.NoError(t, err)
	assert.Equal(t, Shape{4}, r.Shape())
	assert.True(t, r.Aliases(m))
}

func TestAsStrided(t *testing.T) {
	a := must1(Arange(0, 6, 1))

	// Sliding windows of length 3.
	w, err := AsStrided(a, Shape{4, 3}, []int{1, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 1, 2, 3, 2, 3, 4, 3, 4, 5}, w.ToSlice(RowMajor))

	_, err = AsStrided(a, Shape{4, 3}, []int{2, 1}, 0)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = AsStrided(a, Shape{2}, []int{-1}, 0)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = AsStrided(a, Shape{2}, []int{1, 1}, 0)
	require.ErrorIs(t, err, ErrShapeMismatch)

	// 4 * 2^62 wraps to 0 and would otherwise pass the bounds check.
	_, err = AsStrided(a, Shape{5}, []int{1 << 62}, 0)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = AsStrided(a, Shape{2, 2}, []int{1 << 62, 1 << 62}, 1<<62)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestIndexView(t *testing.T) {
	m := mustFromSlice(t, []int{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	v, err := IndexView(m, []Index{{1, 2}, {0, 0}, {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, Indirect, v.Kind())
	assert.Nil(t, v.Strides())
	assert.Equal(t, []int{6, 1, 6}, v.ToSlice(RowMajor))

	v.SetFlat(1, 10)
	assert.Equal(t, 10, m.At(0, 0))

	_, err = IndexView(m, []Index{{2, 0}})
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestIndirectViewsCompose(t *testing.T) {
	m := mustFromSlice(t, []int{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	v := must1(IndexView(m, []Index{{0, 0}, {0, 2}, {1, 1}, {1, 2}}))
	sq := must1(Reshape(v, Shape{2, 2}))
	assert.Equal(t, Indirect, sq.Kind())

	tr, err := Transpose(sq)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 5, 3, 6}, tr.ToSlice(RowMajor))

	f, err := Flip(sq, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 1, 3}, f.ToSlice(RowMajor))

	s, err := Slice(sq, All(), Point(1))
	require.NoError(t, err)
	s.SetFlat(1, 60)
	assert.Equal(t, 60, m.At(1, 2))
}

func TestFilter(t *testing.T) {
	a := mustFromSlice(t, []int{7, 13, 19, 11, 5, 8, -2, 7, 11, 3}, Shape{10})
	mask := must1(Greater[int](a, Scalar(10)))

	v, err := Filter(a, mask)
	require.NoError(t, err)
	assert.Equal(t, []int{13, 19, 11, 11}, v.ToSlice(RowMajor))

	require.NoError(t, v.Fill(0))
	assert.Equal(t, []int{7, 0, 0, 0, 5, 8, -2, 7, 0, 3}, a.Data())

	_, err = Filter(a, must1(Greater[int](must1(Zeros[int](Shape{2, 5}, RowMajor)), Scalar(0))))
	require.ErrorIs(t, err, ErrShapeMismatch)
}
