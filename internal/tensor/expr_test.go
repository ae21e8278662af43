package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndarray/internal/parallel"
)

func TestBinaryOps(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4}, Shape{2, 2})
	b := mustFromSlice(t, []float64{10, 20}, Shape{2})

	tests := []struct {
		name string
		op   func(x, y Expr[float64]) (*Node[float64], error)
		want []float64
	}{
		{"add", Add[float64], []float64{11, 22, 13, 24}},
		{"sub", Sub[float64], []float64{-9, -18, -7, -16}},
		{"mul", Mul[float64], []float64{10, 40, 30, 80}},
		{"div", Div[float64], []float64{0.1, 0.1, 0.3, 0.2}},
		{"minimum", Minimum[float64], []float64{1, 2, 3, 4}},
		{"maximum", Maximum[float64], []float64{10, 20, 10, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.op(a, b)
			require.NoError(t, err)
			assert.Equal(t, OpBinary, n.Op())
			assert.Equal(t, tt.name, n.Name())
			assert.Equal(t, Shape{2, 2}, n.Shape())
			assert.InDeltaSlice(t, tt.want, rowMajor[float64](n), 1e-12)
		})
	}
}

func TestBinaryShapeMismatch(t *testing.T) {
	a := must1(Zeros[float32](Shape{3, 4}, RowMajor))
	b := must1(Zeros[float32](Shape{3, 5}, RowMajor))
	_, err := Add[float32](a, b)
	require.ErrorIs(t, err, ErrShapeMismatch)
	assert.Contains(t, err.Error(), "add")
}

func TestBroadcastingScenario(t *testing.T) {
	// (3,1) + (1,4) -> (3,4)
	col := mustFromSlice(t, []int{0, 10, 20}, Shape{3, 1})
	row := mustFromSlice(t, []int{1, 2, 3, 4}, Shape{1, 4})
	sum := must1(Add[int](col, row))
	require.Equal(t, Shape{3, 4}, sum.Shape())
	assert.Equal(t, []int{1, 2, 3, 4, 11, 12, 13, 14, 21, 22, 23, 24}, rowMajor[int](sum))

	// (2,3) + scalar
	m := mustFromSlice(t, []int{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	plus := must1(Add[int](m, Scalar(100)))
	assert.Equal(t, []int{101, 102, 103, 104, 105, 106}, rowMajor[int](plus))
}

func TestUnaryOps(t *testing.T) {
	a := mustFromSlice(t, []int{-2, -1, 0, 3}, Shape{4})

	assert.Equal(t, []int{2, 1, 0, -3}, rowMajor[int](Neg[int](a)))
	assert.Equal(t, []int{2, 1, 0, 3}, rowMajor[int](Abs[int](a)))

	sq := Map[int](a, func(v int) int { return v * v })
	assert.Equal(t, OpUnary, sq.Op())
	assert.Equal(t, []int{4, 1, 0, 9}, rowMajor[int](sq))

	z, err := Zip[int](a, Scalar(2), func(x, y int) int { return x*10 + y })
	require.NoError(t, err)
	assert.Equal(t, []int{-18, -8, 2, 32}, rowMajor[int](z))
}

func TestNestedExpressionIsLazy(t *testing.T) {
	a := mustFromSlice(t, []int{1, 2, 3}, Shape{3})
	calls := 0
	n := Map[int](a, func(v int) int { calls++; return v + 1 })
	sum := must1(Add[int](n, n))
	assert.Zero(t, calls, "building an expression evaluates nothing")

	// Operands are read at evaluation time.
	a.Set(10, 0)
	assert.Equal(t, 22, sum.Elem([]int{0}))
	assert.Equal(t, 2, calls)
}

func TestWhere(t *testing.T) {
	a := mustFromSlice(t, []int{1, 5, 2, 8}, Shape{4})
	cond := must1(Greater[int](a, Scalar(3)))
	w, err := Where[int](cond, a, Scalar(0))
	require.NoError(t, err)
	assert.Equal(t, OpWhere, w.Op())
	assert.Equal(t, []int{0, 5, 0, 8}, rowMajor[int](w))

	bad := mustFromSlice(t, []bool{true, false}, Shape{2})
	_, err = Where[int](bad, a, Scalar(0))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCompare(t *testing.T) {
	a := mustFromSlice(t, []int{1, 2, 3}, Shape{3})
	b := mustFromSlice(t, []int{3, 2, 1}, Shape{3})

	tests := []struct {
		op   CmpOp
		want []bool
	}{
		{CmpEqual, []bool{false, true, false}},
		{CmpNotEqual, []bool{true, false, true}},
		{CmpLess, []bool{true, false, false}},
		{CmpLessEqual, []bool{true, true, false}},
		{CmpGreater, []bool{false, false, true}},
		{CmpGreaterEqual, []bool{false, true, true}},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			c, err := Cmp[int](tt.op, a, b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rowMajor[bool](c))
		})
	}
}

func TestLogicalOps(t *testing.T) {
	x := mustFromSlice(t, []bool{true, true, false, false}, Shape{4})
	y := mustFromSlice(t, []bool{true, false, true, false}, Shape{4})

	assert.Equal(t, []bool{true, false, false, false}, rowMajor[bool](must1(And(x, y))))
	assert.Equal(t, []bool{true, true, true, false}, rowMajor[bool](must1(Or(x, y))))
	assert.Equal(t, []bool{false, false, true, true}, rowMajor[bool](Not(x)))
}

func TestCast(t *testing.T) {
	a := mustFromSlice(t, []float64{1.9, -2.5, 3}, Shape{3})
	c := Cast[int32, float64](a)
	assert.Equal(t, []int32{1, -2, 3}, rowMajor[int32](c))

	big := mustFromSlice(t, []int64{math.MaxInt32 + 1}, Shape{1})
	assert.Equal(t, []float64{math.MaxInt32 + 1}, rowMajor[float64](Cast[float64, int64](big)))
}

func TestBroadcastNode(t *testing.T) {
	a := mustFromSlice(t, []int{1, 2}, Shape{2})
	b, err := Broadcast[int](a, Shape{3, 2})
	require.NoError(t, err)
	assert.Equal(t, OpBroadcast, b.Op())
	assert.Equal(t, []int{1, 2, 1, 2, 1, 2}, rowMajor[int](b))

	_, err = Broadcast[int](a, Shape{3, 3})
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestEval(t *testing.T) {
	a := mustFromSlice(t, []int{1, 2, 3, 4, 5, 6}, Shape{2, 3})
	n := must1(Mul[int](a, Scalar(2)))

	r, err := Eval[int](n, RowMajor)
	require.NoError(t, err)
	assert.Equal(t, Owned, r.Kind())
	assert.Equal(t, []int{2, 4, 6, 8, 10, 12}, r.Data())

	f, err := Eval[int](n, ColumnMajor)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 8, 4, 10, 6, 12}, f.Data())
	assert.Equal(t, r.ToSlice(RowMajor), f.ToSlice(RowMajor))
}

func TestEvalChunkedCopy(t *testing.T) {
	cfg := parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 7}

	base := must1(Reshape(must1(Arange(0, 1200, 1)), Shape{30, 40}))
	tr := must1(Transpose(base))
	view := must1(Slice(tr, Step(1, 40, 3), All()))

	for _, layout := range []Layout{RowMajor, ColumnMajor} {
		got, err := evalWith[int](view, layout, cfg)
		require.NoError(t, err)
		require.Equal(t, view.Shape(), got.Shape())
		for pos, idx := range Indices(view.Shape(), layout) {
			require.Equal(t, view.Elem(idx), got.Data()[pos], "layout %v position %d", layout, pos)
		}
	}
}

func TestEvalParallel(t *testing.T) {
	m := must1(Reshape(must1(Arange(0, 6, 1)), Shape{2, 3}))
	tr := must1(Transpose(m))

	for _, workers := range []int{0, 1, 3} {
		got, err := EvalParallel[int](tr, RowMajor, workers)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 3, 1, 4, 2, 5}, got.Data())
	}

	// Lazy nodes stay on the calling goroutine.
	calls := 0
	n := Map[int](m, func(v int) int { calls++; return v })
	got, err := EvalParallel[int](n, RowMajor, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, got.Data())
	assert.Equal(t, 6, calls)

	_, err = EvalParallel[int](m, RowMajor, -1)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestAssign(t *testing.T) {
	t.Run("broadcast", func(t *testing.T) {
		dst := must1(Zeros[int](Shape{2, 3}, RowMajor))
		require.NoError(t, Assign[int](dst, mustFromSlice(t, []int{1, 2, 3}, Shape{3})))
		assert.Equal(t, []int{1, 2, 3, 1, 2, 3}, dst.Data())

		err := Assign[int](dst, mustFromSlice(t, []int{1, 2}, Shape{2}))
		require.ErrorIs(t, err, ErrShapeMismatch)
	})

	t.Run("into view", func(t *testing.T) {
		m := must1(Zeros[int](Shape{3, 3}, RowMajor))
		diag := must1(AsStrided(m, Shape{3}, []int{4}, 0))
		require.NoError(t, Assign[int](diag, Scalar(7)))
		assert.Equal(t, []int{7, 0, 0, 0, 7, 0, 0, 0, 7}, m.Data())
	})

	t.Run("self-referencing", func(t *testing.T) {
		// a = a + reversed(a) must read every operand before writing.
		a := mustFromSlice(t, []int{1, 2, 3, 4}, Shape{4})
		rev := must1(Flip(a, 0))
		sum := must1(Add[int](a, rev))
		require.NoError(t, Assign[int](a, sum))
		assert.Equal(t, []int{5, 5, 5, 5}, a.Data())
	})

	t.Run("transpose in place", func(t *testing.T) {
		a := mustFromSlice(t, []int{1, 2, 3, 4}, Shape{2, 2})
		require.NoError(t, Assign[int](a, must1(Transpose(a))))
		assert.Equal(t, []int{1, 3, 2, 4}, a.Data())
	})

	t.Run("read-only", func(t *testing.T) {
		a := must1(Zeros[int](Shape{1}, RowMajor))
		b := must1(BroadcastTo(a, Shape{4}))
		require.ErrorIs(t, Assign[int](b, Scalar(1)), ErrReadOnly)
	})
}

// foreign is an Expr implemented outside the package's node types.
type foreign struct{ shape Shape }

func (f foreign) Shape() Shape       { return f.shape }
func (f foreign) Layout() Layout     { return RowMajor }
func (f foreign) Elem(idx []int) int { return idx[0] * 100 }

func TestForeignExpr(t *testing.T) {
	sum := must1(Add[int](foreign{Shape{3}}, Scalar(1)))
	dst := must1(Zeros[int](Shape{3}, RowMajor))
	require.NoError(t, Assign[int](dst, sum))
	assert.Equal(t, []int{1, 101, 201}, dst.Data())
}
