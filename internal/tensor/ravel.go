package tensor

import (
	"github.com/pkg/errors"
)

// RavelExpr is the lazy, vectorized form of RavelIndex.
type RavelExpr[I Integer] struct {
	coords  []Expr[I]
	target  Shape
	layout  Layout
	shape   Shape
	scratch [][]int
	tmp     []int
}

// RavelMultiIndex converts per-axis coordinate arrays into flat offsets of
// target under layout. The coordinate arrays broadcast together; the result is
// an expression of their common shape. Every coordinate is range-checked
// here, so evaluation cannot fail.
func RavelMultiIndex[I Integer](coords []Expr[I], target Shape, layout Layout) (*RavelExpr[I], error) {
	if len(coords) != len(target) {
		return nil, errors.Wrapf(ErrShapeMismatch, "ravel_multi_index: %d coordinate arrays for shape %v", len(coords), target)
	}
	shapes := make([]Shape, len(coords))
	for axis, c := range coords {
		shapes[axis] = c.Shape()
		for _, v := range Values(c, RowMajor) {
			if i := int(v); i < 0 || i >= target[axis] {
				return nil, rangeError("ravel_multi_index", "index %d out of bounds for axis %d (size %d)", v, axis, target[axis])
			}
		}
	}
	shape, err := BroadcastShapes(shapes...)
	if err != nil {
		return nil, errors.Wrap(err, "ravel_multi_index")
	}
	r := &RavelExpr[I]{
		coords:  coords,
		target:  target.Clone(),
		layout:  layout,
		shape:   shape,
		scratch: make([][]int, len(coords)),
		tmp:     make([]int, len(coords)),
	}
	for axis := range coords {
		r.scratch[axis] = make([]int, len(shapes[axis]))
	}
	return r, nil
}

// Shape returns the broadcast shape of the coordinate arrays.
func (r *RavelExpr[I]) Shape() Shape { return r.shape }

// Layout returns the linearization layout.
func (r *RavelExpr[I]) Layout() Layout { return r.layout }

// Elem returns the flat offset at idx.
func (r *RavelExpr[I]) Elem(idx []int) int {
	for axis, c := range r.coords {
		broadcastInto(r.scratch[axis], idx, c.Shape())
		r.tmp[axis] = int(c.Elem(r.scratch[axis]))
	}
	return ravel(r.tmp, r.target, r.layout)
}

func (r *RavelExpr[I]) dependsOn(buf any) bool {
	for _, c := range r.coords {
		if exprDependsOn(c, buf) {
			return true
		}
	}
	return false
}

// UnravelExpr is one axis of the lazy, vectorized form of UnravelIndex.
type UnravelExpr[I Integer] struct {
	flat   Expr[I]
	target Shape
	layout Layout
	axis   int
	tmp    []int
}

// UnravelIndices converts flat offsets into one coordinate expression per axis
// of target. Every offset is range-checked here; offsets outside
// [0, target.NumElements()) are an ErrOutOfRange.
func UnravelIndices[I Integer](flat Expr[I], target Shape, layout Layout) ([]*UnravelExpr[I], error) {
	size := target.NumElements()
	for _, v := range Values(flat, RowMajor) {
		if i := int(v); i < 0 || i >= size {
			return nil, rangeError("unravel_index", "flat index %d for shape %v (size %d)", v, target, size)
		}
	}
	out := make([]*UnravelExpr[I], len(target))
	for axis := range target {
		out[axis] = &UnravelExpr[I]{
			flat:   flat,
			target: target.Clone(),
			layout: layout,
			axis:   axis,
			tmp:    make([]int, len(target)),
		}
	}
	return out, nil
}

// Shape returns the shape of the flat offsets.
func (u *UnravelExpr[I]) Shape() Shape { return u.flat.Shape() }

// Layout returns the linearization layout.
func (u *UnravelExpr[I]) Layout() Layout { return u.layout }

// Elem returns the coordinate along this expression's axis.
func (u *UnravelExpr[I]) Elem(idx []int) int {
	unravelInto(u.tmp, int(u.flat.Elem(idx)), u.target, u.layout)
	return u.tmp[u.axis]
}

func (u *UnravelExpr[I]) dependsOn(buf any) bool { return exprDependsOn(u.flat, buf) }
