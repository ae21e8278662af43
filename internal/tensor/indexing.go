package tensor

import (
	"github.com/pkg/errors"
)

// resolveIndices reads an index tensor under the Take/Put convention and
// returns the addressed multi-indices of shape, flattened (len(shape) ints per
// entry) in row-major order of the returned result shape.
//
// For a 1-D operand each index element is a plain position. For higher ranks
// the trailing axis of indices holds one full multi-index, so the result
// shape is indices' shape without that axis.
func resolveIndices[I Integer](op string, shape Shape, indices Expr[I]) ([]int, Shape, error) {
	rank := len(shape)
	ishape := indices.Shape()
	switch {
	case rank == 0:
		return nil, nil, errors.Wrapf(ErrShapeMismatch, "%s: cannot index a zero-rank operand", op)
	case rank == 1:
		coords := make([]int, 0, ishape.NumElements())
		for _, v := range Values(indices, RowMajor) {
			i := int(v)
			if i < 0 || i >= shape[0] {
				return nil, nil, rangeError(op, "index %d out of bounds for axis 0 (size %d)", v, shape[0])
			}
			coords = append(coords, i)
		}
		return coords, ishape.Clone(), nil
	case len(ishape) == 0 || ishape[len(ishape)-1] != rank:
		return nil, nil, errors.Wrapf(ErrShapeMismatch,
			"%s: indices of shape %v do not hold multi-indices for shape %v", op, ishape, shape)
	}

	out := ishape[:len(ishape)-1].Clone()
	coords := make([]int, 0, out.NumElements()*rank)
	src := make([]int, len(ishape))
	for _, idx := range Indices(out, RowMajor) {
		copy(src, idx)
		for axis := 0; axis < rank; axis++ {
			src[len(src)-1] = axis
			v := indices.Elem(src)
			i := int(v)
			if i < 0 || i >= shape[axis] {
				return nil, nil, rangeError(op, "index %d out of bounds for axis %d (size %d)", v, axis, shape[axis])
			}
			coords = append(coords, i)
		}
	}
	return coords, out, nil
}

// resolveFlat reads flat positions of an operand of size n.
func resolveFlat[I Integer](op string, n int, indices Expr[I]) ([]int, error) {
	flat := make([]int, 0, indices.Shape().NumElements())
	for _, v := range Values(indices, RowMajor) {
		i := int(v)
		if i < 0 || i >= n {
			return nil, rangeError(op, "flat index %d for size %d", v, n)
		}
		flat = append(flat, i)
	}
	return flat, nil
}

// Take gathers elements of a: result[j] = a[indices[j]]. The result always
// owns a copy of the data.
//
// For a 1-D a, indices holds plain positions and the result has indices'
// shape. Otherwise the trailing axis of indices holds full multi-indices.
//
// Example:
//
//	a = [7, 13, 19, 11, 5, 8, -2, 7, 11, 3]
//	Take(a, [9, 4, 0, 7, 5]) = [3, 5, 7, 7, 8]
func Take[T DType, I Integer](a Expr[T], indices Expr[I]) (*Tensor[T], error) {
	shape := a.Shape()
	coords, out, err := resolveIndices("take", shape, indices)
	if err != nil {
		return nil, err
	}
	res, err := Empty[T](out, a.Layout())
	if err != nil {
		return nil, err
	}
	rank := len(shape)
	for pos, idx := range Indices(out, RowMajor) {
		res.SetElem(idx, a.Elem(coords[pos*rank:(pos+1)*rank]))
	}
	return res, nil
}

// TakeFlat gathers elements of a by flat position in a's layout order. The
// result has indices' shape.
func TakeFlat[T DType, I Integer](a Expr[T], indices Expr[I]) (*Tensor[T], error) {
	shape := a.Shape()
	flat, err := resolveFlat("take", shape.NumElements(), indices)
	if err != nil {
		return nil, err
	}
	res, err := Empty[T](indices.Shape(), a.Layout())
	if err != nil {
		return nil, err
	}
	src := make([]int, len(shape))
	for pos, idx := range Indices(res.shape, RowMajor) {
		unravelInto(src, flat[pos], shape, a.Layout())
		res.SetElem(idx, a.Elem(src))
	}
	return res, nil
}

// TakeAxis gathers along one axis. The axis is replaced by indices' shape: a
// rank-0 index collapses the axis, a vector of indices keeps the rank with the
// axis length replaced by the vector's length. Order is kept positionally.
func TakeAxis[T DType, I Integer](a Expr[T], indices Expr[I], axis int) (*Tensor[T], error) {
	shape := a.Shape()
	axis, err := normalizeAxis("take", axis, len(shape))
	if err != nil {
		return nil, err
	}
	ishape := indices.Shape()
	sel, err := resolveFlat("take", shape[axis], indices)
	if err != nil {
		return nil, err
	}
	out := make(Shape, 0, len(shape)-1+len(ishape))
	out = append(out, shape[:axis]...)
	out = append(out, ishape...)
	out = append(out, shape[axis+1:]...)
	res, err := Empty[T](out, a.Layout())
	if err != nil {
		return nil, err
	}
	ir := len(ishape)
	src := make([]int, len(shape))
	for _, idx := range Indices(out, RowMajor) {
		copy(src, idx[:axis])
		src[axis] = sel[ravel(idx[axis:axis+ir], ishape, RowMajor)]
		copy(src[axis+1:], idx[axis+ir:])
		res.SetElem(idx, a.Elem(src))
	}
	return res, nil
}

// checkAlongAxis validates an index tensor for the *_along_axis operations.
func checkAlongAxis(op string, shape, ishape Shape, axis int) (int, error) {
	if len(ishape) != len(shape) {
		return 0, shapeError(op, shape, ishape)
	}
	axis, err := normalizeAxis(op, axis, len(shape))
	if err != nil {
		return 0, err
	}
	for d := range shape {
		if d != axis && ishape[d] != shape[d] {
			return 0, shapeError(op, shape, ishape)
		}
	}
	return axis, nil
}

// TakeAlongAxis gathers with per-position indices along axis:
// result[..., k, ...] = a[..., indices[..., k, ...], ...]. indices must match
// a's shape on every other axis; the result has indices' shape.
func TakeAlongAxis[T DType, I Integer](a Expr[T], indices Expr[I], axis int) (*Tensor[T], error) {
	shape := a.Shape()
	ishape := indices.Shape()
	axis, err := checkAlongAxis("take_along_axis", shape, ishape, axis)
	if err != nil {
		return nil, err
	}
	sel, err := resolveFlat("take_along_axis", shape[axis], indices)
	if err != nil {
		return nil, err
	}
	res, err := Empty[T](ishape, a.Layout())
	if err != nil {
		return nil, err
	}
	src := make([]int, len(shape))
	for pos, idx := range Indices(ishape, RowMajor) {
		copy(src, idx)
		src[axis] = sel[pos]
		res.SetElem(idx, a.Elem(src))
	}
	return res, nil
}

// stableValues returns values, materialized first when reading them could
// observe writes to dst.
func stableValues[T DType](op string, dst *Tensor[T], values Expr[T]) (Expr[T], error) {
	if !exprDependsOn(values, dst.buf) {
		return values, nil
	}
	v, err := Eval(values, values.Layout())
	if err != nil {
		return nil, errors.Wrap(err, op)
	}
	return v, nil
}

// Put scatters values into a in place: a[indices[j]] = values[j], with values
// broadcast to the shape addressed by indices (see Take for the index
// convention).
//
// Duplicate destinations are written in ascending row-major order of the
// index positions, so the last write wins. Nothing is written when any check
// fails.
//
// Example:
//
//	a = [7, 13, 19, 11, 5, 8, -2, 7, 11, 3]
//	Put(a, [9, 4, 0, 7, 5], [10, 20, 30, 40, 50])
//	a = [30, 13, 19, 11, 20, 50, -2, 40, 11, 10]
func Put[T DType, I Integer](a *Tensor[T], indices Expr[I], values Expr[T]) error {
	if a.readOnly {
		return errors.Wrap(ErrReadOnly, "put")
	}
	coords, out, err := resolveIndices("put", a.shape, indices)
	if err != nil {
		return err
	}
	if !CanBroadcastTo(values.Shape(), out) {
		return shapeError("put", values.Shape(), out)
	}
	values, err = stableValues("put", a, values)
	if err != nil {
		return err
	}
	rank := len(a.shape)
	vshape := values.Shape()
	v := make([]int, len(vshape))
	for pos, idx := range Indices(out, RowMajor) {
		broadcastInto(v, idx, vshape)
		a.SetElem(coords[pos*rank:(pos+1)*rank], values.Elem(v))
	}
	return nil
}

// PutFlat scatters values into a by flat position in a's layout order, with
// values broadcast to indices' shape. Last write wins as in Put.
func PutFlat[T DType, I Integer](a *Tensor[T], indices Expr[I], values Expr[T]) error {
	if a.readOnly {
		return errors.Wrap(ErrReadOnly, "put")
	}
	flat, err := resolveFlat("put", a.Size(), indices)
	if err != nil {
		return err
	}
	ishape := indices.Shape()
	if !CanBroadcastTo(values.Shape(), ishape) {
		return shapeError("put", values.Shape(), ishape)
	}
	values, err = stableValues("put", a, values)
	if err != nil {
		return err
	}
	vshape := values.Shape()
	v := make([]int, len(vshape))
	dst := make([]int, len(a.shape))
	for pos, idx := range Indices(ishape, RowMajor) {
		broadcastInto(v, idx, vshape)
		unravelInto(dst, flat[pos], a.shape, a.layout)
		a.SetElem(dst, values.Elem(v))
	}
	return nil
}

// PutAlongAxis is the scatter counterpart of TakeAlongAxis:
// a[..., indices[..., k, ...], ...] = values[..., k, ...], with values
// broadcast to indices' shape.
func PutAlongAxis[T DType, I Integer](a *Tensor[T], indices Expr[I], values Expr[T], axis int) error {
	if a.readOnly {
		return errors.Wrap(ErrReadOnly, "put_along_axis")
	}
	ishape := indices.Shape()
	axis, err := checkAlongAxis("put_along_axis", a.shape, ishape, axis)
	if err != nil {
		return err
	}
	sel, err := resolveFlat("put_along_axis", a.shape[axis], indices)
	if err != nil {
		return err
	}
	if !CanBroadcastTo(values.Shape(), ishape) {
		return shapeError("put_along_axis", values.Shape(), ishape)
	}
	values, err = stableValues("put_along_axis", a, values)
	if err != nil {
		return err
	}
	vshape := values.Shape()
	v := make([]int, len(vshape))
	dst := make([]int, len(a.shape))
	for pos, idx := range Indices(ishape, RowMajor) {
		broadcastInto(v, idx, vshape)
		copy(dst, idx)
		dst[axis] = sel[pos]
		a.SetElem(dst, values.Elem(v))
	}
	return nil
}

// maskPositions returns the multi-indices (flattened) where cond is true, in
// the given traversal order.
func maskPositions(op string, shape Shape, cond Expr[bool], order Layout) ([]int, error) {
	if !cond.Shape().Equal(shape) {
		return nil, shapeError(op, shape, cond.Shape())
	}
	var pos []int
	for _, idx := range Indices(shape, order) {
		if cond.Elem(idx) {
			pos = append(pos, idx...)
		}
	}
	return pos, nil
}

// Compress keeps the elements of a where cond is true. cond must have a's
// shape; the result is 1-D in a's layout order, of length CountTrue(cond).
//
// Example:
//
//	a = [7, 13, 19, 11, 5, 8, -2, 7, 11, 3]
//	Compress(a, a > 10) = [13, 19, 11, 11]
func Compress[T DType](a Expr[T], cond Expr[bool]) (*Tensor[T], error) {
	shape := a.Shape()
	pos, err := maskPositions("compress", shape, cond, a.Layout())
	if err != nil {
		return nil, err
	}
	rank := len(shape)
	n := 0
	if rank > 0 {
		n = len(pos) / rank
	} else if cond.Elem(nil) {
		n = 1
	}
	res, err := Empty[T](Shape{n}, RowMajor)
	if err != nil {
		return nil, err
	}
	for k := 0; k < n; k++ {
		res.buf.data[k] = a.Elem(pos[k*rank : (k+1)*rank])
	}
	return res, nil
}

// CompressAxis keeps whole slices of a along axis where the 1-D cond is true.
// cond's length must equal a's length along axis; other axes are unchanged.
func CompressAxis[T DType](a Expr[T], cond Expr[bool], axis int) (*Tensor[T], error) {
	shape := a.Shape()
	axis, err := normalizeAxis("compress", axis, len(shape))
	if err != nil {
		return nil, err
	}
	cshape := cond.Shape()
	if len(cshape) != 1 || cshape[0] != shape[axis] {
		return nil, errors.Wrapf(ErrShapeMismatch, "compress: condition of shape %v for axis %d of shape %v", cshape, axis, shape)
	}
	var sel []int
	for i := 0; i < shape[axis]; i++ {
		if cond.Elem([]int{i}) {
			sel = append(sel, i)
		}
	}
	out := shape.Clone()
	out[axis] = len(sel)
	res, err := Empty[T](out, a.Layout())
	if err != nil {
		return nil, err
	}
	src := make([]int, len(shape))
	for _, idx := range Indices(out, RowMajor) {
		copy(src, idx)
		src[axis] = sel[idx[axis]]
		res.SetElem(idx, a.Elem(src))
	}
	return res, nil
}

// Place fills the positions of a where cond is true, in a's layout order, with
// the first N elements of values read in values' layout order, N being the
// number of true entries. Extra values are ignored; fewer than N values is an
// error and leaves a untouched.
func Place[T DType](a *Tensor[T], cond Expr[bool], values Expr[T]) error {
	if a.readOnly {
		return errors.Wrap(ErrReadOnly, "place")
	}
	pos, err := maskPositions("place", a.shape, cond, a.layout)
	if err != nil {
		return err
	}
	rank := len(a.shape)
	n := 0
	if rank > 0 {
		n = len(pos) / rank
	} else if cond.Elem(nil) {
		n = 1
	}
	if have := values.Shape().NumElements(); have < n {
		return errors.Wrapf(ErrShapeMismatch, "place: %d values for %d selected positions", have, n)
	}
	if n == 0 {
		return nil
	}
	vals := make([]T, 0, n)
	for _, v := range Values(values, values.Layout()) {
		if len(vals) == n {
			break
		}
		vals = append(vals, v)
	}
	for k, v := range vals {
		a.SetElem(pos[k*rank:(k+1)*rank], v)
	}
	return nil
}

// PutMask overwrites the positions of a where cond is true with values
// broadcast to a's full shape: a[i] = values[i] where cond[i]. Unlike Place,
// each position reads the value at its own location.
func PutMask[T DType](a *Tensor[T], cond Expr[bool], values Expr[T]) error {
	if a.readOnly {
		return errors.Wrap(ErrReadOnly, "putmask")
	}
	pos, err := maskPositions("putmask", a.shape, cond, a.layout)
	if err != nil {
		return err
	}
	if !CanBroadcastTo(values.Shape(), a.shape) {
		return shapeError("putmask", values.Shape(), a.shape)
	}
	values, err = stableValues("putmask", a, values)
	if err != nil {
		return err
	}
	rank := len(a.shape)
	if rank == 0 {
		if cond.Elem(nil) {
			a.SetElem(nil, values.Elem(nil))
		}
		return nil
	}
	vshape := values.Shape()
	v := make([]int, len(vshape))
	for k := 0; k < len(pos); k += rank {
		idx := pos[k : k+rank]
		broadcastInto(v, idx, vshape)
		a.SetElem(idx, values.Elem(v))
	}
	return nil
}

// CountTrue returns the number of true elements.
func CountTrue(cond Expr[bool]) int {
	n := 0
	for _, v := range Values(cond, RowMajor) {
		if v {
			n++
		}
	}
	return n
}

// ArgWhere returns the multi-indices of true elements as an (N, rank) tensor,
// in row-major order.
func ArgWhere(cond Expr[bool]) (*Tensor[int], error) {
	shape := cond.Shape()
	pos, err := maskPositions("argwhere", shape, cond, RowMajor)
	if err != nil {
		return nil, err
	}
	rank := len(shape)
	n := 0
	if rank > 0 {
		n = len(pos) / rank
	} else if cond.Elem(nil) {
		n = 1
	}
	res, err := Empty[int](Shape{n, rank}, RowMajor)
	if err != nil {
		return nil, err
	}
	copy(res.buf.data, pos)
	return res, nil
}
