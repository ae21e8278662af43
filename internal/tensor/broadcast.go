package tensor

// BroadcastShapes implements NumPy-style broadcasting rules over any number
// of shapes.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(5,)   + (3, 5) → (3, 5)
//	(3, 4) + (3, 5) → error
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	if len(shapes) == 0 {
		return Shape{}, nil
	}
	result := shapes[0].Clone()
	for _, s := range shapes[1:] {
		next, err := broadcastPair(result, s)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}

func broadcastPair(a, b Shape) (Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
		case bDim == 1:
			result[maxLen-1-i] = aDim
		default:
			return nil, shapeError("broadcast", a, b)
		}
	}
	return result, nil
}

// CanBroadcastTo reports whether src can be broadcast to dst without changing dst.
func CanBroadcastTo(src, dst Shape) bool {
	if len(src) > len(dst) {
		return false
	}
	off := len(dst) - len(src)
	for i, d := range src {
		if d != 1 && d != dst[off+i] {
			return false
		}
	}
	return true
}

// BroadcastIndex maps a position idx of the broadcast shape onto the operand
// with shape src: leading axes are dropped, size-1 axes read coordinate 0.
func BroadcastIndex(idx Index, src Shape) Index {
	out := make(Index, len(src))
	broadcastInto(out, idx, src)
	return out
}

func broadcastInto(dst, idx []int, src Shape) {
	off := len(idx) - len(src)
	for i, d := range src {
		if d == 1 {
			dst[i] = 0
		} else {
			dst[i] = idx[off+i]
		}
	}
}

// broadcastStrides returns the strides that read an operand with (shape,
// strides) at every position of dst: 0 on repeated axes.
func broadcastStrides(shape Shape, strides []int, dst Shape) []int {
	out := make([]int, len(dst))
	off := len(dst) - len(shape)
	for i := range shape {
		if shape[i] == 1 && dst[off+i] != 1 {
			out[off+i] = 0
		} else {
			out[off+i] = strides[i]
		}
	}
	return out
}
