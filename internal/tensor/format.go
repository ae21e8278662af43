package tensor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SignMode controls the sign printed for non-negative numbers.
type SignMode int

// Sign modes.
const (
	SignMinus SignMode = iota // only negative numbers carry a sign
	SignPlus                  // non-negative numbers get "+"
	SignSpace                 // non-negative numbers get " "
)

// FloatMode controls how many fractional digits floats get.
type FloatMode int

// Float modes.
const (
	// FloatMaxPrec prints at most Precision digits, dropping trailing zeros.
	FloatMaxPrec FloatMode = iota
	// FloatFixed always prints exactly Precision digits.
	FloatFixed
	// FloatUnique prints the shortest representation that round-trips.
	FloatUnique
	// FloatMaxPrecEqual prints every element with the digits the longest one needs, at most Precision.
	FloatMaxPrecEqual
)

// PrintOptions configures Format. There is no process-wide default; pass the
// options explicitly.
type PrintOptions struct {
	Precision int       // fractional digits for floats
	Threshold int       // element count above which the output is summarized
	EdgeItems int       // elements kept at each edge of a summarized axis
	LineWidth int       // maximum characters per line before wrapping
	Sign      SignMode  // sign of non-negative numbers
	FloatMode FloatMode // fractional digit policy
}

// DefaultPrintOptions returns numpy's defaults.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{
		Precision: 8,
		Threshold: 1000,
		EdgeItems: 3,
		LineWidth: 75,
		Sign:      SignMinus,
		FloatMode: FloatMaxPrec,
	}
}

// Format renders e as nested brackets, right-aligning elements to a common
// width and summarizing axes with "..." when e has more than opts.Threshold
// elements.
//
// Example:
//
//	[[ 1  2  3]
//	 [-4  5  6]]
func Format[T DType](e Expr[T], opts PrintOptions) string {
	shape := e.Shape()
	summarize := shape.NumElements() > opts.Threshold

	// Visible positions per axis; -1 marks the ellipsis.
	visible := make([][]int, len(shape))
	for axis, d := range shape {
		if summarize && d > 2*opts.EdgeItems {
			for i := 0; i < opts.EdgeItems; i++ {
				visible[axis] = append(visible[axis], i)
			}
			visible[axis] = append(visible[axis], -1)
			for i := d - opts.EdgeItems; i < d; i++ {
				visible[axis] = append(visible[axis], i)
			}
			continue
		}
		for i := 0; i < d; i++ {
			visible[axis] = append(visible[axis], i)
		}
	}

	var values []T
	collectVisible(e, visible, make([]int, len(shape)), 0, &values)
	digits := opts.Precision
	if opts.FloatMode == FloatMaxPrecEqual {
		digits = 0
		for _, v := range values {
			digits = max(digits, fracDigits(v, opts.Precision))
		}
	}
	texts := make([]string, len(values))
	width := 0
	for i, v := range values {
		texts[i] = formatElem(v, opts, digits)
		width = max(width, len(texts[i]))
	}

	f := formatter{opts: opts, width: width, texts: texts, visible: visible}
	var sb strings.Builder
	f.write(&sb, 0, 0)
	return sb.String()
}

func collectVisible[T DType](e Expr[T], visible [][]int, idx []int, axis int, out *[]T) {
	if axis == len(idx) {
		*out = append(*out, e.Elem(idx))
		return
	}
	for _, i := range visible[axis] {
		if i < 0 {
			continue
		}
		idx[axis] = i
		collectVisible(e, visible, idx, axis+1, out)
	}
}

type formatter struct {
	opts    PrintOptions
	width   int
	texts   []string
	visible [][]int
	next    int
}

func (f *formatter) write(sb *strings.Builder, axis, column int) {
	rank := len(f.visible)
	if rank == 0 {
		sb.WriteString(f.texts[0])
		return
	}
	sb.WriteByte('[')
	column++
	indent := strings.Repeat(" ", axis+1)
	first := true
	for _, i := range f.visible[axis] {
		if !first {
			if axis == rank-1 {
				if column+1+f.width+1 > f.opts.LineWidth {
					sb.WriteString("\n")
					sb.WriteString(indent)
					column = axis + 1
				} else {
					sb.WriteByte(' ')
					column++
				}
			} else {
				sb.WriteString(strings.Repeat("\n", rank-axis-1))
				sb.WriteString(indent)
				column = axis + 1
			}
		}
		first = false
		if i < 0 {
			sb.WriteString("...")
			column += 3
			continue
		}
		if axis == rank-1 {
			sb.WriteString(f.pad(f.texts[f.next]))
			f.next++
			column += f.width
		} else {
			f.write(sb, axis+1, column)
		}
	}
	sb.WriteByte(']')
}

func (f *formatter) pad(s string) string {
	if len(s) >= f.width {
		return s
	}
	return strings.Repeat(" ", f.width-len(s)) + s
}

func formatElem[T DType](v T, opts PrintOptions, digits int) string {
	var s string
	negative := false
	switch x := any(v).(type) {
	case bool:
		return strconv.FormatBool(x)
	case float32:
		s, negative = formatFloat(float64(x), 32, opts, digits), x < 0 || math.Signbit(float64(x))
	case float64:
		s, negative = formatFloat(x, 64, opts, digits), x < 0 || math.Signbit(x)
	default:
		s = fmt.Sprint(v)
		negative = strings.HasPrefix(s, "-")
	}
	if !negative && !strings.HasPrefix(s, "NaN") {
		switch opts.Sign {
		case SignPlus:
			s = "+" + s
		case SignSpace:
			s = " " + s
		}
	}
	return s
}

func formatFloat(x float64, bits int, opts PrintOptions, digits int) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', -1, bits)
	}
	switch opts.FloatMode {
	case FloatFixed:
		return strconv.FormatFloat(x, 'f', opts.Precision, bits)
	case FloatUnique:
		return withPoint(strconv.FormatFloat(x, 'f', -1, bits))
	case FloatMaxPrecEqual:
		return withPoint(strconv.FormatFloat(x, 'f', digits, bits))
	default:
		s := strconv.FormatFloat(x, 'f', opts.Precision, bits)
		if strings.Contains(s, ".") {
			s = strings.TrimRight(s, "0")
		}
		return s
	}
}

// withPoint appends a trailing "." to integral values, as numpy does.
func withPoint(s string) string {
	if strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + "."
}

// fracDigits is the number of fractional digits v needs, at most precision.
func fracDigits[T DType](v T, precision int) int {
	var x float64
	bits := 64
	switch f := any(v).(type) {
	case float32:
		x, bits = float64(f), 32
	case float64:
		x = f
	default:
		return 0
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	s := strings.TrimRight(strconv.FormatFloat(x, 'f', precision, bits), "0")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
