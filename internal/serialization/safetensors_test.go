package serialization

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/ndarray/internal/tensor"
)

func mustEntry[T tensor.DType](t *testing.T, e tensor.Expr[T]) Entry {
	t.Helper()
	out, err := EntryOf(e)
	require.NoError(t, err)
	return out
}

// sampleEntries holds a transposed float32 view, an int64 vector and a bool
// scalar.
func sampleEntries(t *testing.T) map[string]Entry {
	t.Helper()
	m, err := tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, tensor.RowMajor)
	require.NoError(t, err)
	w, err := tensor.Transpose(m)
	require.NoError(t, err)

	ids, err := tensor.FromSlice([]int64{10, -20, 30}, tensor.Shape{3}, tensor.RowMajor)
	require.NoError(t, err)

	flag, err := tensor.Full(tensor.Shape{}, true, tensor.RowMajor)
	require.NoError(t, err)

	return map[string]Entry{
		"w":    mustEntry[float32](t, w),
		"ids":  mustEntry[int64](t, ids),
		"flag": mustEntry[bool](t, flag),
	}
}

// build assembles a file from a JSON header and a data section.
func build(header string, data []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(len(header)))
	buf.WriteString(header)
	buf.Write(data)
	return buf.Bytes()
}

func TestEntryOfCompactsViews(t *testing.T) {
	e := sampleEntries(t)["w"]
	assert.Equal(t, tensor.Float32, e.DType)
	assert.Equal(t, tensor.Shape{3, 2}, e.Shape)
	assert.Len(t, e.Data, 24)

	_, err := EntryOf[int](tensor.Scalar(1))
	require.ErrorIs(t, err, tensor.ErrInvalidArgument)
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleEntries(t), map[string]string{"format": "ndarray"}))

	f, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []string{"flag", "ids", "w"}, f.Names())
	assert.Equal(t, map[string]string{"format": "ndarray"}, f.Metadata())

	info, err := f.Info("w")
	require.NoError(t, err)
	assert.Equal(t, TensorInfo{DType: "F32", Shape: []int{3, 2}, DataOffsets: [2]int64{25, 49}}, info)

	w, err := Load[float32](f, "w", tensor.RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, w.Data())

	wf, err := Load[float32](f, "w", tensor.ColumnMajor)
	require.NoError(t, err)
	assert.Equal(t, tensor.ColumnMajor, wf.Layout())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, wf.Data())

	ids, err := Load[int64](f, "ids", tensor.RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, -20, 30}, ids.Data())

	flag, err := Load[bool](f, "flag", tensor.RowMajor)
	require.NoError(t, err)
	assert.Equal(t, 0, flag.Rank())
	assert.True(t, flag.At())
}

func TestHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleEntries(t), map[string]string{"format": "ndarray"}))
	raw := buf.Bytes()

	size := binary.LittleEndian.Uint64(raw[:8])
	assert.Zero(t, size%8)
	assert.Equal(t, 8+int(size)+49, len(raw))

	header := string(raw[8 : 8+size])
	assert.True(t, strings.HasPrefix(header, `{"__metadata__":{"format":"ndarray"},"flag":`))
	assert.Contains(t, header, `"w":{"dtype":"F32","shape":[3,2],"data_offsets":[25,49]}`)
	assert.Contains(t, header, `"flag":{"dtype":"BOOL","shape":[],"data_offsets":[0,1]}`)

	// Data is little-endian regardless of host order.
	assert.Equal(t, []byte{10, 0, 0, 0, 0, 0, 0, 0}, raw[8+size+1:8+size+9])
}

func TestParseExternalFile(t *testing.T) {
	data := []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0, 4, 0, 0, 0}
	f, err := Parse(build(`{"test":{"dtype":"I32","shape":[2,2],"data_offsets":[0,16]}}`, data))
	require.NoError(t, err)
	assert.Nil(t, f.Metadata())

	x, err := Load[int32](f, "test", tensor.RowMajor)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 2}, x.Shape())
	assert.Equal(t, int32(3), x.At(1, 0))
}

func TestEmptyTensor(t *testing.T) {
	z, err := tensor.Zeros[float64](tensor.Shape{0, 3}, tensor.RowMajor)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, map[string]Entry{"z": mustEntry[float64](t, z)}, nil))

	f, err := Read(&buf)
	require.NoError(t, err)
	back, err := Load[float64](f, "z", tensor.RowMajor)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{0, 3}, back.Shape())
	assert.Equal(t, 0, back.Size())
}

func TestWriteFileReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.safetensors")
	require.NoError(t, WriteFile(path, sampleEntries(t), nil))

	f, err := ReadFile(path)
	require.NoError(t, err)
	ids, err := Load[int64](f, "ids", tensor.RowMajor)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, -20, 30}, ids.Data())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.safetensors"))
	require.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleEntries(t), nil))
	f, err := Read(&buf)
	require.NoError(t, err)

	_, err = Load[float64](f, "w", tensor.RowMajor)
	require.ErrorIs(t, err, tensor.ErrInvalidArgument)

	_, err = Load[float32](f, "bias", tensor.RowMajor)
	require.ErrorIs(t, err, ErrTensorNotFound)

	_, err = f.Info("bias")
	require.ErrorIs(t, err, ErrTensorNotFound)
}

func TestParseErrors(t *testing.T) {
	huge := make([]byte, 8)
	binary.LittleEndian.PutUint64(huge, MaxHeaderSize+1)

	truncated := make([]byte, 8)
	binary.LittleEndian.PutUint64(truncated, 64)

	tests := []struct {
		name string
		buf  []byte
		want error
	}{
		{"short", []byte{1, 2, 3}, ErrInvalidHeader},
		{"header too large", huge, ErrHeaderTooLarge},
		{"header past end", truncated, ErrInvalidHeader},
		{"bad json", build(`{"a":`, nil), ErrInvalidHeader},
		{"bad metadata", build(`{"__metadata__":{"k":1}}`, nil), ErrInvalidHeader},
		{"bad entry", build(`{"a":{"dtype":7}}`, nil), ErrInvalidHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.buf)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse(build(`{"a":{"dtype":"F32","shape":[2],"data_offsets":[0,8]}}`, make([]byte, 4)))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "incomplete_buffer", verr.Type)
}

func TestWriteErrors(t *testing.T) {
	var buf bytes.Buffer

	err := Write(&buf, map[string]Entry{"a/b": {DType: tensor.Uint8, Shape: tensor.Shape{1}, Data: []byte{1}}}, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid_name", verr.Type)

	err = Write(&buf, map[string]Entry{"a": {DType: tensor.Int16, Shape: tensor.Shape{3}, Data: []byte{1, 2}}}, nil)
	require.ErrorIs(t, err, tensor.ErrShapeMismatch)

	err = Write(&buf, map[string]Entry{"a": {DType: tensor.DataType(99), Shape: tensor.Shape{}, Data: nil}}, nil)
	require.ErrorIs(t, err, tensor.ErrInvalidArgument)
}
