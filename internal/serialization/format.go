package serialization

import (
	"encoding/binary"
	"slices"

	"github.com/born-ml/ndarray/internal/tensor"
)

const (
	headerSizeBytes = 8
	headerAlign     = 8
	metadataKey     = "__metadata__"
)

// TensorInfo describes one tensor in the header.
type TensorInfo struct {
	DType       string   `json:"dtype"`
	Shape       []int    `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// NamedTensorInfo pairs a TensorInfo with its name.
type NamedTensorInfo struct {
	Name string
	Info TensorInfo
}

// Size returns the byte length of the tensor's data.
func (ti TensorInfo) Size() int64 {
	return ti.DataOffsets[1] - ti.DataOffsets[0]
}

// dtypeToSafeTensors converts tensor.DataType to the safetensors dtype string.
func dtypeToSafeTensors(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return "F32"
	case tensor.Float64:
		return "F64"
	case tensor.Int8:
		return "I8"
	case tensor.Int16:
		return "I16"
	case tensor.Int32:
		return "I32"
	case tensor.Int64:
		return "I64"
	case tensor.Uint8:
		return "U8"
	case tensor.Uint16:
		return "U16"
	case tensor.Uint32:
		return "U32"
	case tensor.Uint64:
		return "U64"
	case tensor.Bool:
		return "BOOL"
	default:
		return ""
	}
}

// safeTensorsToDtype converts a safetensors dtype string to tensor.DataType.
func safeTensorsToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case "F32":
		return tensor.Float32, true
	case "F64":
		return tensor.Float64, true
	case "I8":
		return tensor.Int8, true
	case "I16":
		return tensor.Int16, true
	case "I32":
		return tensor.Int32, true
	case "I64":
		return tensor.Int64, true
	case "U8":
		return tensor.Uint8, true
	case "U16":
		return tensor.Uint16, true
	case "U32":
		return tensor.Uint32, true
	case "U64":
		return tensor.Uint64, true
	case "BOOL":
		return tensor.Bool, true
	default:
		return 0, false
	}
}

var littleEndianHost = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// swapOrder converts between native and little-endian order in place. It is
// a no-op on little-endian hosts.
func swapOrder(data []byte, size int) {
	if littleEndianHost || size == 1 {
		return
	}
	for i := 0; i+size <= len(data); i += size {
		slices.Reverse(data[i : i+size])
	}
}
