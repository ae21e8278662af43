package serialization

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func info(name, dtype string, shape []int, begin, end int64) NamedTensorInfo {
	return NamedTensorInfo{Name: name, Info: TensorInfo{DType: dtype, Shape: shape, DataOffsets: [2]int64{begin, end}}}
}

func TestValidateTensors(t *testing.T) {
	tests := []struct {
		name     string
		tensors  []NamedTensorInfo
		dataSize int64
		wantType string
	}{
		{
			name: "valid out of order",
			tensors: []NamedTensorInfo{
				info("b", "F64", []int{2}, 4, 20),
				info("a", "F32", []int{1}, 0, 4),
			},
			dataSize: 20,
		},
		{
			name:     "no tensors",
			dataSize: 0,
		},
		{
			name: "overlap",
			tensors: []NamedTensorInfo{
				info("a", "U8", []int{4}, 0, 4),
				info("b", "U8", []int{4}, 3, 7),
			},
			dataSize: 7,
			wantType: "offset_overlap",
		},
		{
			name: "gap",
			tensors: []NamedTensorInfo{
				info("a", "U8", []int{4}, 0, 4),
				info("b", "U8", []int{4}, 5, 9),
			},
			dataSize: 9,
			wantType: "offset_gap",
		},
		{
			name:     "trailing bytes",
			tensors:  []NamedTensorInfo{info("a", "U8", []int{4}, 0, 4)},
			dataSize: 5,
			wantType: "incomplete_buffer",
		},
		{
			name:     "past end",
			tensors:  []NamedTensorInfo{info("a", "U8", []int{4}, 0, 4)},
			dataSize: 3,
			wantType: "incomplete_buffer",
		},
		{
			name:     "unknown dtype",
			tensors:  []NamedTensorInfo{info("a", "BF16", []int{2}, 0, 4)},
			dataSize: 4,
			wantType: "unknown_dtype",
		},
		{
			name:     "size mismatch",
			tensors:  []NamedTensorInfo{info("a", "I32", []int{2, 2}, 0, 12)},
			dataSize: 12,
			wantType: "size_mismatch",
		},
		{
			name:     "negative offset",
			tensors:  []NamedTensorInfo{info("a", "U8", []int{1}, -1, 0)},
			dataSize: 0,
			wantType: "negative_offset",
		},
		{
			name:     "reversed offsets",
			tensors:  []NamedTensorInfo{info("a", "U8", []int{1}, 4, 3)},
			dataSize: 4,
			wantType: "negative_offset",
		},
		{
			name:     "negative dimension",
			tensors:  []NamedTensorInfo{info("a", "U8", []int{-1}, 0, 0)},
			dataSize: 0,
			wantType: "invalid_shape",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensors(tt.tensors, tt.dataSize)
			if tt.wantType == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantType, verr.Type)
		})
	}
}

func TestValidateTensorsSortsByOffset(t *testing.T) {
	tensors := []NamedTensorInfo{
		info("z", "U8", []int{1}, 1, 2),
		info("y", "U8", []int{1}, 0, 1),
	}
	require.NoError(t, ValidateTensors(tensors, 2))
	assert.Equal(t, "y", tensors[0].Name)
}

func TestValidateTensorName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType string
	}{
		{"plain", "encoder.layer.0.weight", ""},
		{"empty", "", "invalid_name"},
		{"reserved", "__metadata__", "invalid_name"},
		{"traversal", "../../etc/passwd", "invalid_name"},
		{"slash", "a/b", "invalid_name"},
		{"backslash", `a\b`, "invalid_name"},
		{"null byte", "a\x00b", "invalid_name"},
		{"too long", strings.Repeat("x", MaxTensorNameLen+1), "name_too_long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTensorName(tt.input)
			if tt.wantType == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantType, verr.Type)
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Type: "offset_overlap", Tensor: "a", Tensor2: "b", Details: "x"}
	assert.Equal(t, `offset_overlap: tensors "a" and "b": x`, err.Error())

	err = &ValidationError{Type: "size_mismatch", Tensor: "a", Details: "x"}
	assert.Equal(t, `size_mismatch: tensor "a": x`, err.Error())

	err = &ValidationError{Type: "incomplete_buffer", Details: "x"}
	assert.Equal(t, "incomplete_buffer: x", err.Error())
}
