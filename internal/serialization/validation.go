package serialization

import (
	"fmt"
	"slices"
	"strings"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Validation limits for security and resource protection.
const (
	MaxHeaderSize    = 100 * 1024 * 1024 // 100MB - maximum header size
	MaxTensorCount   = 100_000           // Maximum number of tensors in a file
	MaxTensorNameLen = 4096              // Maximum tensor name length
)

// ValidateTensors checks every header entry against the data section: known
// dtype, byte size matching the shape, and offsets that tile [0, dataSize)
// without gaps or overlap. tensors is sorted by offset in place.
func ValidateTensors(tensors []NamedTensorInfo, dataSize int64) error {
	if len(tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(tensors), MaxTensorCount),
		}
	}

	for _, t := range tensors {
		if err := validateEntry(t); err != nil {
			return err
		}
	}

	slices.SortFunc(tensors, func(a, b NamedTensorInfo) int {
		if c := a.Info.DataOffsets[0] - b.Info.DataOffsets[0]; c != 0 {
			if c < 0 {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})

	var end int64
	for i, t := range tensors {
		begin := t.Info.DataOffsets[0]
		switch {
		case begin < end:
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  tensors[i-1].Name,
				Tensor2: t.Name,
				Details: fmt.Sprintf("regions [%d-%d] and [%d-%d] overlap",
					tensors[i-1].Info.DataOffsets[0], end, begin, t.Info.DataOffsets[1]),
			}
		case begin > end:
			return &ValidationError{
				Type:    "offset_gap",
				Tensor:  t.Name,
				Details: fmt.Sprintf("starts at %d, previous data ends at %d", begin, end),
			}
		}
		end = t.Info.DataOffsets[1]
	}
	if end != dataSize {
		return &ValidationError{
			Type:    "incomplete_buffer",
			Details: fmt.Sprintf("tensors cover %d bytes, data section has %d", end, dataSize),
		}
	}
	return nil
}

func validateEntry(t NamedTensorInfo) error {
	if err := ValidateTensorName(t.Name); err != nil {
		return err
	}
	dtype, ok := safeTensorsToDtype(t.Info.DType)
	if !ok {
		return &ValidationError{
			Type:    "unknown_dtype",
			Tensor:  t.Name,
			Details: fmt.Sprintf("dtype %q is not supported", t.Info.DType),
		}
	}
	begin, end := t.Info.DataOffsets[0], t.Info.DataOffsets[1]
	if begin < 0 || end < begin {
		return &ValidationError{
			Type:    "negative_offset",
			Tensor:  t.Name,
			Details: fmt.Sprintf("data_offsets [%d, %d]", begin, end),
		}
	}
	shape := tensor.Shape(t.Info.Shape)
	if err := shape.Validate(); err != nil {
		return &ValidationError{Type: "invalid_shape", Tensor: t.Name, Details: err.Error()}
	}
	n, err := shape.CheckedNumElements()
	if err != nil {
		return &ValidationError{Type: "invalid_shape", Tensor: t.Name, Details: err.Error()}
	}
	if want := int64(n) * int64(dtype.Size()); want != end-begin {
		return &ValidationError{
			Type:    "size_mismatch",
			Tensor:  t.Name,
			Details: fmt.Sprintf("shape %v of %s needs %d bytes, offsets span %d", shape, dtype, want, end-begin),
		}
	}
	return nil
}

// ValidateTensorName checks tensor names for path traversal attacks and malicious patterns.
func ValidateTensorName(name string) error {
	if name == "" || name == metadataKey {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "empty or reserved name",
		}
	}

	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}

	// Path traversal prevention.
	if strings.Contains(name, "..") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains '..' (path traversal attempt)",
		}
	}

	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains path separator (/ or \\)",
		}
	}

	if strings.Contains(name, "\x00") {
		return &ValidationError{
			Type:    "invalid_name",
			Tensor:  name,
			Details: "contains null byte",
		}
	}

	return nil
}
