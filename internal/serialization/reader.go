package serialization

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/pkg/errors"

	"github.com/born-ml/ndarray/internal/tensor"
)

// File is a parsed safetensors buffer. Tensors are decoded on demand.
type File struct {
	metadata map[string]string
	tensors  []NamedTensorInfo // Sorted by data offset.
	index    map[string]int
	data     []byte
}

// ReadFile reads and parses the safetensors file at path.
func ReadFile(path string) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for loading
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read file")
	}
	return Parse(buf)
}

// Read parses everything r yields.
func Read(r io.Reader) (*File, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read")
	}
	return Parse(buf)
}

// Parse validates buf and indexes its tensors. The File keeps a reference to
// buf.
func Parse(buf []byte) (*File, error) {
	if len(buf) < headerSizeBytes {
		return nil, errors.Wrapf(ErrInvalidHeader, "buffer of %d bytes has no header size", len(buf))
	}
	size := binary.LittleEndian.Uint64(buf[:headerSizeBytes])
	if size > MaxHeaderSize {
		return nil, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", size)
	}
	if size > uint64(len(buf)-headerSizeBytes) {
		return nil, errors.Wrapf(ErrInvalidHeader, "header of %d bytes exceeds buffer of %d", size, len(buf))
	}
	end := headerSizeBytes + int(size)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(buf[headerSizeBytes:end], &raw); err != nil {
		return nil, errors.Wrapf(ErrInvalidHeader, "json: %v", err)
	}

	f := &File{index: make(map[string]int, len(raw))}
	for name, msg := range raw {
		if name == metadataKey {
			if err := json.Unmarshal(msg, &f.metadata); err != nil {
				return nil, errors.Wrapf(ErrInvalidHeader, "metadata: %v", err)
			}
			continue
		}
		var info TensorInfo
		if err := json.Unmarshal(msg, &info); err != nil {
			return nil, errors.Wrapf(ErrInvalidHeader, "tensor %q: %v", name, err)
		}
		f.tensors = append(f.tensors, NamedTensorInfo{Name: name, Info: info})
	}

	f.data = buf[end:]
	if err := ValidateTensors(f.tensors, int64(len(f.data))); err != nil {
		return nil, err
	}
	for i, t := range f.tensors {
		f.index[t.Name] = i
	}
	return f, nil
}

// Names returns the tensor names in data order.
func (f *File) Names() []string {
	names := make([]string, len(f.tensors))
	for i, t := range f.tensors {
		names[i] = t.Name
	}
	return names
}

// Len returns the number of tensors.
func (f *File) Len() int {
	return len(f.tensors)
}

// Metadata returns a copy of the "__metadata__" map.
func (f *File) Metadata() map[string]string {
	return maps.Clone(f.metadata)
}

// Info returns the header entry of the named tensor.
func (f *File) Info(name string) (TensorInfo, error) {
	i, ok := f.index[name]
	if !ok {
		return TensorInfo{}, errors.Wrapf(ErrTensorNotFound, "%q", name)
	}
	return f.tensors[i].Info, nil
}

// Entry returns the named tensor's dtype, shape and a native-order copy of
// its row-major bytes.
func (f *File) Entry(name string) (Entry, error) {
	info, err := f.Info(name)
	if err != nil {
		return Entry{}, err
	}
	dtype, _ := safeTensorsToDtype(info.DType)
	data := slices.Clone(f.data[info.DataOffsets[0]:info.DataOffsets[1]])
	swapOrder(data, dtype.Size())
	return Entry{DType: dtype, Shape: tensor.Shape(slices.Clone(info.Shape)), Data: data}, nil
}

// Load decodes the named tensor into a new tensor with the given layout. T
// must match the stored dtype.
func Load[T tensor.DType](f *File, name string, layout tensor.Layout) (*tensor.Tensor[T], error) {
	e, err := f.Entry(name)
	if err != nil {
		return nil, err
	}
	t, err := tensor.FromRaw[T](e.Data, e.DType, e.Shape, tensor.RowMajor)
	if err != nil {
		return nil, errors.Wrapf(err, "load %q", name)
	}
	if layout == tensor.ColumnMajor {
		return tensor.AsFortran[T](t)
	}
	return t, nil
}
