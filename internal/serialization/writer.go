package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/pkg/errors"

	"github.com/born-ml/ndarray/internal/tensor"
)

// Entry is a tensor encoded for writing.
type Entry struct {
	DType tensor.DataType
	Shape tensor.Shape
	Data  []byte // Row-major, native byte order.
}

// EntryOf encodes e in the row-major order the format stores.
func EntryOf[T tensor.DType](e tensor.Expr[T]) (Entry, error) {
	t, err := tensor.AsContiguous(e)
	if err != nil {
		return Entry{}, errors.Wrap(err, "encode tensor")
	}
	data, dtype, err := t.Bytes()
	if err != nil {
		return Entry{}, errors.Wrap(err, "encode tensor")
	}
	return Entry{DType: dtype, Shape: t.Shape().Clone(), Data: data}, nil
}

// WriteFile writes entries to a safetensors file at path.
func WriteFile(path string, entries map[string]Entry, metadata map[string]string) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for saving
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()

	bw := bufio.NewWriter(file)
	if err := Write(bw, entries, metadata); err != nil {
		return err
	}
	return errors.Wrap(bw.Flush(), "failed to flush file")
}

// Write encodes entries to w.
//
// Tensors are laid out in alphabetical order by name, and metadata, when
// non-empty, is stored under "__metadata__".
func Write(w io.Writer, entries map[string]Entry, metadata map[string]string) error {
	names := slices.Sorted(maps.Keys(entries))

	header := make(map[string]any, len(names)+1)
	if len(metadata) > 0 {
		header[metadataKey] = metadata
	}

	var offset int64
	for _, name := range names {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		e := entries[name]
		n, err := e.Shape.CheckedNumElements()
		if err != nil {
			return errors.Wrapf(err, "tensor %q", name)
		}
		code := dtypeToSafeTensors(e.DType)
		if code == "" {
			return errors.Wrapf(tensor.ErrInvalidArgument, "tensor %q: unsupported dtype %s", name, e.DType)
		}
		size := int64(n) * int64(e.DType.Size())
		if int64(len(e.Data)) != size {
			return errors.Wrapf(tensor.ErrShapeMismatch, "tensor %q: shape %v of %s needs %d bytes, got %d",
				name, e.Shape, e.DType, size, len(e.Data))
		}

		header[name] = TensorInfo{
			DType:       code,
			Shape:       append([]int{}, e.Shape...),
			DataOffsets: [2]int64{offset, offset + size},
		}
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return errors.Wrap(err, "failed to marshal header")
	}
	if pad := len(headerJSON) % headerAlign; pad != 0 {
		headerJSON = append(headerJSON, bytes.Repeat([]byte{' '}, headerAlign-pad)...)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return errors.Wrap(err, "failed to write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return errors.Wrap(err, "failed to write header")
	}

	for _, name := range names {
		e := entries[name]
		data := e.Data
		if !littleEndianHost {
			data = slices.Clone(data)
			swapOrder(data, e.DType.Size())
		}
		if _, err := w.Write(data); err != nil {
			return errors.Wrapf(err, "failed to write tensor %s", name)
		}
	}
	return nil
}
