// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package serialization saves and loads named tensors in the safetensors
// format used by HuggingFace and most ML tooling.
//
// Example:
//
//	w, _ := serialization.EntryOf[float32](weights)
//	err := serialization.WriteFile("model.safetensors", map[string]serialization.Entry{"w": w}, nil)
//
//	f, _ := serialization.ReadFile("model.safetensors")
//	back, err := serialization.Load[float32](f, "w", tensor.RowMajor)
package serialization

import (
	"io"

	"github.com/born-ml/ndarray/internal/serialization"
	"github.com/born-ml/ndarray/tensor"
)

// Entry is a tensor encoded for writing.
type Entry = serialization.Entry

// File is a parsed safetensors buffer.
type File = serialization.File

// TensorInfo describes one tensor in the header.
type TensorInfo = serialization.TensorInfo

// ValidationError reports a malformed header entry.
type ValidationError = serialization.ValidationError

// Errors returned while parsing.
var (
	ErrInvalidHeader  = serialization.ErrInvalidHeader
	ErrHeaderTooLarge = serialization.ErrHeaderTooLarge
	ErrTensorNotFound = serialization.ErrTensorNotFound
)

// EntryOf encodes e in row-major order.
func EntryOf[T tensor.DType](e tensor.Expr[T]) (Entry, error) {
	return serialization.EntryOf(e)
}

// Write encodes entries to w, in alphabetical order by name.
func Write(w io.Writer, entries map[string]Entry, metadata map[string]string) error {
	return serialization.Write(w, entries, metadata)
}

// WriteFile writes entries to a file at path.
func WriteFile(path string, entries map[string]Entry, metadata map[string]string) error {
	return serialization.WriteFile(path, entries, metadata)
}

// Read parses everything r yields.
func Read(r io.Reader) (*File, error) {
	return serialization.Read(r)
}

// ReadFile reads and parses the file at path.
func ReadFile(path string) (*File, error) {
	return serialization.ReadFile(path)
}

// Load decodes the named tensor into a new tensor with the given layout.
func Load[T tensor.DType](f *File, name string, layout tensor.Layout) (*tensor.Tensor[T], error) {
	return serialization.Load[T](f, name, layout)
}
