// Package serialization reads and writes tensors in the safetensors format.
//
//	Format Structure:
//	  [8 bytes: Header Size N (uint64 LE)]
//	  [N bytes: JSON header, space padded to a multiple of 8]
//	  [Tensor data: raw little-endian bytes, row-major, back to back]
//
// The header maps each tensor name to its dtype, shape and data offsets,
// plus an optional "__metadata__" string map:
//
//	{"__metadata__":{"format":"ndarray"},"w":{"dtype":"F32","shape":[2,3],"data_offsets":[0,24]}}
//
// Example usage:
//
//	w, _ := serialization.EntryOf[float32](weights)
//	err := serialization.WriteFile("model.safetensors", map[string]serialization.Entry{"w": w}, nil)
//
//	f, err := serialization.ReadFile("model.safetensors")
//	back, err := serialization.Load[float32](f, "w", tensor.RowMajor)
package serialization
