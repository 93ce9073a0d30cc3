// Package linalg implements batched algebra over ordered sequences of
// 3-vectors.
//
// Element-level kernels in the contact package are written against the
// [Batch] interface so the backend can be swapped: [Serial] is the
// scalar-loop reference, [Parallel] fans the element range out across
// goroutines. Both are allocation free and panic on mismatched lengths,
// matching gonum's convention for shape errors.
package linalg
