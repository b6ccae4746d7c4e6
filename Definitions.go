/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package cramrans implements the rANS entropy codec used by the CRAM
// alignment format: the 4x8 wire variant (CRAM 3.0) and the Nx16 wire
// variant (CRAM 3.1, N in {4, 32}), their order-0/order-1 context models,
// and the PACK/RLE/STRIPE byte transforms that wrap the Nx16 entropy
// layer.
//
// The package is oblivious to any surrounding container format: it
// consumes and produces raw byte buffers. There is no file I/O, no
// seekable stream, and no persisted state; every exported entry point is
// a pure function of its arguments.
package cramrans

// ByteTransform converts a byte slice and writes the result into a
// destination slice. The result may have a different length than the
// source. Implementations are stateless across calls: no information is
// retained between one Forward/Inverse call and the next.
type ByteTransform interface {
	// Forward applies the transform to src and appends the result to dst,
	// returning the extended slice.
	Forward(src, dst []byte) ([]byte, error)

	// Inverse applies the reverse transform to src and appends the result
	// to dst, returning the extended slice.
	Inverse(src, dst []byte) ([]byte, error)
}
