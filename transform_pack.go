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

package cramrans

import "github.com/flanglet/cram-rans/internal"

// packTransform bit-packs data whose alphabet is small enough that each
// symbol fits in 1, 2 or 4 bits, ahead of entropy coding. It implements
// ByteTransform.
type packTransform struct{}

// packBitsFor returns the number of bits needed to index k distinct
// symbols. A single symbol needs no bits at all: every output byte is
// that one symbol, so Forward emits zero packed payload bytes and
// Inverse reconstructs the run from the original length alone.
func packBitsFor(k int) uint {
	switch {
	case k <= 1:
		return 0
	case k <= 2:
		return 1
	case k <= 4:
		return 2
	default:
		return 4
	}
}

// Forward packs src into a self-contained blob: symbol count, the
// mapping table, the original length, then the bit-packed payload (k
// == 1 contributes no payload bytes: bits == 0 keeps accBits pinned at
// zero for the whole loop below).
func (packTransform) Forward(src, dst []byte) ([]byte, error) {
	var present [256]bool
	for _, b := range src {
		present[b] = true
	}

	var symbols []byte
	for i := 0; i < 256; i++ {
		if present[i] {
			symbols = append(symbols, byte(i))
		}
	}

	k := len(symbols)
	if k == 0 || k > 16 {
		return nil, errUnsupportedFlag("PACK requires 1..16 distinct symbols, got %d", k)
	}

	var code [256]byte
	for i, s := range symbols {
		code[s] = byte(i)
	}

	bits := packBitsFor(k)

	w := internal.NewWriter(len(src)/2 + 16)
	w.WriteU8(byte(k))
	w.WriteBytes(symbols)
	w.WriteUint7(uint64(len(src)))

	var acc uint32
	var accBits uint

	for _, b := range src {
		acc |= uint32(code[b]) << accBits
		accBits += bits

		for accBits >= 8 {
			w.WriteU8(byte(acc))
			acc >>= 8
			accBits -= 8
		}
	}

	if accBits > 0 {
		w.WriteU8(byte(acc))
	}

	return append(dst, w.Bytes()...), nil
}

// Inverse reverses Forward.
func (packTransform) Inverse(src, dst []byte) ([]byte, error) {
	r := internal.NewReader(src)

	k, err := r.ReadU8()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated PACK symbol count")
	}

	if k == 0 || k > 16 {
		return nil, errMalformed(r.Pos()-1, "PACK symbol count %d out of range", k)
	}

	symbols, err := r.Slice(int(k))
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated PACK symbol table")
	}

	n, err := r.ReadUint7()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated PACK output length")
	}

	bits := packBitsFor(int(k))
	mask := uint32(1<<bits) - 1
	packed := r.Bytes()

	out := make([]byte, n)

	var acc uint32
	var accBits uint
	pos := 0

	for i := range out {
		for accBits < bits {
			if pos >= len(packed) {
				return nil, errMalformed(-1, "PACK payload truncated before %d symbols unpacked", n)
			}

			acc |= uint32(packed[pos]) << accBits
			pos++
			accBits += 8
		}

		code := acc & mask
		if int(code) >= len(symbols) {
			return nil, errMalformed(-1, "PACK code %d has no mapped symbol", code)
		}

		out[i] = symbols[code]
		acc >>= bits
		accBits -= bits
	}

	return append(dst, out...), nil
}
