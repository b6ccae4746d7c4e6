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

import (
	"github.com/flanglet/cram-rans/internal"
)

// The 4x8 (CRAM 3.0) variant: L = 2^23, one-byte renormalization units,
// a fixed coding denominator D = 2^12 and a fixed four-way interleave.
// The renormalization hot loop is ported from the two-byte variant in
// ANSRangeCodec.go, narrowed to a single byte per step to match this
// variant's (L, b) pair; encodeInterleavedCore/decodeInterleavedCore in
// interleave.go own the N-way interleaving shared with the Nx16 variant.
const (
	rans4x8L = uint32(1) << 23
	rans4x8S = uint(12)
	rans4x8N = 4
)

// buildEncSymbols derives one encSymbol per present entry of t, keyed by
// symbol value, with cumulative frequencies assigned in increasing
// symbol order.
func buildEncSymbols(t table0, s uint) [256]encSymbol {
	var out [256]encSymbol
	var cum uint32

	for i, f := range t.freq {
		if f == 0 {
			continue
		}

		out[i] = newEncSymbol(cum, f, s)
		cum += f
	}

	return out
}

// buildDecSymbols derives the per-symbol decoding states and the
// size-D reverse lookup table R mapping a coding-space slot to the
// symbol that owns it.
func buildDecSymbols(t table0, s uint) ([256]decSymbol, []byte) {
	var out [256]decSymbol
	r := make([]byte, uint32(1)<<s)

	var cum uint32

	for i, f := range t.freq {
		if f == 0 {
			continue
		}

		out[i] = newDecSymbol(cum, f)

		for k := uint32(0); k < f; k++ {
			r[cum+k] = byte(i)
		}

		cum += f
	}

	return out, r
}

// compress4x8Order0 entropy-codes data across rans4x8N interleaved rANS
// states sharing one order-0 table, in the spec's shared-buffer/BE
// state-flush/reverse layout (see interleave.go).
func compress4x8Order0(data []byte) ([]byte, error) {
	counts := countOrder0(data)

	ft, alphabetSize, err := normalizeFrequencies(&counts.freq, 0, rans4x8S)
	if err != nil {
		return nil, err
	}

	w := internal.NewWriter(len(data)/2 + 64)
	encodeTable0_4x8(w, ft)

	if alphabetSize == 0 {
		return w.Bytes(), nil
	}

	symTab := buildEncSymbols(ft, rans4x8S)

	lookup := func(_ int, origIdx int) encSymbol {
		return symTab[data[origIdx]]
	}

	payload := encodeInterleavedCore(data, rans4x8N, rans4x8L, 1, lookup)
	w.WriteBytes(payload)

	return w.Bytes(), nil
}

func uncompress4x8Order0(r *internal.Reader, rawSize int) ([]byte, error) {
	ft, alphabetSize, err := decodeTable0_4x8(r)
	if err != nil {
		return nil, err
	}

	out := make([]byte, rawSize)

	if alphabetSize == 0 {
		if rawSize != 0 {
			return nil, errMalformed(r.Pos(), "empty order-0 table but raw size is %d", rawSize)
		}

		return out, nil
	}

	decTab, rtab := buildDecSymbols(ft, rans4x8S)
	mask := uint32(len(rtab) - 1)

	lookup := func(_ int, _ int, x uint32) (byte, decSymbol, uint) {
		sym := rtab[x&mask]
		return sym, decTab[sym], rans4x8S
	}

	if err := decodeInterleavedCore(out, r.Bytes(), rans4x8N, rans4x8L, 1, lookup); err != nil {
		return nil, err
	}

	r.Slice(r.Remaining())
	return out, nil
}

func compress4x8Order1(data []byte) ([]byte, error) {
	counts := countOrder1(data, rans4x8N)

	var t table1

	for c := range counts.rows {
		var extra uint64
		if c == 0 {
			extra = uint64(rans4x8N - 1)
		}

		row, _, err := normalizeFrequencies(&counts.rows[c].freq, extra, rans4x8S)
		if err != nil {
			return nil, err
		}

		t.rows[c] = row
	}

	w := internal.NewWriter(len(data)/2 + 64)
	encodeTable1_4x8(w, t, rans4x8S)

	if len(data) == 0 {
		return w.Bytes(), nil
	}

	var symTab [256][256]encSymbol
	for c := range t.rows {
		symTab[c] = buildEncSymbols(t.rows[c], rans4x8S)
	}

	starts, _, _ := streamLayout(len(data), rans4x8N)

	lookup := func(streamIdx int, origIdx int) encSymbol {
		prev := byte(0)
		if origIdx > starts[streamIdx] {
			prev = data[origIdx-1]
		}

		return symTab[prev][data[origIdx]]
	}

	payload := encodeInterleavedCore(data, rans4x8N, rans4x8L, 1, lookup)
	w.WriteBytes(payload)

	return w.Bytes(), nil
}

func uncompress4x8Order1(r *internal.Reader, rawSize int) ([]byte, error) {
	t, s, err := decodeTable1_4x8(r)
	if err != nil {
		return nil, err
	}

	out := make([]byte, rawSize)

	if rawSize == 0 {
		return out, nil
	}

	var decTab [256][256]decSymbol
	var rtab [256][]byte

	for c := range t.rows {
		dt, rt := buildDecSymbols(t.rows[c], s)
		decTab[c] = dt
		rtab[c] = rt
	}

	starts, _, _ := streamLayout(rawSize, rans4x8N)

	lookup := func(streamIdx int, origIdx int, x uint32) (byte, decSymbol, uint) {
		prev := byte(0)
		if origIdx > starts[streamIdx] {
			prev = out[origIdx-1]
		}

		mask := uint32(len(rtab[prev]) - 1)
		sym := rtab[prev][x&mask]
		return sym, decTab[prev][sym], s
	}

	if err := decodeInterleavedCore(out, r.Bytes(), rans4x8N, rans4x8L, 1, lookup); err != nil {
		return nil, err
	}

	r.Slice(r.Remaining())
	return out, nil
}

// Compress4x8 encodes input using the CRAM 3.0 4x8 rANS layout. order
// must be 0 or 1. The frame is u8 order, u32 compressed_size, u32
// raw_size, the frequency table, then the entropy payload (spec §4.6);
// compressed_size covers everything from the frequency table onward so
// a decoder can validate the frame's length before touching the table.
func Compress4x8(input []byte, order int) ([]byte, error) {
	if order != 0 && order != 1 {
		return nil, errMalformed(-1, "4x8 order must be 0 or 1, got %d", order)
	}

	if len(input) == 0 {
		return []byte{}, nil
	}

	var body []byte
	var err error

	if order == 0 {
		body, err = compress4x8Order0(input)
	} else {
		body, err = compress4x8Order1(input)
	}

	if err != nil {
		return nil, err
	}

	w := internal.NewWriter(len(body) + 16)
	w.WriteU8(byte(order))
	w.WriteU32LE(uint32(len(body)))
	w.WriteU32LE(uint32(len(input)))
	w.WriteBytes(body)

	return w.Bytes(), nil
}

// Uncompress4x8 decodes a buffer produced by Compress4x8.
func Uncompress4x8(input []byte) ([]byte, error) {
	if len(input) == 0 {
		return []byte{}, nil
	}

	r := internal.NewReader(input)

	orderByte, err := r.ReadU8()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated 4x8 frame header")
	}

	if orderByte != 0 && orderByte != 1 {
		return nil, errMalformed(r.Pos()-1, "4x8 order byte must be 0 or 1, got %d", orderByte)
	}

	compressedSize, err := r.ReadU32LE()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated 4x8 compressed size")
	}

	rawSize, err := r.ReadU32LE()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated 4x8 raw size")
	}

	if r.Remaining() != int(compressedSize) {
		return nil, errMalformed(r.Pos(), "4x8 compressed_size %d does not match %d remaining bytes", compressedSize, r.Remaining())
	}

	var out []byte

	if orderByte == 0 {
		out, err = uncompress4x8Order0(r, int(rawSize))
	} else {
		out, err = uncompress4x8Order1(r, int(rawSize))
	}

	if err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		return nil, errMalformed(r.Pos(), "%d trailing bytes after 4x8 frame", r.Remaining())
	}

	return out, nil
}
