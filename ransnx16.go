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

// The Nx16 (CRAM 3.1) variant: L = 2^15, two-byte renormalization
// units, a variable coding denominator and an interleave of 4 or 32
// streams. The coding denominator is always D = 2^12 in the end; an
// order-0 table may be *stored* at a smaller shift (see storageShift)
// to save header bits on small inputs, but is re-normalized to s=12
// before any symbol is coded. Order-1 tables pick s directly (see
// encodeOrder1Nx16) since their wire format already carries s
// explicitly. encodeInterleavedCore/decodeInterleavedCore in
// interleave.go own the N-way interleaving shared with the 4x8 variant.
const ransNx16L = uint32(1) << 15

// encodeOrder0Nx16 entropy-codes data with a single global distribution
// using n interleaved streams. It is the recursive building block used
// both for top-level Nx16 order-0 frames and for the inner-compressed
// form of Nx16 order-1 tables and RLE meta streams.
func encodeOrder0Nx16(data []byte, n int) ([]byte, int, error) {
	s := storageShift(len(data))

	counts := countOrder0(data)
	storeFt, alphabetSize, err := normalizeFrequencies(&counts.freq, 0, s)
	if err != nil {
		return nil, 0, err
	}

	w := internal.NewWriter(len(data)/2 + 32)
	encodeTable0Nx16(w, storeFt)

	if alphabetSize == 0 {
		return w.Bytes(), 0, nil
	}

	codingFt, _, err := normalizeFrequencies(&storeFt.freq, 0, 12)
	if err != nil {
		return nil, 0, err
	}

	symTab := buildEncSymbols(codingFt, 12)

	lookup := func(_ int, origIdx int) encSymbol {
		return symTab[data[origIdx]]
	}

	payload := encodeInterleavedCore(data, n, ransNx16L, 2, lookup)
	w.WriteBytes(payload)

	return w.Bytes(), alphabetSize, nil
}

// decodeOrder0Nx16 is the mirror of encodeOrder0Nx16. rawSize is the
// exact length of the data that was encoded, supplied by the caller
// (the outer frame header, or an inner blob's own declared length). It
// consumes the rest of r, which must hold exactly the table and the
// entropy payload: decodeInterleavedCore rejects any bytes left over.
func decodeOrder0Nx16(r *internal.Reader, rawSize int, n int) ([]byte, error) {
	storeFt, alphabetSize, err := decodeTable0Nx16(r)
	if err != nil {
		return nil, err
	}

	out := make([]byte, rawSize)

	if alphabetSize == 0 {
		if rawSize != 0 {
			return nil, errMalformed(r.Pos(), "empty Nx16 order-0 table but raw size is %d", rawSize)
		}

		return out, nil
	}

	codingFt, _, err := normalizeFrequencies(&storeFt.freq, 0, 12)
	if err != nil {
		return nil, err
	}

	decTab, rtab := buildDecSymbols(codingFt, 12)
	mask := uint32(len(rtab) - 1)

	lookup := func(_ int, _ int, x uint32) (byte, decSymbol, uint) {
		sym := rtab[x&mask]
		return sym, decTab[sym], 12
	}

	if err := decodeInterleavedCore(out, r.Bytes(), n, ransNx16L, 2, lookup); err != nil {
		return nil, err
	}

	r.Slice(r.Remaining())
	return out, nil
}

func encodeOrder1Nx16(data []byte, n int) ([]byte, error) {
	counts := countOrder1(data, n)

	var t table1
	for c := range counts.rows {
		var extra uint64
		if c == 0 {
			extra = uint64(n - 1)
		}

		row, _, err := normalizeFrequencies(&counts.rows[c].freq, extra, 12)
		if err != nil {
			return nil, err
		}

		t.rows[c] = row
	}

	w := internal.NewWriter(len(data)/2 + 32)
	if err := encodeTable1Nx16(w, t, 12); err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return w.Bytes(), nil
	}

	var symTab [256][256]encSymbol
	for c := range t.rows {
		symTab[c] = buildEncSymbols(t.rows[c], 12)
	}

	starts, _, _ := streamLayout(len(data), n)

	lookup := func(streamIdx int, origIdx int) encSymbol {
		prev := byte(0)
		if origIdx > starts[streamIdx] {
			prev = data[origIdx-1]
		}

		return symTab[prev][data[origIdx]]
	}

	payload := encodeInterleavedCore(data, n, ransNx16L, 2, lookup)
	w.WriteBytes(payload)

	return w.Bytes(), nil
}

// decodeOrder1Nx16 is the order-1 mirror of decodeOrder0Nx16; see its
// doc comment for the reader-in-place contract.
func decodeOrder1Nx16(r *internal.Reader, rawSize int, n int) ([]byte, error) {
	t, s, err := decodeTable1Nx16(r)
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

	starts, _, _ := streamLayout(rawSize, n)

	lookup := func(streamIdx int, origIdx int, x uint32) (byte, decSymbol, uint) {
		prev := byte(0)
		if origIdx > starts[streamIdx] {
			prev = out[origIdx-1]
		}

		mask := uint32(len(rtab[prev]) - 1)
		sym := rtab[prev][x&mask]
		return sym, decTab[prev][sym], s
	}

	if err := decodeInterleavedCore(out, r.Bytes(), n, ransNx16L, 2, lookup); err != nil {
		return nil, err
	}

	r.Slice(r.Remaining())
	return out, nil
}

// CompressNx16 encodes input using the CRAM 3.1 Nx16 rANS layout
// described by params. STRIPE is decode-only and is rejected here.
func CompressNx16(input []byte, params Nx16Params) ([]byte, error) {
	if params.Stripe {
		return nil, errUnsupportedFlag("STRIPE cannot be requested on encode (decode-only transform)")
	}

	if len(input) == 0 {
		return []byte{}, nil
	}

	flags, err := params.Encode()
	if err != nil {
		return nil, err
	}

	w := internal.NewWriter(len(input)/2 + 32)
	w.WriteU8(flags)

	if !params.NoSize {
		w.WriteUint7(uint64(len(input)))
	}

	if params.Cat {
		w.WriteBytes(input)
		return w.Bytes(), nil
	}

	coded := input

	if params.Pack {
		coded, err = (packTransform{}).Forward(coded, nil)
		if err != nil {
			return nil, err
		}
	}

	if params.RLE {
		coded, err = (rleTransform{}).Forward(coded, nil)
		if err != nil {
			return nil, err
		}
	}

	if params.Pack || params.RLE {
		w.WriteUint7(uint64(len(coded)))
	}

	var payload []byte

	if params.Order == 0 {
		payload, _, err = encodeOrder0Nx16(coded, params.N())
	} else {
		payload, err = encodeOrder1Nx16(coded, params.N())
	}

	if err != nil {
		return nil, err
	}

	w.WriteBytes(payload)
	return w.Bytes(), nil
}

// UncompressNx16 decodes a buffer produced by CompressNx16, or a
// STRIPE-wrapped frame produced by another tool. externalRawSize
// supplies the original length when the frame was encoded with NOSZ;
// it is required in that case and ignored otherwise.
func UncompressNx16(input []byte, externalRawSize ...int) ([]byte, error) {
	if len(input) == 0 {
		return []byte{}, nil
	}

	r := internal.NewReader(input)

	flagsByte, err := r.ReadU8()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated Nx16 frame header")
	}

	params, err := ParseNx16Params(flagsByte)
	if err != nil {
		return nil, err
	}

	var rawSize int

	if !params.NoSize {
		sz, err := r.ReadUint7()
		if err != nil {
			return nil, errMalformed(r.Pos(), "truncated Nx16 raw size")
		}

		rawSize = int(sz)
	} else {
		if len(externalRawSize) == 0 {
			return nil, errMalformed(r.Pos(), "NOSZ set but no external raw size supplied")
		}

		rawSize = externalRawSize[0]
	}

	if params.Stripe {
		return decodeStripeNx16(r, rawSize)
	}

	if params.Cat {
		out, err := r.Slice(rawSize)
		if err != nil {
			return nil, errMalformed(r.Pos(), "truncated Nx16 CAT payload")
		}

		return append([]byte(nil), out...), nil
	}

	codedSize := rawSize

	if params.Pack || params.RLE {
		sz, err := r.ReadUint7()
		if err != nil {
			return nil, errMalformed(r.Pos(), "truncated Nx16 coded size")
		}

		codedSize = int(sz)
	}

	var coded []byte

	if params.Order == 0 {
		coded, err = decodeOrder0Nx16(r, codedSize, params.N())
	} else {
		coded, err = decodeOrder1Nx16(r, codedSize, params.N())
	}

	if err != nil {
		return nil, err
	}

	if r.Remaining() != 0 {
		return nil, errMalformed(r.Pos(), "%d trailing bytes after Nx16 frame", r.Remaining())
	}

	if params.RLE {
		coded, err = (rleTransform{}).Inverse(coded, nil)
		if err != nil {
			return nil, err
		}
	}

	if params.Pack {
		coded, err = (packTransform{}).Inverse(coded, nil)
		if err != nil {
			return nil, err
		}
	}

	if len(coded) != rawSize {
		return nil, errMalformed(-1, "Nx16 frame decoded to %d bytes, expected %d", len(coded), rawSize)
	}

	return coded, nil
}
