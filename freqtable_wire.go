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

// writeRLEEntries walks symbol (or context) indices 0..255 in increasing
// order and, for each run of consecutive present indices, calls
// writePayload once per index in the run. The whole section is
// terminated by a single 0x00 byte once the scan reaches 256.
//
// An index of 0 read back as the very first entry is a real entry (index
// 0 is present); any later 0 can only be the terminator, since indices
// strictly increase within a run-list. This is why the alphabet and
// context sections are never invoked on a wholly empty table: the framer
// special-cases a zero-length input before any table is serialized.
func writeRLEEntries(w *internal.Writer, present [256]bool, writePayload func(w *internal.Writer, idx int)) {
	for i := 0; i < 256; {
		if !present[i] {
			i++
			continue
		}

		run := 0
		for j := i + 1; j < 256 && present[j]; j++ {
			run++
		}

		w.WriteU8(byte(i))
		writePayload(w, i)
		w.WriteU8(byte(run))

		for k := 1; k <= run; k++ {
			writePayload(w, i+k)
		}

		i += run + 1
	}

	w.WriteU8(0)
}

// readRLEEntries is the mirror of writeRLEEntries: it decodes the
// run-list and invokes readPayload once per present index, in increasing
// order, returning the list of indices encountered.
func readRLEEntries(r *internal.Reader, readPayload func(r *internal.Reader, idx int) error) ([]int, error) {
	var indices []int
	first := true
	prev := -1

	for {
		idxByte, err := r.ReadU8()
		if err != nil {
			return nil, errMalformed(r.Pos(), "truncated alphabet/context run-list")
		}

		idx := int(idxByte)

		if !first && idx <= prev {
			// Terminator: monotonicity broken (or the encoder's literal
			// 0x00 end marker).
			if idx != 0 {
				return nil, errMalformed(r.Pos()-1, "run-list index %d out of order after %d", idx, prev)
			}

			return indices, nil
		}

		if err := readPayload(r, idx); err != nil {
			return nil, err
		}

		indices = append(indices, idx)
		prev = idx
		first = false

		run, err := r.ReadU8()
		if err != nil {
			return nil, errMalformed(r.Pos(), "truncated run-list run count")
		}

		for k := 1; k <= int(run); k++ {
			idx++

			if idx > 255 {
				return nil, errMalformed(r.Pos(), "run-list run count overruns alphabet")
			}

			if err := readPayload(r, idx); err != nil {
				return nil, err
			}

			indices = append(indices, idx)
			prev = idx
		}
	}
}

// --- 4x8 frequency encoding: high bit of the first byte flags a second
// byte for frequencies >= 128 (spec §4.2 "4x8 order-0"). ---

func writeFreq4x8(w *internal.Writer, f uint32) {
	if f < 128 {
		w.WriteU8(byte(f))
		return
	}

	w.WriteU8(0x80 | byte(f>>8))
	w.WriteU8(byte(f))
}

func readFreq4x8(r *internal.Reader) (uint32, error) {
	b, err := r.ReadU8()
	if err != nil {
		return 0, errMalformed(r.Pos(), "truncated 4x8 frequency")
	}

	if b&0x80 == 0 {
		return uint32(b), nil
	}

	b2, err := r.ReadU8()
	if err != nil {
		return 0, errMalformed(r.Pos(), "truncated 4x8 frequency (two-byte form)")
	}

	return uint32(b&0x7F)<<8 | uint32(b2), nil
}

// encodeTable0_4x8 serializes an order-0 table in the 4x8 layout.
func encodeTable0_4x8(w *internal.Writer, t table0) {
	var present [256]bool
	for i, f := range t.freq {
		present[i] = f > 0
	}

	writeRLEEntries(w, present, func(w *internal.Writer, idx int) {
		writeFreq4x8(w, t.freq[idx])
	})
}

// decodeTable0_4x8 parses an order-0 table in the 4x8 layout.
func decodeTable0_4x8(r *internal.Reader) (table0, int, error) {
	var t table0

	indices, err := readRLEEntries(r, func(r *internal.Reader, idx int) error {
		f, err := readFreq4x8(r)
		if err != nil {
			return err
		}

		t.freq[idx] = f
		return nil
	})

	if err != nil {
		return t, 0, err
	}

	return t, len(indices), nil
}

// encodeTable1_4x8 serializes a 256x256 order-1 table using the
// 4x8 layout: a leading byte whose high nibble is s, followed by a
// context run-list whose payload is a nested order-0 table per present
// context.
func encodeTable1_4x8(w *internal.Writer, t table1, s uint) {
	w.WriteU8(byte(s << 4))

	var present [256]bool
	for c := range t.rows {
		var sum uint32
		for _, f := range t.rows[c].freq {
			sum += f
		}
		present[c] = sum > 0
	}

	writeRLEEntries(w, present, func(w *internal.Writer, idx int) {
		encodeTable0_4x8(w, t.rows[idx])
	})
}

func decodeTable1_4x8(r *internal.Reader) (table1, uint, error) {
	var t table1

	hdr, err := r.ReadU8()
	if err != nil {
		return t, 0, errMalformed(r.Pos(), "truncated order-1 table header")
	}

	s := uint(hdr >> 4)

	_, err = readRLEEntries(r, func(r *internal.Reader, idx int) error {
		row, _, err := decodeTable0_4x8(r)
		if err != nil {
			return err
		}

		t.rows[idx] = row
		return nil
	})

	if err != nil {
		return t, 0, err
	}

	return t, s, nil
}

// --- Nx16 order-0: separate alphabet section (RLE of indices only)
// followed by a uint7-encoded frequency per alphabet entry. ---

func encodeTable0Nx16(w *internal.Writer, t table0) {
	var present [256]bool
	for i, f := range t.freq {
		present[i] = f > 0
	}

	writeRLEEntries(w, present, func(w *internal.Writer, idx int) {})

	for i, f := range t.freq {
		if present[i] {
			w.WriteUint7(uint64(f))
		}
	}
}

func decodeTable0Nx16(r *internal.Reader) (table0, int, error) {
	var t table0

	indices, err := readRLEEntries(r, func(r *internal.Reader, idx int) error { return nil })
	if err != nil {
		return t, 0, err
	}

	for _, idx := range indices {
		f, err := r.ReadUint7()
		if err != nil {
			return t, 0, errMalformed(r.Pos(), "truncated Nx16 order-0 frequency for symbol %d", idx)
		}

		t.freq[idx] = uint32(f)
	}

	return t, len(indices), nil
}

// storageShift picks the denominator shift used to serialize an Nx16
// order-0 table: ceil(log2(inSize)) clamped to [1, 12]. The coding
// denominator is always re-normalized to s=12 afterwards (spec §3).
func storageShift(inSize int) uint {
	if inSize < 1 {
		inSize = 1
	}

	return internal.Clamp(internal.Log2Ceil(inSize), 1, 12)
}

// --- Nx16 order-1: a header byte (high nibble s, bit 0 "table itself is
// Nx16-order0-N4-compressed"), then a shared symbol alphabet, a context
// alphabet, and per-context frequencies over the shared alphabet with
// zero-run compression. ---

const nx16Order1InnerCompressThreshold = 48

func encodeOrder1TableBodyNx16(t table1, s uint) []byte {
	w := internal.NewWriter(256)

	var symPresent [256]bool
	var ctxPresent [256]bool

	for c := range t.rows {
		rowHasAny := false

		for sym, f := range t.rows[c].freq {
			if f > 0 {
				symPresent[sym] = true
				rowHasAny = true
			}
		}

		ctxPresent[c] = rowHasAny
	}

	writeRLEEntries(w, symPresent, func(w *internal.Writer, idx int) {})
	writeRLEEntries(w, ctxPresent, func(w *internal.Writer, idx int) {})

	var symbols []int
	for sym := 0; sym < 256; sym++ {
		if symPresent[sym] {
			symbols = append(symbols, sym)
		}
	}

	for c := 0; c < 256; c++ {
		if !ctxPresent[c] {
			continue
		}

		row := &t.rows[c]

		for i := 0; i < len(symbols); i++ {
			f := row.freq[symbols[i]]
			w.WriteUint7(uint64(f))

			if f == 0 {
				skip := 0
				for i+1+skip < len(symbols) && row.freq[symbols[i+1+skip]] == 0 {
					skip++
				}

				w.WriteUint7(uint64(skip))
				i += skip
			}
		}
	}

	return w.Bytes()
}

func decodeOrder1TableBodyNx16(r *internal.Reader) (table1, error) {
	var t table1

	symbols, err := readRLEEntries(r, func(r *internal.Reader, idx int) error { return nil })
	if err != nil {
		return t, err
	}

	contexts, err := readRLEEntries(r, func(r *internal.Reader, idx int) error { return nil })
	if err != nil {
		return t, err
	}

	for _, c := range contexts {
		row := &t.rows[c]

		for i := 0; i < len(symbols); i++ {
			f, err := r.ReadUint7()
			if err != nil {
				return t, errMalformed(r.Pos(), "truncated Nx16 order-1 row for context %d", c)
			}

			row.freq[symbols[i]] = uint32(f)

			if f == 0 {
				skip, err := r.ReadUint7()
				if err != nil {
					return t, errMalformed(r.Pos(), "truncated Nx16 order-1 zero-run for context %d", c)
				}

				for k := 1; k <= int(skip); k++ {
					i++
					if i >= len(symbols) {
						return t, errMalformed(r.Pos(), "Nx16 order-1 zero-run overruns alphabet for context %d", c)
					}

					row.freq[symbols[i]] = 0
				}
			}
		}
	}

	return t, nil
}

func encodeTable1Nx16(w *internal.Writer, t table1, s uint) error {
	body := encodeOrder1TableBodyNx16(t, s)

	compress := len(body) > nx16Order1InnerCompressThreshold

	hdr := byte(s<<4) | 0

	if compress {
		hdr |= 1
	}

	w.WriteU8(hdr)

	if !compress {
		w.WriteBytes(body)
		return nil
	}

	compBody, _, err := encodeOrder0Nx16(body, 4)
	if err != nil {
		return err
	}

	w.WriteUint7(uint64(len(body)))
	w.WriteUint7(uint64(len(compBody)))
	w.WriteBytes(compBody)
	return nil
}

func decodeTable1Nx16(r *internal.Reader) (table1, uint, error) {
	hdr, err := r.ReadU8()
	if err != nil {
		return table1{}, 0, errMalformed(r.Pos(), "truncated Nx16 order-1 table header")
	}

	s := uint(hdr >> 4)
	compressed := hdr&1 != 0

	if !compressed {
		t, err := decodeOrder1TableBodyNx16(r)
		return t, s, err
	}

	uncompLen, err := r.ReadUint7()
	if err != nil {
		return table1{}, 0, errMalformed(r.Pos(), "truncated Nx16 order-1 inner uncompressed length")
	}

	compLen, err := r.ReadUint7()
	if err != nil {
		return table1{}, 0, errMalformed(r.Pos(), "truncated Nx16 order-1 inner compressed length")
	}

	compBody, err := r.Slice(int(compLen))
	if err != nil {
		return table1{}, 0, errMalformed(r.Pos(), "truncated Nx16 order-1 inner compressed blob")
	}

	body, err := decodeOrder0Nx16(internal.NewReader(compBody), int(uncompLen), 4)
	if err != nil {
		return table1{}, 0, err
	}

	t, err := decodeOrder1TableBodyNx16(internal.NewReader(body))
	return t, s, err
}
