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

// rleTransform splits data into a literal stream (one byte per run or
// isolated occurrence) and a meta stream of run lengths, but only for
// byte values that are "RLE-worthy": those that occur in runs of two or
// more at least as often as they occur in isolation. When no byte
// qualifies, byte 0 is treated as RLE-worthy so the worthy alphabet is
// never empty. Every other byte passes through the literal stream with
// no meta entry at all.
type rleTransform struct{}

func rleWorthySet(data []byte) [256]bool {
	var runCount, isolatedCount [256]int

	for i := 0; i < len(data); {
		j := i + 1
		for j < len(data) && data[j] == data[i] {
			j++
		}

		if j-i >= 2 {
			runCount[data[i]]++
		} else {
			isolatedCount[data[i]]++
		}

		i = j
	}

	var worthy [256]bool
	anyWorthy := false
	for v := 0; v < 256; v++ {
		worthy[v] = runCount[v] > 0 && runCount[v] >= isolatedCount[v]
		anyWorthy = anyWorthy || worthy[v]
	}

	// An empty set would serialize as a lone terminator, which reads
	// back as index 0; nominate 0 so the alphabet is never empty.
	if !anyWorthy {
		worthy[0] = true
	}

	return worthy
}

// Forward splits src into an RLE-worthy alphabet, a literal stream and a
// meta stream of run lengths (itself entropy-coded with the order-0
// Nx16 N=4 codec, since run lengths cluster heavily around small
// values).
func (rleTransform) Forward(src, dst []byte) ([]byte, error) {
	worthy := rleWorthySet(src)

	w := internal.NewWriter(len(src)/2 + 16)
	writeRLEEntries(w, worthy, func(w *internal.Writer, idx int) {})

	literal := internal.NewWriter(len(src))
	meta := internal.NewWriter(len(src) / 4)

	for i := 0; i < len(src); {
		v := src[i]
		j := i + 1
		for j < len(src) && src[j] == v {
			j++
		}

		run := j - i
		literal.WriteU8(v)

		if worthy[v] {
			meta.WriteUint7(uint64(run - 1))
			i = j
		} else {
			i++
		}
	}

	w.WriteUint7(uint64(literal.Len()))
	w.WriteBytes(literal.Bytes())

	metaRaw := meta.Bytes()

	var compMeta []byte
	if len(metaRaw) > 0 {
		var err error
		compMeta, _, err = encodeOrder0Nx16(metaRaw, 4)
		if err != nil {
			return nil, err
		}
	}

	w.WriteUint7(uint64(len(metaRaw)))
	w.WriteUint7(uint64(len(compMeta)))
	w.WriteBytes(compMeta)

	return append(dst, w.Bytes()...), nil
}

// Inverse reverses Forward.
func (rleTransform) Inverse(src, dst []byte) ([]byte, error) {
	r := internal.NewReader(src)

	var worthy [256]bool

	indices, err := readRLEEntries(r, func(r *internal.Reader, idx int) error { return nil })
	if err != nil {
		return nil, err
	}

	for _, idx := range indices {
		worthy[idx] = true
	}

	litLen, err := r.ReadUint7()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated RLE literal length")
	}

	literal, err := r.Slice(int(litLen))
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated RLE literal stream")
	}

	metaRawLen, err := r.ReadUint7()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated RLE meta raw length")
	}

	metaCompLen, err := r.ReadUint7()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated RLE meta compressed length")
	}

	compMeta, err := r.Slice(int(metaCompLen))
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated RLE meta compressed blob")
	}

	var metaRaw []byte
	if metaRawLen > 0 {
		metaRaw, err = decodeOrder0Nx16(internal.NewReader(compMeta), int(metaRawLen), 4)
		if err != nil {
			return nil, err
		}
	}

	metaR := internal.NewReader(metaRaw)

	out := make([]byte, 0, len(literal))

	for _, v := range literal {
		if !worthy[v] {
			out = append(out, v)
			continue
		}

		runMinusOne, err := metaR.ReadUint7()
		if err != nil {
			return nil, errMalformed(-1, "RLE meta stream exhausted before literal stream")
		}

		for k := uint64(0); k <= runMinusOne; k++ {
			out = append(out, v)
		}
	}

	return append(dst, out...), nil
}
