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

// table0 is a raw or normalized order-0 frequency distribution over the
// 256 possible byte symbols.
type table0 struct {
	freq [256]uint32
}

// table1 is a 256x256 order-1 distribution: freq[context][symbol].
type table1 struct {
	rows [256]table0
}

// streamBounds returns the [start, end) byte range owned by interleaved
// stream i out of n, for a buffer of the given length. Each of the first
// n-1 streams gets exactly len/n bytes; the last stream absorbs the
// remainder. This split is shared by order-1 counting (here) and by the
// rANS engines' interleaving (C4) so that contexts line up exactly.
func streamBounds(length, n, i int) (int, int) {
	base := length / n
	start := i * base

	if i == n-1 {
		return start, length
	}

	return start, start + base
}

// countOrder0 tallies per-symbol occurrences in a single pass.
func countOrder0(data []byte) table0 {
	var t table0

	for _, b := range data {
		t.freq[b]++
	}

	return t
}

// countOrder1 tallies per-(context, symbol) occurrences across n
// interleaved streams. Within each stream the running previous-symbol
// context resets to the sentinel 0 at the stream's first byte, so that
// streams can be coded independently; see spec §4.2 "Counting
// (order-1)".
func countOrder1(data []byte, n int) table1 {
	var t table1

	if len(data) == 0 {
		return t
	}

	for i := 0; i < n; i++ {
		start, end := streamBounds(len(data), n, i)
		prev := byte(0)

		for j := start; j < end; j++ {
			cur := data[j]
			t.rows[prev].freq[cur]++
			prev = cur
		}
	}

	return t
}

// normalizeFrequencies scales counts so that the sum of entries with
// nonzero raw count equals D = 1<<s, per spec §4.2 "Normalization".
// extraTotal is added only to the fixed-point scale factor's
// denominator T, not attributed to any individual symbol; order-1
// counting uses this to statistically reserve probability mass in
// context 0 for the N-1 interleaved streams' reset-to-sentinel first
// symbols without inventing a symbol identity for them.
func normalizeFrequencies(counts *[256]uint32, extraTotal uint64, s uint) (table0, int, error) {
	var out table0

	var total uint64
	for _, c := range counts {
		total += uint64(c)
	}

	if total == 0 {
		return out, 0, nil
	}

	d := uint64(1) << s
	t := total + extraTotal
	tr := (d<<31)/t + (uint64(1)<<30)/t

	var sum uint64
	alphabetSize := 0
	maxRaw := uint32(0)
	maxIdx := -1

	for i, c := range counts {
		if c == 0 {
			continue
		}

		alphabetSize++

		f := (uint64(c) * tr) >> 31
		if f == 0 {
			f = 1
		}

		out.freq[i] = uint32(f)
		sum += f

		if c > maxRaw {
			maxRaw = c
			maxIdx = i
		}
	}

	if sum != d {
		if maxIdx < 0 {
			return out, alphabetSize, errInternal("normalize: no candidate symbol to absorb a deficit/excess of %d", int64(d)-int64(sum))
		}

		delta := int64(d) - int64(sum)
		nv := int64(out.freq[maxIdx]) + delta

		if nv < 1 {
			// maxIdx alone cannot absorb the excess: keep it at 1 and
			// take the rest from the other symbols still above 1.
			excess := 1 - nv
			nv = 1

			for i := range out.freq {
				for excess > 0 && i != maxIdx && out.freq[i] > 1 {
					out.freq[i]--
					excess--
				}
			}

			if excess > 0 {
				return out, alphabetSize, errInternal("normalize: %d symbols cannot all keep a nonzero frequency under D=%d", alphabetSize, d)
			}
		}

		out.freq[maxIdx] = uint32(nv)
	}

	return out, alphabetSize, nil
}

// checkSum verifies the frequency-sum law: Σ f[s] == D exactly.
func (t table0) checkSum(s uint) error {
	d := uint32(1) << s

	var sum uint32
	for _, f := range t.freq {
		sum += f
	}

	if sum != d {
		return errInvalidTable(-1, "frequency table sums to %d, want %d", sum, d)
	}

	return nil
}
