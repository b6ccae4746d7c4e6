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
	"math/rand"
	"testing"
)

func TestStreamBounds(t *testing.T) {
	// Each of the first n-1 streams gets exactly len/n bytes; the last
	// absorbs the remainder, and the streams tile the buffer exactly.
	length, n := 103, 4

	var covered int
	for i := 0; i < n; i++ {
		start, end := streamBounds(length, n, i)
		if start != covered {
			t.Fatalf("stream %d starts at %d, want %d", i, start, covered)
		}
		covered = end
	}

	if covered != length {
		t.Fatalf("streams cover %d bytes, want %d", covered, length)
	}
}

func TestCountOrder0(t *testing.T) {
	data := []byte("aaabbc")

	t0 := countOrder0(data)

	if t0.freq['a'] != 3 || t0.freq['b'] != 2 || t0.freq['c'] != 1 {
		t.Fatalf("unexpected counts: a=%d b=%d c=%d", t0.freq['a'], t0.freq['b'], t0.freq['c'])
	}
}

func TestCountOrder1ResetsContextPerStream(t *testing.T) {
	// Two single-byte streams: each one's lone byte has no predecessor
	// within its own stream, so both counts land on context 0.
	data := []byte{'x', 'y'}

	t1 := countOrder1(data, 2)

	if t1.rows[0].freq['x'] != 1 {
		t.Fatalf("expected context 0 to have seen 'x' once, got %d", t1.rows[0].freq['x'])
	}
	if t1.rows[0].freq['y'] != 1 {
		t.Fatalf("expected context 0 to have seen 'y' once, got %d", t1.rows[0].freq['y'])
	}
}

func TestNormalizeFrequenciesSumsToD(t *testing.T) {
	r := rand.New(rand.NewSource(99))

	for trial := 0; trial < 20; trial++ {
		var counts [256]uint32
		alphabetSize := 1 + r.Intn(20)

		for i := 0; i < alphabetSize; i++ {
			sym := r.Intn(256)
			counts[sym] += uint32(1 + r.Intn(5000))
		}

		distinct := 0
		for _, c := range counts {
			if c > 0 {
				distinct++
			}
		}

		for _, s := range []uint{4, 8, 12} {
			ft, _, err := normalizeFrequencies(&counts, 0, s)

			// More distinct symbols than D slots cannot each keep a
			// frequency of at least 1, so normalization must fail.
			if distinct > 1<<s {
				if err == nil {
					t.Fatalf("s=%d: %d symbols cannot fit D=%d, expected an error", s, distinct, 1<<s)
				}
				continue
			}

			if err != nil {
				t.Fatalf("s=%d: normalizeFrequencies failed: %v", s, err)
			}

			if err := ft.checkSum(s); err != nil {
				t.Fatalf("s=%d: %v", s, err)
			}
		}
	}
}

func TestNormalizeFrequenciesAllZeroIsEmpty(t *testing.T) {
	var counts [256]uint32

	ft, alphabetSize, err := normalizeFrequencies(&counts, 0, 12)
	if err != nil {
		t.Fatalf("normalizeFrequencies failed: %v", err)
	}

	if alphabetSize != 0 {
		t.Fatalf("expected alphabet size 0, got %d", alphabetSize)
	}

	for i, f := range ft.freq {
		if f != 0 {
			t.Fatalf("symbol %d has nonzero frequency %d in an all-zero table", i, f)
		}
	}
}

func TestCheckSumDetectsMismatch(t *testing.T) {
	var t0 table0
	t0.freq[0] = 100

	if err := t0.checkSum(12); err == nil {
		t.Fatalf("checkSum should reject a table that doesn't sum to D")
	}
}
