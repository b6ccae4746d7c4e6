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

// The rANS state invariant L <= x < L*2^b holds with L*2^b = 2^31 for
// both wire variants (4x8: L=2^23, b=8; Nx16: L=2^15, b=16), so the
// encoding symbol's pre-renormalization ceiling reduces to a function of
// the coding denominator's shift s alone. Keeping that arithmetic in one
// place, shared by both variants, is the "pure functions parameterized
// by (L, b, s)" shape called for over a variant base class.

// encSymbol is the precomputed per-(symbol, context) encoding state: the
// reciprocal-based division eliminator described by Alverson, "Integer
// Division using Reciprocals".
type encSymbol struct {
	xMax     uint32 // exclusive upper bound of the pre-renormalization interval
	bias     uint32
	cmplFreq uint32 // D - freq
	rcpShift uint32 // reciprocal shift, +32 folded in
	rcpFreq  uint64 // fixed-point reciprocal frequency
}

// newEncSymbol derives an encSymbol from a cumulative start, frequency
// and coding shift s (D = 1<<s), per spec §4.3.
func newEncSymbol(cumFreq, freq uint32, s uint) encSymbol {
	var e encSymbol
	d := uint32(1) << s

	e.xMax = (uint32(1) << (31 - s)) * freq
	e.cmplFreq = d - freq

	if freq < 2 {
		e.rcpFreq = 0xFFFFFFFF
		e.rcpShift = 0
		e.bias = cumFreq + d - 1
	} else {
		k := uint(0)

		for freq > (uint32(1) << k) {
			k++
		}

		e.rcpFreq = ((uint64(1)<<(k+31) + uint64(freq) - 1) / uint64(freq))
		e.rcpShift = uint32(k - 1)
		e.bias = cumFreq
	}

	// One right-shift by rcpShift in the hot loop subsumes the
	// multiply-high +32 shift.
	e.rcpShift += 32

	return e
}

// decSymbol is the per-(symbol, context) decoding state: a cumulative
// start and frequency at the coding denominator.
type decSymbol struct {
	cumFreq uint32
	freq    uint32
}

func newDecSymbol(cumFreq, freq uint32) decSymbol {
	return decSymbol{cumFreq: cumFreq, freq: freq}
}
