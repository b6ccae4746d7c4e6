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

// This file holds the N-way interleaved rANS engine shared by both
// wire variants, factored as pure functions parameterized by the state
// lower bound l and the renormalization unit size unitBytes (1 for
// 4x8, 2 for Nx16), per spec §9's "tagged unions over inheritance,
// shared arithmetic parameterized by (L, b, s)" guidance. rans4x8.go
// and ransnx16.go each supply l, unitBytes and their own symbol-table
// lookups; everything about how the N states interleave through one
// shared buffer lives here exactly once.

// streamLayout returns, for n streams covering a buffer of the given
// length via streamBounds, each stream's start offset and length, plus
// the longest stream's length (always the last stream's, which absorbs
// length%n per streamBounds).
func streamLayout(length, n int) (starts, lens []int, maxLen int) {
	starts = make([]int, n)
	lens = make([]int, n)

	for i := 0; i < n; i++ {
		s, e := streamBounds(length, n, i)
		starts[i] = s
		lens[i] = e - s

		if lens[i] > maxLen {
			maxLen = lens[i]
		}
	}

	return starts, lens, maxLen
}

// encodeInterleavedCore entropy-codes data across n interleaved rANS
// states of lower bound l, renormalizing unitBytes bytes at a time.
// Each stream is walked back to front (spec §4.4: "the encoder
// processes the input from right to left"), synchronized row by row
// across all n streams so the streams sharing the common length run in
// lockstep and the last stream's length%n remainder is handled by a
// trailing tail once the others are exhausted (spec §4.4
// "Interleaving layout"). Renormalization bytes are appended to a
// forward-growing buffer in encode-chronological order; once every
// symbol has been consumed, the n final states are appended as
// big-endian 32-bit words in stream order n-1..0 (spec §4.4 "State
// flush"), and the whole buffer is reversed in place (spec §4.1
// "Buffer reverse"). Reading the result forward therefore yields the n
// final states, little-endian, in stream order 0..n-1, followed by the
// renormalization bytes in the order a forward decode consumes them.
//
// lookupSym(streamIdx, origIdx) must return the encoding symbol for
// stream streamIdx's element at original index origIdx (order-0: keyed
// by data[origIdx] alone; order-1: additionally keyed by data[origIdx-1],
// or the sentinel 0 at a stream's first element).
func encodeInterleavedCore(data []byte, n int, l uint32, unitBytes int, lookupSym func(streamIdx, origIdx int) encSymbol) []byte {
	starts, lens, maxLen := streamLayout(len(data), n)

	states := make([]uint32, n)
	for i := range states {
		states[i] = l
	}

	buf := make([]byte, 0, unitBytes*len(data)+4*n+8)

	for row := 0; row < maxLen; row++ {
		for i := 0; i < n; i++ {
			if row >= lens[i] {
				continue
			}

			idx := starts[i] + lens[i] - 1 - row
			sym := lookupSym(i, idx)
			x := states[i]

			for x >= sym.xMax {
				if unitBytes == 1 {
					buf = append(buf, byte(x))
					x >>= 8
				} else {
					buf = append(buf, byte(x), byte(x>>8))
					x >>= 16
				}
			}

			x = x + sym.bias + uint32((uint64(x)*sym.rcpFreq)>>sym.rcpShift)*sym.cmplFreq
			states[i] = x
		}
	}

	for i := n - 1; i >= 0; i-- {
		s := states[i]
		buf = append(buf, byte(s>>24), byte(s>>16), byte(s>>8), byte(s))
	}

	internal.ReverseBytes(buf)
	return buf
}

// decodeInterleavedCore is the mirror of encodeInterleavedCore. payload
// must hold the n final states, little-endian in stream order 0..n-1,
// immediately followed by the renormalization bytes. It replays the
// exact reverse of encodeInterleavedCore's row/stream schedule (rows
// descending, streams descending within a row), which is what lets a
// single forward-advancing cursor over the renormalization bytes stay
// in sync with a single-pass reader: spec §4.1's reversed buffer turns
// "read in the order the encoder needs them" into "read forward".
//
// lookupDec(streamIdx, origIdx, x) resolves stream streamIdx's element
// at original index origIdx against its current rANS value x, returning
// the decoded symbol, its decoding-symbol state and the coding
// denominator's shift s (order-1 callers look up the previous
// already-decoded byte in out for that stream, or the sentinel 0, to
// pick the row). out[origIdx] is populated by this function once
// lookupDec returns. Bytes left in payload after the last symbol is
// decoded are reported as a malformed frame.
func decodeInterleavedCore(out []byte, payload []byte, n int, l uint32, unitBytes int, lookupDec func(streamIdx, origIdx int, x uint32) (byte, decSymbol, uint)) error {
	if len(payload) < 4*n {
		return errMalformed(-1, "entropy payload of %d bytes too short for %d interleaved rANS states", len(payload), n)
	}

	states := make([]uint32, n)
	for i := 0; i < n; i++ {
		o := 4 * i
		states[i] = uint32(payload[o]) | uint32(payload[o+1])<<8 | uint32(payload[o+2])<<16 | uint32(payload[o+3])<<24
	}

	renorm := payload[4*n:]
	pos := 0

	starts, lens, maxLen := streamLayout(len(out), n)

	for row := maxLen - 1; row >= 0; row-- {
		for i := n - 1; i >= 0; i-- {
			if row >= lens[i] {
				continue
			}

			idx := starts[i] + lens[i] - 1 - row

			sym, ds, s := lookupDec(i, idx, states[i])
			out[idx] = sym

			mask := uint32(1)<<s - 1
			x := ds.freq*(states[i]>>s) + (states[i] & mask) - ds.cumFreq

			for x < l {
				if unitBytes == 1 {
					if pos >= len(renorm) {
						return errMalformed(-1, "rANS renormalization payload exhausted")
					}

					x = (x << 8) | uint32(renorm[pos])
					pos++
				} else {
					if pos+1 >= len(renorm) {
						return errMalformed(-1, "rANS renormalization payload exhausted")
					}

					x = (x << 8) | uint32(renorm[pos])
					x = (x << 8) | uint32(renorm[pos+1])
					pos += 2
				}
			}

			states[i] = x
		}
	}

	if pos != len(renorm) {
		return errMalformed(-1, "%d trailing bytes after rANS payload", len(renorm)-pos)
	}

	return nil
}
