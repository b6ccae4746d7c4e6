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

// decodeStripeNx16 reconstructs data that was split across m
// independently Nx16-compressed sub-streams, one byte in every m taken
// from each sub-stream in turn: original[p] came from sub-stream p%m
// at position p/m. STRIPE is decode-only (CompressNx16 rejects it), so
// this is exercised only against frames produced by another encoder, or
// by hand-assembled test frames.
func decodeStripeNx16(r *internal.Reader, rawSize int) ([]byte, error) {
	m, err := r.ReadU8()
	if err != nil {
		return nil, errMalformed(r.Pos(), "truncated STRIPE count")
	}

	if m == 0 {
		return nil, errMalformed(r.Pos()-1, "STRIPE count must be nonzero")
	}

	subs := make([][]byte, m)

	for i := 0; i < int(m); i++ {
		subLen, err := r.ReadUint7()
		if err != nil {
			return nil, errMalformed(r.Pos(), "truncated STRIPE sub-length %d", i)
		}

		sub, err := r.Slice(int(subLen))
		if err != nil {
			return nil, errMalformed(r.Pos(), "truncated STRIPE sub-frame %d", i)
		}

		out, err := UncompressNx16(sub)
		if err != nil {
			return nil, err
		}

		subs[i] = out
	}

	for i := 0; i < int(m); i++ {
		want := rawSize / int(m)
		if i < rawSize%int(m) {
			want++
		}

		if len(subs[i]) != want {
			return nil, errMalformed(-1, "STRIPE sub-stream %d decoded to %d bytes, expected %d", i, len(subs[i]), want)
		}
	}

	out := make([]byte, rawSize)
	idx := make([]int, m)

	for p := 0; p < rawSize; p++ {
		i := p % int(m)
		out[p] = subs[i][idx[i]]
		idx[i]++
	}

	return out, nil
}
