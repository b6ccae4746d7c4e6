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
	"bytes"
	"math/rand"
	"testing"

	"github.com/flanglet/cram-rans/internal"
)

func TestCompressNx16EmptyInput(t *testing.T) {
	out, err := CompressNx16(nil, Nx16Params{})
	if err != nil {
		t.Fatalf("CompressNx16(nil) failed: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("CompressNx16(nil) returned %d bytes, want 0", len(out))
	}

	back, err := UncompressNx16(out)
	if err != nil {
		t.Fatalf("UncompressNx16 failed: %v", err)
	}
	if len(back) != 0 {
		t.Fatalf("round trip of empty input produced %d bytes", len(back))
	}
}

func TestCompressNx16RejectsStripeOnEncode(t *testing.T) {
	if _, err := CompressNx16([]byte("abc"), Nx16Params{Stripe: true}); err == nil {
		t.Fatalf("CompressNx16 with Stripe set should fail")
	}
}

func TestCompressNx16RoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))

	sizes := []int{1, 2, 5, 13, 64, 129, 1000, 5000}

	for _, order := range []int{0, 1} {
		for _, n32 := range []bool{false, true} {
			for _, size := range sizes {
				data := randomSkewedBytes(r, size)
				params := Nx16Params{Order: order, N32: n32}

				out, err := CompressNx16(data, params)
				if err != nil {
					t.Fatalf("order %d n32 %v size %d: compress failed: %v", order, n32, size, err)
				}

				back, err := UncompressNx16(out)
				if err != nil {
					t.Fatalf("order %d n32 %v size %d: uncompress failed: %v", order, n32, size, err)
				}

				if !bytes.Equal(data, back) {
					t.Fatalf("order %d n32 %v size %d: round trip mismatch", order, n32, size)
				}
			}
		}
	}
}

func TestCompressNx16WithPackAndRLE(t *testing.T) {
	// A small alphabet with long runs favors both PACK (<=16 symbols) and
	// RLE (repeated runs), so this exercises both transforms ahead of
	// the entropy layer.
	var data []byte
	symbols := []byte{0, 1, 2, 3}
	for i := 0; i < 200; i++ {
		data = append(data, bytes.Repeat([]byte{symbols[i%len(symbols)]}, (i%5)+1)...)
	}

	cases := []Nx16Params{
		{Pack: true},
		{RLE: true},
		{Pack: true, RLE: true},
		{Order: 1, Pack: true, RLE: true},
	}

	for _, params := range cases {
		out, err := CompressNx16(data, params)
		if err != nil {
			t.Fatalf("params %+v: compress failed: %v", params, err)
		}

		back, err := UncompressNx16(out)
		if err != nil {
			t.Fatalf("params %+v: uncompress failed: %v", params, err)
		}

		if !bytes.Equal(data, back) {
			t.Fatalf("params %+v: round trip mismatch", params)
		}
	}
}

func TestCompressNx16Cat(t *testing.T) {
	data := []byte("a CAT frame stores its payload verbatim")

	out, err := CompressNx16(data, Nx16Params{Cat: true})
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}

	back, err := UncompressNx16(out)
	if err != nil {
		t.Fatalf("uncompress failed: %v", err)
	}

	if !bytes.Equal(data, back) {
		t.Fatalf("CAT round trip mismatch")
	}
}

func TestCompressNx16NoSize(t *testing.T) {
	data := []byte("no size carried on the wire, caller must supply it back")

	out, err := CompressNx16(data, Nx16Params{NoSize: true})
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}

	if _, err := UncompressNx16(out); err == nil {
		t.Fatalf("expected an error decoding a NOSZ frame without an external raw size")
	}

	back, err := UncompressNx16(out, len(data))
	if err != nil {
		t.Fatalf("uncompress with external size failed: %v", err)
	}

	if !bytes.Equal(data, back) {
		t.Fatalf("NOSZ round trip mismatch")
	}
}

func TestParseNx16ParamsRejectsReservedBit(t *testing.T) {
	if _, err := ParseNx16Params(flagReserve); err == nil {
		t.Fatalf("expected an error for the reserved flag bit")
	}
}

func TestUncompressNx16RejectsTrailingBytes(t *testing.T) {
	out, err := CompressNx16([]byte("trailing byte check"), Nx16Params{})
	if err != nil {
		t.Fatalf("compress failed: %v", err)
	}

	out = append(out, 0x00)

	if _, err := UncompressNx16(out); err == nil {
		t.Fatalf("expected an error for trailing bytes after an Nx16 frame")
	}
}

// TestDecodeStripeNx16 hand-assembles a STRIPE frame from two
// independently Nx16-compressed sub-streams, since CompressNx16 never
// produces one itself (spec: STRIPE is decode-only).
func TestDecodeStripeNx16(t *testing.T) {
	original := []byte("ABCDEFGHIJ")

	// De-interleave into m=2 stripes: even positions, then odd positions.
	var evens, odds []byte
	for i, b := range original {
		if i%2 == 0 {
			evens = append(evens, b)
		} else {
			odds = append(odds, b)
		}
	}

	subA, err := CompressNx16(evens, Nx16Params{})
	if err != nil {
		t.Fatalf("compress stripe A failed: %v", err)
	}
	subB, err := CompressNx16(odds, Nx16Params{})
	if err != nil {
		t.Fatalf("compress stripe B failed: %v", err)
	}

	w := internal.NewWriter(64)
	flags, err := (Nx16Params{Stripe: true}).Encode()
	if err != nil {
		t.Fatalf("encode flags failed: %v", err)
	}
	w.WriteU8(flags)
	w.WriteUint7(uint64(len(original)))
	w.WriteU8(2)
	w.WriteUint7(uint64(len(subA)))
	w.WriteBytes(subA)
	w.WriteUint7(uint64(len(subB)))
	w.WriteBytes(subB)

	back, err := UncompressNx16(w.Bytes())
	if err != nil {
		t.Fatalf("decode STRIPE frame failed: %v", err)
	}

	if !bytes.Equal(original, back) {
		t.Fatalf("STRIPE round trip mismatch: got %q, want %q", back, original)
	}
}
