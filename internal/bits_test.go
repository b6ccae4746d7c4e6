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

package internal

import "testing"

func TestUint7RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 129, 255, 256, 16383, 16384, 1 << 20, 1 << 32, 1<<63 - 1}

	for _, v := range values {
		w := NewWriter(8)
		w.WriteUint7(v)

		r := NewReader(w.Bytes())
		got, err := r.ReadUint7()
		if err != nil {
			t.Fatalf("v=%d: ReadUint7 failed: %v", v, err)
		}
		if got != v {
			t.Fatalf("v=%d: round trip got %d", v, got)
		}
		if r.Remaining() != 0 {
			t.Fatalf("v=%d: %d bytes left over after reading", v, r.Remaining())
		}
	}
}

func TestUint7TruncatedContinuation(t *testing.T) {
	// A byte with the continuation bit set but nothing after it.
	r := NewReader([]byte{0x80})

	if _, err := r.ReadUint7(); err != ErrTruncated {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestU32LERoundTrip(t *testing.T) {
	w := NewWriter(4)
	w.WriteU32LE(0xDEADBEEF)

	r := NewReader(w.Bytes())
	got, err := r.ReadU32LE()
	if err != nil {
		t.Fatalf("ReadU32LE failed: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Fatalf("got 0x%08X, want 0xDEADBEEF", got)
	}
}

func TestReaderSliceBounds(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4, 5})

	s, err := r.Slice(3)
	if err != nil {
		t.Fatalf("Slice(3) failed: %v", err)
	}
	if len(s) != 3 || s[0] != 1 || s[2] != 3 {
		t.Fatalf("unexpected slice contents: %v", s)
	}

	if _, err := r.Slice(10); err != ErrTruncated {
		t.Fatalf("Slice(10) past end should return ErrTruncated, got %v", err)
	}
}

func TestReverseBytes(t *testing.T) {
	cases := []struct {
		in, want []byte
	}{
		{nil, nil},
		{[]byte{1}, []byte{1}},
		{[]byte{1, 2}, []byte{2, 1}},
		{[]byte{1, 2, 3}, []byte{3, 2, 1}},
		{[]byte{1, 2, 3, 4}, []byte{4, 3, 2, 1}},
	}

	for _, c := range cases {
		buf := append([]byte(nil), c.in...)
		ReverseBytes(buf)

		if len(buf) != len(c.want) {
			t.Fatalf("ReverseBytes(%v) = %v, want %v", c.in, buf, c.want)
		}
		for i := range buf {
			if buf[i] != c.want[i] {
				t.Fatalf("ReverseBytes(%v) = %v, want %v", c.in, buf, c.want)
			}
		}
	}
}

func TestLog2CeilAndClamp(t *testing.T) {
	cases := map[int]uint{1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 1024: 10, 1025: 11}

	for n, want := range cases {
		if got := Log2Ceil(n); got != want {
			t.Errorf("Log2Ceil(%d) = %d, want %d", n, got, want)
		}
	}

	if got := Clamp(3, 5, 10); got != 5 {
		t.Errorf("Clamp(3, 5, 10) = %d, want 5", got)
	}
	if got := Clamp(20, 5, 10); got != 10 {
		t.Errorf("Clamp(20, 5, 10) = %d, want 10", got)
	}
	if got := Clamp(7, 5, 10); got != 7 {
		t.Errorf("Clamp(7, 5, 10) = %d, want 7", got)
	}
}
