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
)

func TestRLETransformRoundTripRuns(t *testing.T) {
	data := []byte{}
	data = append(data, bytes.Repeat([]byte{'a'}, 10)...)
	data = append(data, bytes.Repeat([]byte{'b'}, 1)...)
	data = append(data, bytes.Repeat([]byte{'a'}, 3)...)
	data = append(data, bytes.Repeat([]byte{'c'}, 50)...)
	data = append(data, 'x', 'y', 'z')
	data = append(data, bytes.Repeat([]byte{'c'}, 2)...)

	out, err := (rleTransform{}).Forward(data, nil)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	back, err := (rleTransform{}).Inverse(out, nil)
	if err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}

	if !bytes.Equal(data, back) {
		t.Fatalf("round trip mismatch:\n got  %q\n want %q", back, data)
	}
}

func TestRLETransformRoundTripNoRuns(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	data := make([]byte, 300)
	for i := range data {
		data[i] = byte(r.Intn(256))
	}

	out, err := (rleTransform{}).Forward(data, nil)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}

	back, err := (rleTransform{}).Inverse(out, nil)
	if err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}

	if !bytes.Equal(data, back) {
		t.Fatalf("round trip mismatch on run-free data")
	}
}

func TestRLETransformEmptyInput(t *testing.T) {
	out, err := (rleTransform{}).Forward(nil, nil)
	if err != nil {
		t.Fatalf("Forward(nil) failed: %v", err)
	}

	back, err := (rleTransform{}).Inverse(out, nil)
	if err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}

	if len(back) != 0 {
		t.Fatalf("expected empty output, got %d bytes", len(back))
	}
}

func TestRLEWorthySet(t *testing.T) {
	// 'a' always runs (worthy), 'b' only ever appears isolated (not
	// worthy), 'c' appears in runs as often as isolated (worthy, tie
	// goes to the run side per rleWorthySet's >= comparison).
	data := []byte{'a', 'a', 'a', 'b', 'a', 'a', 'c', 'c', 'x', 'c'}

	worthy := rleWorthySet(data)

	if !worthy['a'] {
		t.Fatalf("'a' should be RLE-worthy")
	}
	if worthy['b'] {
		t.Fatalf("'b' should not be RLE-worthy (always isolated)")
	}
	if !worthy['c'] {
		t.Fatalf("'c' should be RLE-worthy (one run, one isolated occurrence)")
	}
}
