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

// Variant identifies which wire layout a compressed buffer appears to
// use.
type Variant int

const (
	VariantUnknown Variant = iota
	Variant4x8
	VariantNx16
	// VariantAmbiguous marks a buffer whose leading byte is 0 or 1: a
	// valid 4x8 order byte, but also a valid Nx16 flags byte with every
	// flag but Order clear. Neither wire format carries a magic number,
	// so this case cannot be resolved from the buffer alone.
	VariantAmbiguous
)

func (v Variant) String() string {
	switch v {
	case Variant4x8:
		return "4x8"
	case VariantNx16:
		return "Nx16"
	case VariantAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// DetectVariant inspects a compressed buffer's leading byte to guess
// which wire layout produced it. A 4x8 frame's leading byte is always
// exactly 0 or 1 (the order); any other value can only be a valid Nx16
// flags byte, since Nx16 flags occupy bits beyond bit 0. When the
// leading byte is 0 or 1 the two formats are indistinguishable without
// external context, and VariantAmbiguous is returned.
func DetectVariant(buf []byte) Variant {
	if len(buf) == 0 {
		return VariantUnknown
	}

	b := buf[0]

	if b > 1 {
		if b&flagReserve != 0 {
			return VariantUnknown
		}

		return VariantNx16
	}

	return VariantAmbiguous
}

// Stats summarizes one compression operation for diagnostics and the
// CLI's log output.
type Stats struct {
	RawSize        int
	CompressedSize int
	AlphabetSize   int
}

// Ratio returns CompressedSize/RawSize, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.RawSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.RawSize)
}

// CollectStats derives Stats for a raw/compressed buffer pair.
func CollectStats(raw, compressed []byte) Stats {
	counts := countOrder0(raw)

	alphabetSize := 0
	for _, f := range counts.freq {
		if f > 0 {
			alphabetSize++
		}
	}

	return Stats{
		RawSize:        len(raw),
		CompressedSize: len(compressed),
		AlphabetSize:   alphabetSize,
	}
}
