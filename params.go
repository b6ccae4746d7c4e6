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

// Nx16 format-flags bit positions. Bit 1 is reserved and must be zero.
const (
	flagOrder   = 1 << 0
	flagReserve = 1 << 1
	flagX32     = 1 << 2
	flagStripe  = 1 << 3
	flagNoSize  = 1 << 4
	flagCat     = 1 << 5
	flagRLE     = 1 << 6
	flagPack    = 1 << 7
)

// Nx16Params is the structured form of the single Nx16 format-flags byte.
type Nx16Params struct {
	Order  int  // 0 or 1
	N32    bool // false => N=4, true => N=32
	Stripe bool
	NoSize bool
	Cat    bool
	RLE    bool
	Pack   bool
}

// N returns the interleave factor implied by N32.
func (p Nx16Params) N() int {
	if p.N32 {
		return 32
	}

	return 4
}

// ParseNx16Params decodes a format-flags byte. Bit 1 set is
// KindUnsupportedFlag.
func ParseNx16Params(b byte) (Nx16Params, error) {
	if b&flagReserve != 0 {
		return Nx16Params{}, errUnsupportedFlag("Nx16 flags byte 0x%02x has reserved bit 1 set", b)
	}

	return Nx16Params{
		Order:  int(b & flagOrder),
		N32:    b&flagX32 != 0,
		Stripe: b&flagStripe != 0,
		NoSize: b&flagNoSize != 0,
		Cat:    b&flagCat != 0,
		RLE:    b&flagRLE != 0,
		Pack:   b&flagPack != 0,
	}, nil
}

// Encode packs p back into a single format-flags byte.
func (p Nx16Params) Encode() (byte, error) {
	if p.Order != 0 && p.Order != 1 {
		return 0, errMalformed(-1, "Nx16 order must be 0 or 1, got %d", p.Order)
	}

	var b byte
	b |= byte(p.Order) & flagOrder

	if p.N32 {
		b |= flagX32
	}
	if p.Stripe {
		b |= flagStripe
	}
	if p.NoSize {
		b |= flagNoSize
	}
	if p.Cat {
		b |= flagCat
	}
	if p.RLE {
		b |= flagRLE
	}
	if p.Pack {
		b |= flagPack
	}

	return b, nil
}
