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

import "fmt"

// Kind classifies a codec failure. Every error returned by this package
// can be matched against one of these with errors.As.
type Kind int

const (
	// KindMalformedFrame: declared sizes disagree with buffer bounds, an
	// order byte is neither 0 nor 1, or a uint7 extends past end of input.
	KindMalformedFrame Kind = iota + 1

	// KindInvalidTable: a frequency table sums to a value other than D,
	// a referenced symbol has zero frequency, or an alphabet sentinel
	// is missing.
	KindInvalidTable

	// KindUnsupportedFlag: STRIPE requested on encode, bit 1 of the Nx16
	// flags byte is set, or PACK would require k == 0 or k > 16.
	KindUnsupportedFlag

	// KindInternalInvariant: an internal computation failed to converge.
	// This is a bug class and should be unreachable on valid input.
	KindInternalInvariant
)

func (k Kind) String() string {
	switch k {
	case KindMalformedFrame:
		return "malformed frame"
	case KindInvalidTable:
		return "invalid frequency table"
	case KindUnsupportedFlag:
		return "unsupported flag"
	case KindInternalInvariant:
		return "internal invariant violated"
	default:
		return "unknown codec error"
	}
}

// CodecError is the error type returned by every fallible operation in
// this package. Offset is the byte offset into the input buffer at which
// the failure was detected, or -1 when not applicable.
type CodecError struct {
	Kind   Kind
	Offset int
	Msg    string
}

func (e *CodecError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("cramrans: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
	}

	return fmt.Sprintf("cramrans: %s: %s", e.Kind, e.Msg)
}

func newErr(kind Kind, offset int, format string, args ...interface{}) *CodecError {
	return &CodecError{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func errMalformed(offset int, format string, args ...interface{}) error {
	return newErr(KindMalformedFrame, offset, format, args...)
}

func errInvalidTable(offset int, format string, args ...interface{}) error {
	return newErr(KindInvalidTable, offset, format, args...)
}

func errUnsupportedFlag(format string, args ...interface{}) error {
	return newErr(KindUnsupportedFlag, -1, format, args...)
}

func errInternal(format string, args ...interface{}) error {
	return newErr(KindInternalInvariant, -1, format, args...)
}
