package postie

import (
	"bytes"
	"io"
)

// Address is a parsed addr-spec: a local part and a domain. Useful values
// come from ParseAddress, MustParseAddress, or NewAddress; the zero
// Address is empty on both sides.
//
// Address is a value type. Copies share the underlying byte sequences,
// which this package never mutates.
type Address struct {
	localPart []byte
	domain    []byte
}

var atSign = []byte{'@'}

// NewAddress builds an Address from a raw local part and domain without
// checking either against the grammar. Serialization reproduces the given
// bytes exactly, valid or not. The slices are retained, not copied.
func NewAddress(localPart, domain []byte) Address {
	return Address{localPart: localPart, domain: domain}
}

// LocalPart returns the bytes left of the "@". A quoted local part keeps
// its quotes and escapes. The returned slice must not be modified.
func (a Address) LocalPart() []byte {
	return a.localPart
}

// Domain returns the bytes right of the "@". A domain literal keeps its
// brackets. The returned slice must not be modified.
func (a Address) Domain() []byte {
	return a.domain
}

// Bytes returns the canonical serialization, localPart "@" domain, with
// nothing escaped, re-validated, or added.
func (a Address) Bytes() []byte {
	return a.AppendTo(make([]byte, 0, len(a.localPart)+1+len(a.domain)))
}

// AppendTo appends the canonical serialization to dst and returns the
// extended slice.
func (a Address) AppendTo(dst []byte) []byte {
	dst = append(dst, a.localPart...)
	dst = append(dst, '@')
	return append(dst, a.domain...)
}

// WriteTo writes the canonical serialization to w without building it in
// memory first. It implements io.WriterTo.
func (a Address) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, part := range [][]byte{a.localPart, atSign, a.domain} {
		n, err := w.Write(part)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns the canonical serialization as a string.
func (a Address) String() string {
	return string(a.Bytes())
}

// Equal reports whether a and other have identical local parts and
// domains, compared as raw bytes.
func (a Address) Equal(other Address) bool {
	return bytes.Equal(a.localPart, other.localPart) && bytes.Equal(a.domain, other.domain)
}

// Compare orders addresses by local part, then domain, as raw bytes,
// returning -1, 0, or +1.
func (a Address) Compare(other Address) int {
	if c := bytes.Compare(a.localPart, other.localPart); c != 0 {
		return c
	}
	return bytes.Compare(a.domain, other.domain)
}

// Less reports whether a orders before other.
func (a Address) Less(other Address) bool {
	return a.Compare(other) < 0
}

// MarshalText implements encoding.TextMarshaler. The form is the
// canonical serialization.
func (a Address) MarshalText() ([]byte, error) {
	return a.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text must parse
// as an addr-spec; the stored value is copied, so it does not alias text.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(text)
	if err != nil {
		return err
	}
	a.localPart = bytes.Clone(parsed.localPart)
	a.domain = bytes.Clone(parsed.domain)
	return nil
}
