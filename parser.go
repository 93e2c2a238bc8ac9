package postie

import (
	"errors"
	"fmt"
)

// ErrBadAddress is returned by ParseAddress for input that does not match
// the addr-spec grammar. No further detail is reported; every failure is
// this one error.
var ErrBadAddress = errors.New("postie: bad address")

// ParseAddress parses an RFC 5322 addr-spec, such as "jdoe@example.org",
// at the start of input. The obsolete grammar is accepted: comments,
// folding whitespace, quoted local parts, and bracketed domain literals
// all parse.
//
// Input beyond a complete addr-spec is ignored, not rejected:
// "jdoe@example.org sic" parses as jdoe@example.org.
//
// The returned Address may share memory with input. Callers that reuse or
// mutate input afterwards should serialize the Address first.
func ParseAddress(input []byte) (Address, error) {
	p := parser{s: input}
	addr, ok := p.addrSpec()
	if !ok {
		return Address{}, ErrBadAddress
	}
	return addr, nil
}

// MustParseAddress is like ParseAddress but panics on invalid input. It is
// for embedding known-good addresses:
//
//	var postmaster = postie.MustParseAddress("postmaster@example.org")
func MustParseAddress(s string) Address {
	addr, err := ParseAddress([]byte(s))
	if err != nil {
		panic(fmt.Errorf("%w: %q", err, s))
	}
	return addr
}
