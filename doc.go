// Package postie parses RFC 5322 email addresses.
//
// The parser implements the addr-spec production, the bare local@domain
// form, together with the obsolete syntax RFC 5322 keeps around for
// backward compatibility: parenthesized comments, folding whitespace,
// quoted-string local parts, bracketed domain literals, and backslash
// escapes. Comments and folding whitespace parse and are discarded;
// quotes, brackets, and escapes are preserved in the parsed value, which
// serializes back to a canonical local@domain form.
//
// ParseAddress is the sole validating entry point and Address the
// resulting value. Display names, address lists, and group syntax are out
// of scope, as is any validation beyond the grammar itself (no DNS
// lookups, no deliverability checks). Input is raw bytes: the grammar is
// pure ASCII, and bytes outside it do not parse.
package postie
