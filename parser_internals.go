package postie

// The productions below are RFC 5322's addr-spec grammar with the obs-
// alternatives folded in, over raw bytes. Alternatives backtrack by manual
// save/restore of the cursor. Discarding productions (fws, comment, cfws)
// consume input and return nothing; content-bearing productions return the
// extracted bytes, as subslices of the input whenever nothing had to be
// dropped from their span.

type parser struct {
	s []byte
	i int
}

// consume advances past c if it is the next byte.
func (p *parser) consume(c byte) bool {
	if p.i >= len(p.s) || p.s[p.i] != c {
		return false
	}
	p.i++
	return true
}

// consumeCRLF advances past a CR immediately followed by an LF. Bare CR or
// bare LF never match.
func (p *parser) consumeCRLF() bool {
	if p.i+1 >= len(p.s) || p.s[p.i] != '\r' || p.s[p.i+1] != '\n' {
		return false
	}
	p.i += 2
	return true
}

// takeWhile1 consumes a run of one or more bytes satisfying pred and
// returns it as a subslice of the input.
func (p *parser) takeWhile1(pred func(byte) bool) ([]byte, bool) {
	start := p.i
	for p.i < len(p.s) && pred(p.s[p.i]) {
		p.i++
	}
	if p.i == start {
		return nil, false
	}
	return p.s[start:p.i], true
}

// skipWSP1 consumes one or more space or tab characters.
func (p *parser) skipWSP1() bool {
	start := p.i
	for p.i < len(p.s) && isWSP(p.s[p.i]) {
		p.i++
	}
	return p.i > start
}

// fws consumes folding whitespace: leading whitespace optionally followed
// by one fold, or one or more folds with no leading whitespace. A fold is
// a CRLF followed by at least one space or tab.
//
//	FWS = (1*WSP [CRLF 1*WSP]) / 1*(CRLF 1*WSP)
func (p *parser) fws() bool {
	if p.skipWSP1() {
		save := p.i
		if !p.consumeCRLF() || !p.skipWSP1() {
			p.i = save
		}
		return true
	}
	n := 0
	for {
		save := p.i
		if !p.consumeCRLF() || !p.skipWSP1() {
			p.i = save
			break
		}
		n++
	}
	return n > 0
}

// comment consumes a parenthesized comment. Comments nest arbitrarily
// deep; nesting is tracked with a depth counter rather than recursion, so
// input depth cannot grow the stack. The whole comment is discarded.
//
//	comment  = "(" *([FWS] ccontent) [FWS] ")"
//	ccontent = ctext / quoted-pair / comment
func (p *parser) comment() bool {
	save := p.i
	if !p.consume('(') {
		return false
	}
	depth := 1
	for p.i < len(p.s) {
		switch c := p.s[p.i]; {
		case c == '(':
			depth++
			p.i++
		case c == ')':
			depth--
			p.i++
			if depth == 0 {
				return true
			}
		case c == '\\':
			if !p.quotedPair() {
				p.i = save
				return false
			}
		case isCtext(c):
			p.i++
		default:
			if !p.fws() {
				p.i = save
				return false
			}
		}
	}
	p.i = save
	return false
}

// cfws consumes any run of comments and folding whitespace. It always
// succeeds and discards what it matched.
//
//	CFWS = *(comment / FWS)
func (p *parser) cfws() {
	for {
		if p.comment() {
			continue
		}
		if p.fws() {
			continue
		}
		return
	}
}

// quotedPair consumes a backslash escape. The escaped byte may be any
// visible US-ASCII character, whitespace, CR, LF, NUL, or an obsolete
// control character; bytes above 0x7F fail.
//
//	quoted-pair = "\" (VCHAR / WSP / CR / LF / obs-NO-WS-CTL / %d0)
func (p *parser) quotedPair() bool {
	if p.i+1 >= len(p.s) || p.s[p.i] != '\\' {
		return false
	}
	c := p.s[p.i+1]
	if !isVchar(c) && !isWSP(c) && c != '\r' && c != '\n' && c != 0 && !isObsNoWsCtl(c) {
		return false
	}
	p.i += 2
	return true
}

// atom consumes a run of atext characters, returned verbatim.
//
//	atom = 1*atext
func (p *parser) atom() ([]byte, bool) {
	return p.takeWhile1(isAtext)
}

// quotedString consumes a double-quoted string and returns it with the
// quotes attached. Folding whitespace between the quotes is dropped from
// the result; quoted-pairs keep their backslash. When nothing was dropped
// the result is a subslice of the input.
//
//	quoted-string = DQUOTE *([FWS] (1*qtext / quoted-pair)) [FWS] DQUOTE
func (p *parser) quotedString() ([]byte, bool) {
	save := p.i
	if !p.consume('"') {
		return nil, false
	}
	var content []byte
	for {
		mark := p.i
		p.fws()
		if run, ok := p.takeWhile1(isQtext); ok {
			content = append(content, run...)
			continue
		}
		qp := p.i
		if p.quotedPair() {
			content = append(content, p.s[qp:p.i]...)
			continue
		}
		p.i = mark
		break
	}
	p.fws()
	if !p.consume('"') {
		p.i = save
		return nil, false
	}
	if len(content)+2 == p.i-save {
		return p.s[save:p.i], true
	}
	lit := make([]byte, 0, len(content)+2)
	lit = append(lit, '"')
	lit = append(lit, content...)
	lit = append(lit, '"')
	return lit, true
}

// domainLiteral consumes a bracketed domain literal and returns it with
// the brackets attached and folding whitespace dropped.
//
//	domain-literal = [CFWS] "[" *([FWS] 1*dtext) [FWS] "]" [CFWS]
func (p *parser) domainLiteral() ([]byte, bool) {
	save := p.i
	p.cfws()
	open := p.i
	if !p.consume('[') {
		p.i = save
		return nil, false
	}
	var content []byte
	for {
		mark := p.i
		p.fws()
		if run, ok := p.takeWhile1(isDtext); ok {
			content = append(content, run...)
			continue
		}
		p.i = mark
		break
	}
	p.fws()
	if !p.consume(']') {
		p.i = save
		return nil, false
	}
	end := p.i
	p.cfws()
	if len(content)+2 == end-open {
		return p.s[open:end], true
	}
	lit := make([]byte, 0, len(content)+2)
	lit = append(lit, '[')
	lit = append(lit, content...)
	lit = append(lit, ']')
	return lit, true
}

// dottedAtoms consumes one or more atom or quoted-string segments joined
// by literal dots. Comments and whitespace around each segment are
// dropped; the dots and the segment content are kept exactly. When
// nothing was dropped from the matched span the result is a subslice of
// the input.
//
//	dotted-atoms = segment *("." segment)
//	segment      = [CFWS] (atom / quoted-string) [CFWS]
func (p *parser) dottedAtoms() ([]byte, bool) {
	start := p.i
	first, ok := p.dotSegment()
	if !ok {
		return nil, false
	}
	var joined []byte
	for {
		save := p.i
		if !p.consume('.') {
			break
		}
		next, ok := p.dotSegment()
		if !ok {
			p.i = save
			break
		}
		if joined == nil {
			joined = append(make([]byte, 0, len(first)+1+len(next)), first...)
		}
		joined = append(joined, '.')
		joined = append(joined, next...)
	}
	if joined == nil {
		return first, true
	}
	if len(joined) == p.i-start {
		return p.s[start:p.i], true
	}
	return joined, true
}

// dotSegment consumes one dotted-atoms segment together with its
// surrounding comments and whitespace, which are discarded. Atom is tried
// first, quoted-string from the same position on failure.
func (p *parser) dotSegment() ([]byte, bool) {
	save := p.i
	p.cfws()
	seg, ok := p.atom()
	if !ok {
		seg, ok = p.quotedString()
	}
	if !ok {
		p.i = save
		return nil, false
	}
	p.cfws()
	return seg, true
}

// localPart consumes the local part of an address.
//
//	local-part = dotted-atoms
func (p *parser) localPart() ([]byte, bool) {
	return p.dottedAtoms()
}

// domain consumes the domain of an address. The dotted form is tried
// first; a domain literal is attempted only when it fails.
//
//	domain = dotted-atoms / domain-literal
func (p *parser) domain() ([]byte, bool) {
	if d, ok := p.dottedAtoms(); ok {
		return d, true
	}
	return p.domainLiteral()
}

// addrSpec consumes an addr-spec at the start of p and builds the Address
// from the extracted local part and domain.
//
//	addr-spec = local-part "@" domain
func (p *parser) addrSpec() (Address, bool) {
	save := p.i
	local, ok := p.localPart()
	if !ok {
		return Address{}, false
	}
	if !p.consume('@') {
		p.i = save
		return Address{}, false
	}
	d, ok := p.domain()
	if !ok {
		p.i = save
		return Address{}, false
	}
	return Address{localPart: local, domain: d}, true
}

// isAtext reports whether c is an RFC 5322 atext character.
func isAtext(c byte) bool {
	if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' {
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '/', '=', '?', '^', '_', '`', '{', '|', '}', '~', '-':
		return true
	}
	return false
}

// isQtext reports whether c is qtext, including the obsolete control
// characters RFC 5322 still tolerates inside quoted strings.
func isQtext(c byte) bool {
	return c == '!' || '#' <= c && c <= '[' || ']' <= c && c <= '~' || isObsNoWsCtl(c)
}

// isCtext reports whether c may appear bare inside a comment.
func isCtext(c byte) bool {
	return '!' <= c && c <= '\'' || '*' <= c && c <= '[' || ']' <= c && c <= '~' || isObsNoWsCtl(c)
}

// isDtext reports whether c may appear inside a domain literal.
func isDtext(c byte) bool {
	return '!' <= c && c <= 'Z' || '^' <= c && c <= '~' || isObsNoWsCtl(c)
}

// isObsNoWsCtl reports whether c is an obs-NO-WS-CTL character: a US-ASCII
// control character other than NUL, CR, LF, and horizontal tab.
func isObsNoWsCtl(c byte) bool {
	return 0x01 <= c && c <= 0x08 || c == 0x0b || c == 0x0c || 0x0e <= c && c <= 0x1f || c == 0x7f
}

// isVchar reports whether c is a visible US-ASCII character. Bytes above
// 0x7E are not vchar; the grammar is byte-oriented and non-ASCII input
// does not parse.
func isVchar(c byte) bool {
	return '!' <= c && c <= '~'
}

// isWSP reports whether c is a space or horizontal tab.
func isWSP(c byte) bool {
	return c == ' ' || c == '\t'
}
