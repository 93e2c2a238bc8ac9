package postie

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAddress(t *testing.T) {
	local := []byte("not checked")
	domain := []byte("@at all@")
	a := NewAddress(local, domain)
	assert.Equal(t, "not checked@@at all@", a.String())
	assert.True(t, &local[0] == &a.LocalPart()[0])
	assert.True(t, &domain[0] == &a.Domain()[0])
}

func TestParseAddressZeroCopy(t *testing.T) {
	in := []byte("jdoe@machine.example")
	a, err := ParseAddress(in)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, []byte("jdoe"), a.LocalPart())
	assert.Equal(t, []byte("machine.example"), a.Domain())
	assert.True(t, &in[0] == &a.LocalPart()[0])
	assert.True(t, &in[5] == &a.Domain()[0])

	// Dropped whitespace forces a copy for the domain but not the
	// untouched local part.
	in = []byte("jdoe@[ 10.0.0.1 ]")
	a, err = ParseAddress(in)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.True(t, &in[0] == &a.LocalPart()[0])
	assert.Equal(t, []byte("[10.0.0.1]"), a.Domain())
	assert.False(t, &in[5] == &a.Domain()[0])
}

func TestAddressSerialization(t *testing.T) {
	a := MustParseAddress("user@example.com")
	assert.Equal(t, "user@example.com", a.String())
	assert.Equal(t, []byte("user@example.com"), a.Bytes())
	assert.Equal(t, "to: user@example.com", string(a.AppendTo([]byte("to: "))))

	var buf bytes.Buffer
	n, err := a.WriteTo(&buf)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, int64(len("user@example.com")), n)
	assert.Equal(t, "user@example.com", buf.String())

	// Bytes builds a fresh slice every call.
	b := a.Bytes()
	b[0] = 'X'
	assert.Equal(t, "user@example.com", a.String())
}

func TestAddressOrdering(t *testing.T) {
	alice := MustParseAddress("alice@example.com")
	bob := MustParseAddress("bob@example.com")
	aliceZ := MustParseAddress("alice@zzz.example")

	assert.Equal(t, -1, alice.Compare(bob))
	assert.Equal(t, 1, bob.Compare(alice))
	assert.Equal(t, 0, alice.Compare(alice))
	assert.True(t, alice.Less(bob))
	assert.False(t, bob.Less(alice))

	// Same local part orders by domain.
	assert.True(t, alice.Less(aliceZ))

	assert.True(t, alice.Equal(MustParseAddress("alice@example.com")))
	// Comparison is byte-exact, no case folding.
	assert.False(t, alice.Equal(MustParseAddress("Alice@example.com")))

	// The ordering holds for unchecked values too.
	ab := NewAddress([]byte("a"), []byte("b"))
	assert.True(t, ab.Less(NewAddress([]byte("a"), []byte("c"))))
	assert.True(t, ab.Less(NewAddress([]byte("b"), []byte("a"))))
	assert.True(t, ab.Equal(NewAddress([]byte("a"), []byte("b"))))
}

func TestMustParseAddress(t *testing.T) {
	a := MustParseAddress("user@example.com")
	assert.Equal(t, "user@example.com", a.String())
	assert.Panics(t, func() { MustParseAddress("@bad") })
}

func TestAddressTextMarshalling(t *testing.T) {
	text := []byte("user@example.com")
	var a Address
	err := a.UnmarshalText(text)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	// The unmarshalled value must not alias the caller's buffer.
	text[0] = 'X'
	assert.Equal(t, "user@example.com", a.String())

	out, err := a.MarshalText()
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.Equal(t, "user@example.com", string(out))

	// A failed unmarshal leaves the value alone.
	err = a.UnmarshalText([]byte("@bad"))
	assert.ErrorIs(t, err, ErrBadAddress)
	assert.Equal(t, "user@example.com", a.String())
}

func TestAddressJSON(t *testing.T) {
	type envelope struct {
		To Address `json:"to"`
	}

	e := envelope{To: MustParseAddress(`"j\ d"@example.com`)}
	data, err := json.Marshal(e)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.JSONEq(t, `{"to":"\"j\\ d\"@example.com"}`, string(data))

	var back envelope
	err = json.Unmarshal(data, &back)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	assert.True(t, e.To.Equal(back.To))

	err = json.Unmarshal([]byte(`{"to":"@bad"}`), &back)
	assert.Error(t, err)
}
