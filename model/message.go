package model

import (
	"encoding/hex"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers tag every value with its kind so that values of different
// kinds never serialize to the same bytes.
const (
	integerField   protowire.Number = 1
	amountField    protowire.Number = 2
	publicKeyField protowire.Number = 3
	stringField    protowire.Number = 4
	bytesField     protowire.Number = 5
)

// Message is the payload that gets signed. Values are appended in order and
// serialized as protobuf wire-format fields, so equal content always yields
// equal bytes.
type Message struct {
	buf []byte
	n   int
}

func NewMessage() *Message {
	return &Message{}
}

func (m *Message) AddInteger(i int64) {
	m.buf = protowire.AppendTag(m.buf, integerField, protowire.VarintType)
	m.buf = protowire.AppendVarint(m.buf, protowire.EncodeZigZag(i))
	m.n++
}

func (m *Message) AddAmount(a uint64) {
	m.buf = protowire.AppendTag(m.buf, amountField, protowire.VarintType)
	m.buf = protowire.AppendVarint(m.buf, a)
	m.n++
}

func (m *Message) AddPublicKey(pk PublicKey) {
	m.buf = protowire.AppendTag(m.buf, publicKeyField, protowire.BytesType)
	m.buf = protowire.AppendBytes(m.buf, pk[:])
	m.n++
}

func (m *Message) AddString(s string) {
	m.buf = protowire.AppendTag(m.buf, stringField, protowire.BytesType)
	m.buf = protowire.AppendString(m.buf, s)
	m.n++
}

// AddBytes appends b as one length-delimited value, typically a nested message.
func (m *Message) AddBytes(b []byte) {
	m.buf = protowire.AppendTag(m.buf, bytesField, protowire.BytesType)
	m.buf = protowire.AppendBytes(m.buf, b)
	m.n++
}

// Len returns how many values have been appended.
func (m *Message) Len() int {
	return m.n
}

// Bytes returns a copy of the serialized message.
func (m *Message) Bytes() []byte {
	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	return out
}

func (m *Message) String() string {
	return hex.EncodeToString(m.buf)
}
