package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageIsDeterministic(t *testing.T) {
	build := func() *Message {
		m := NewMessage()
		m.AddInteger(-15)
		m.AddPublicKey(testKey(1))
		m.AddAmount(30)
		m.AddString("memo")
		return m
	}
	a, b := build(), build()
	assert.Equal(t, a.Bytes(), b.Bytes())
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, 4, a.Len())
}

func TestMessageOrderMatters(t *testing.T) {
	a := NewMessage()
	a.AddAmount(10)
	a.AddAmount(20)
	b := NewMessage()
	b.AddAmount(20)
	b.AddAmount(10)
	assert.NotEqual(t, a.Bytes(), b.Bytes())
}

func TestMessageKindsDoNotCollide(t *testing.T) {
	a := NewMessage()
	a.AddInteger(7)
	b := NewMessage()
	b.AddAmount(7)
	assert.NotEqual(t, a.Bytes(), b.Bytes())

	c := NewMessage()
	c.AddString("ab")
	d := NewMessage()
	d.AddBytes([]byte("ab"))
	assert.NotEqual(t, c.Bytes(), d.Bytes())
}

func TestMessageBytesIsACopy(t *testing.T) {
	m := NewMessage()
	m.AddAmount(1)
	b := m.Bytes()
	b[0] ^= 0xff
	assert.NotEqual(t, b, m.Bytes())
}
