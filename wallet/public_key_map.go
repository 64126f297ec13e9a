package wallet

import (
	"fmt"

	"github.com/Luismorlan/ledger_in_go/model"
	"github.com/Luismorlan/ledger_in_go/utils"
)

// PublicKeyMap maps human readable key names to public keys, for display.
type PublicKeyMap struct {
	byName map[string]model.PublicKey
	byKey  map[model.PublicKey]string
	names  []string
}

func NewPublicKeyMap() *PublicKeyMap {
	return &PublicKeyMap{
		byName: make(map[string]model.PublicKey),
		byKey:  make(map[model.PublicKey]string),
	}
}

// AddKey registers pk under name, replacing any earlier key of that name.
func (m *PublicKeyMap) AddKey(name string, pk model.PublicKey) {
	if old, ok := m.byName[name]; ok {
		delete(m.byKey, old)
	} else {
		m.names = append(m.names, name)
	}
	m.byName[name] = pk
	m.byKey[pk] = name
}

// AddPublicKeyMap merges other into m.
func (m *PublicKeyMap) AddPublicKeyMap(other *PublicKeyMap) {
	for _, name := range other.names {
		m.AddKey(name, other.byName[name])
	}
}

func (m *PublicKeyMap) GetPublicKey(name string) (model.PublicKey, error) {
	pk, ok := m.byName[name]
	if !ok {
		return model.PublicKey{}, fmt.Errorf("%w: unknown key name %q", model.ErrInvalidInput, name)
	}
	return pk, nil
}

// GetKeyName returns the name of pk, or a shortened hex form for unknown keys.
func (m *PublicKeyMap) GetKeyName(pk model.PublicKey) string {
	if name, ok := m.byKey[pk]; ok {
		return name
	}
	return utils.ShortenHex(pk.String())
}

func (m *PublicKeyMap) GetAddress(name string) (string, error) {
	pk, err := m.GetPublicKey(name)
	if err != nil {
		return "", err
	}
	return utils.PubKeyToAddress(pk), nil
}

// Names returns the key names in the order they were added.
func (m *PublicKeyMap) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}
