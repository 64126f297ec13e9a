package wallet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePersistsKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.db")

	s, err := OpenStore(path)
	require.NoError(t, err)
	w, err := s.LoadWallet()
	require.NoError(t, err)
	assert.Empty(t, w.Names())

	pkB, err := w.GenerateKey("B")
	require.NoError(t, err)
	pkA, err := w.GenerateKey("A")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	s, err = OpenStore(path)
	require.NoError(t, err)
	defer s.Close()
	restored, err := s.LoadWallet()
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, restored.Names())

	got, err := restored.GetPublicKey("A")
	require.NoError(t, err)
	assert.Equal(t, pkA, got)
	got, err = restored.GetPublicKey("B")
	require.NoError(t, err)
	assert.Equal(t, pkB, got)
}

func TestStoreRejectsDuplicateName(t *testing.T) {
	s, err := OpenStore(filepath.Join(t.TempDir(), "wallet.db"))
	require.NoError(t, err)
	defer s.Close()

	w, err := GenerateSampleWallet("A")
	require.NoError(t, err)
	sk, err := w.privateKey("A")
	require.NoError(t, err)
	require.NoError(t, s.SaveKey("A", sk))
	assert.Error(t, s.SaveKey("A", sk))
}
