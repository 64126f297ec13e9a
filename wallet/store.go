package wallet

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/Luismorlan/ledger_in_go/utils"
	"github.com/btcsuite/btcd/btcec/v2"
	bolt "go.etcd.io/bbolt"
)

var (
	keysBucket = []byte("keys")
	// Key names in insertion order, keyed by a big endian sequence number.
	orderBucket = []byte("order")
)

// Store keeps wallet keys in a bolt database.
type Store struct {
	db *bolt.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open key store %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(keysBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(orderBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// SaveKey stores sk under name. Existing names are not overwritten.
func (s *Store) SaveKey(name string, sk *btcec.PrivateKey) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		keys := tx.Bucket(keysBucket)
		if keys.Get([]byte(name)) != nil {
			return fmt.Errorf("key %q already stored", name)
		}
		if err := keys.Put([]byte(name), utils.PrivateKeyToBytes(sk)); err != nil {
			return err
		}
		order := tx.Bucket(orderBucket)
		seq, err := order.NextSequence()
		if err != nil {
			return err
		}
		return order.Put(seqKey(seq), []byte(name))
	})
}

// LoadWallet returns a wallet with every stored key. Keys generated through
// the returned wallet are saved to s.
func (s *Store) LoadWallet() (*Wallet, error) {
	w := NewWallet()
	err := s.db.View(func(tx *bolt.Tx) error {
		keys := tx.Bucket(keysBucket)
		return tx.Bucket(orderBucket).ForEach(func(_, name []byte) error {
			sk, err := utils.BytesToPrivateKey(keys.Get(name))
			if err != nil {
				return fmt.Errorf("key %q: %w", name, err)
			}
			return w.AddKey(string(name), sk)
		})
	})
	if err != nil {
		return nil, err
	}
	w.store = s
	return w, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func seqKey(seq uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, seq)
	return b
}
