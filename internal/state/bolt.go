package state

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"listing_crawler/internal/domain"
)

var stateBucket = []byte("run_state")

// BoltDB holds the state of every tracker in one embedded file.
type BoltDB struct {
	db *bolt.DB
}

func OpenBolt(path string) (*BoltDB, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(stateBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltDB{db: db}, nil
}

func (b *BoltDB) Close() error {
	return b.db.Close()
}

// Store returns the Store for the tracker called name.
func (b *BoltDB) Store(name string) *BoltStore {
	return &BoltStore{db: b.db, key: []byte(name)}
}

type BoltStore struct {
	db  *bolt.DB
	key []byte
}

func (s *BoltStore) Load(_ context.Context) (*domain.RunState, error) {
	state := &domain.RunState{}
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(stateBucket).Get(s.key)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, state)
	})
	if err != nil {
		return nil, err
	}
	return state, nil
}

func (s *BoltStore) Save(_ context.Context, state *domain.RunState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(s.key, data)
	})
}
