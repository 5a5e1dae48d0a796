package main

import (
	"encoding/json"
	"errors"
	"slices"

	"github.com/dgraph-io/badger/v4"
)

const runKeyPrefix = "run/"

var (
	ErrNotFound = errors.New("not found")
	ErrKeyEmpty = errors.New("empty key")
)

// ResultStore keeps finished runs in a badger database, keyed by run ID.
type ResultStore struct {
	db *badger.DB
}

// OpenResultStore opens (or creates) the database in dir. An empty dir keeps it in memory.
func OpenResultStore(dir string) (*ResultStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) Save(rec *RunRecord) error {
	if rec.ID == "" {
		return ErrKeyEmpty
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runKeyPrefix+rec.ID), data)
	})
}

func (s *ResultStore) Get(id string) (*RunRecord, error) {
	if id == "" {
		return nil, ErrKeyEmpty
	}
	var rec RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(runKeyPrefix + id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every stored run, newest first.
func (s *ResultStore) List() ([]RunRecord, error) {
	var out []RunRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec RunRecord
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			out = append(out, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b RunRecord) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}
