package bolt

import (
	"encoding/binary"
	"errors"
	"time"

	bbolt "go.etcd.io/bbolt"
	bberrors "go.etcd.io/bbolt/errors"

	"github.com/haukened/rr-bloom/internal/bloom/domain"
	"github.com/haukened/rr-bloom/internal/bloom/repos/keyset"
)

var (
	bucketKeys = []byte("keys")
	bucketMeta = []byte("meta")

	metaVersion = []byte("version")
	metaUpdated = []byte("updated")
)

// boltStore implements keyset.Store using bbolt. Each key maps to the source
// it was loaded from.
type boltStore struct {
	db *bbolt.DB
}

// New opens (or creates) a Bolt database at path and ensures buckets exist.
func New(path string) (keyset.Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketKeys); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketMeta)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &boltStore{db: db}, nil
}

func (s *boltStore) Close() error { return s.db.Close() }

// RebuildAll replaces the key bucket and metadata in a single transaction so
// readers see either the old snapshot or the new one.
func (s *boltStore) RebuildAll(keys []domain.Key, version uint64, updatedUnix int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketKeys); err != nil && !errors.Is(err, bberrors.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket(bucketKeys)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if k.Name == "" {
				continue
			}
			if err := b.Put(k.Bytes(), []byte(k.Source)); err != nil {
				return err
			}
		}
		m := tx.Bucket(bucketMeta)
		vbuf := make([]byte, 8)
		ubuf := make([]byte, 8)
		binary.BigEndian.PutUint64(vbuf, version)
		binary.BigEndian.PutUint64(ubuf, uint64(updatedUnix))
		if err := m.Put(metaVersion, vbuf); err != nil {
			return err
		}
		return m.Put(metaUpdated, ubuf)
	})
}

// VisitKeys walks every stored key in byte order. The slice passed to visit
// is a copy and may be retained.
func (s *boltStore) VisitKeys(visit func(key []byte) bool) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketKeys)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			kk := make([]byte, len(k))
			copy(kk, k)
			if !visit(kk) {
				return nil
			}
		}
		return nil
	})
}

// Source reports whether key is stored and the source it was loaded from.
func (s *boltStore) Source(key string) (string, bool, error) {
	var (
		src string
		ok  bool
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketKeys)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			src, ok = string(v), true
		}
		return nil
	})
	return src, ok, err
}

func (s *boltStore) Stats() keyset.StoreStats {
	st := keyset.StoreStats{}
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketKeys); b != nil {
			st.Keys = uint64(b.Stats().KeyN)
		}
		if b := tx.Bucket(bucketMeta); b != nil {
			if v := b.Get(metaVersion); len(v) == 8 {
				st.Version = binary.BigEndian.Uint64(v)
			}
			if v := b.Get(metaUpdated); len(v) == 8 {
				st.UpdatedUnix = int64(binary.BigEndian.Uint64(v))
			}
		}
		return nil
	})
	return st
}

var _ keyset.Store = (*boltStore)(nil)
