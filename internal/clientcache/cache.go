// Package clientcache is the echo-cli conversation cache: messages, access
// token and thread id stored in a local bbolt database so a session survives
// restarts.
package clientcache

import (
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketMessages = []byte("messages")
	bucketState    = []byte("state")
)

var (
	keyAccessToken = []byte("access_token")
	keyThreadID    = []byte("thread_id")
)

// CachedMessage is one locally persisted conversation turn.
type CachedMessage struct {
	Author string    `json:"author"` // "user" or "agent"
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Cache wraps a BoltDB instance for small, durable client state.
type Cache struct {
	db *bolt.DB
}

// Open opens (or creates) the cache at the given path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketMessages); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(bucketState); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying DB handle.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveToken stores the Gmail access token.
func (c *Cache) SaveToken(token string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put(keyAccessToken, []byte(token))
	})
}

// Token returns the stored access token, or "" when none is saved.
func (c *Cache) Token() (string, error) {
	var token string
	err := c.db.View(func(tx *bolt.Tx) error {
		token = string(tx.Bucket(bucketState).Get(keyAccessToken))
		return nil
	})
	return token, err
}

// SaveThreadID stores the server-assigned thread id.
func (c *Cache) SaveThreadID(id string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketState).Put(keyThreadID, []byte(id))
	})
}

// ThreadID returns the stored thread id, or "" when none is saved.
func (c *Cache) ThreadID() (string, error) {
	var id string
	err := c.db.View(func(tx *bolt.Tx) error {
		id = string(tx.Bucket(bucketState).Get(keyThreadID))
		return nil
	})
	return id, err
}

// AppendMessage adds a turn at the end of the cached conversation.
func (c *Cache) AppendMessage(msg CachedMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMessages)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

// Messages returns all cached turns in insertion order.
func (c *Cache) Messages() ([]CachedMessage, error) {
	var out []CachedMessage
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMessages).ForEach(func(_, v []byte) error {
			var msg CachedMessage
			if err := json.Unmarshal(v, &msg); err != nil {
				return err
			}
			out = append(out, msg)
			return nil
		})
	})
	return out, err
}

// Reset clears the conversation and thread id; the access token is kept.
func (c *Cache) Reset() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketMessages); err != nil {
			return err
		}
		if _, err := tx.CreateBucket(bucketMessages); err != nil {
			return err
		}
		return tx.Bucket(bucketState).Delete(keyThreadID)
	})
}
