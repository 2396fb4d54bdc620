package translation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"
)

// Cache memoizes successful translations of the wrapped Translator in BadgerDB.
type Cache struct {
	next Translator
	db   *badger.DB
}

// CacheOptions selects on-disk (Dir) or in-memory storage.
type CacheOptions struct {
	Dir      string
	InMemory bool
}

func NewCache(next Translator, opts CacheOptions) (*Cache, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("translation cache: directory required")
	}
	bopts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		bopts = bopts.WithInMemory(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, err
	}
	return &Cache{next: next, db: db}, nil
}

func (c *Cache) Name() string { return c.next.Name() }

// Backends and Len pass through to a wrapped Chain.
func (c *Cache) Backends() []string {
	if b, ok := c.next.(interface{ Backends() []string }); ok {
		return b.Backends()
	}
	return []string{c.next.Name()}
}

func (c *Cache) Len() int {
	if l, ok := c.next.(interface{ Len() int }); ok {
		return l.Len()
	}
	return 1
}

func (c *Cache) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return c.next.Translate(ctx, text, source, target)
	}
	key := cacheKey(text, source, target)
	if v, ok := c.get(key); ok {
		log.Debug().Str("source", source).Str("target", target).Msg("translation cache hit")
		return v, nil
	}
	out, err := c.next.Translate(ctx, text, source, target)
	if err != nil || out == "" || IsPlaceholder(out) {
		return out, err
	}
	if err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, []byte(out))
	}); err != nil {
		log.Warn().Err(err).Msg("translation cache write failed")
	}
	return out, nil
}

func (c *Cache) get(key []byte) (string, bool) {
	var val []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			log.Warn().Err(err).Msg("translation cache read failed")
		}
		return "", false
	}
	return string(val), true
}

func (c *Cache) Close() error {
	return c.db.Close()
}

func cacheKey(text, source, target string) []byte {
	sum := sha256.Sum256([]byte(text))
	return []byte("mt:" + source + ":" + target + ":" + hex.EncodeToString(sum[:]))
}
