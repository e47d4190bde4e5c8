package criptofiscal

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// PriceDB is a persistent key/value store for resolved prices, so a re-run
// over the same exports never hits the network twice. Keys follow the
// "{SYMBOL}_{VS}_{minute}" and "USD_EUR_{day}" formats.
type PriceDB struct {
	db *sql.DB
	mu sync.Mutex // sqlite wants a single writer
}

// OpenPriceDB opens (and if needed creates) the cache at path.
func OpenPriceDB(path string) (*PriceDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open price cache %q: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS prices (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create price cache table: %w", err)
	}
	return &PriceDB{db: db}, nil
}

// Get returns the cached value for key, if present. A nil receiver is a
// disabled cache and always misses.
func (p *PriceDB) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	var value string
	err := p.db.QueryRow("SELECT value FROM prices WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", false
	}
	return value, true
}

// Put stores a value, overwriting any previous one for the key.
func (p *PriceDB) Put(key, value string) error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.db.Exec(
		"INSERT INTO prices(key, value) VALUES(?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value)
	return err
}

func (p *PriceDB) Close() error {
	if p == nil {
		return nil
	}
	return p.db.Close()
}
