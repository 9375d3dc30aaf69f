package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite" // Registers the sqlite driver

	"github.com/punktprzejscia/przejscie/internal/deck"
	"github.com/punktprzejscia/przejscie/internal/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS history (
	id         TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	deck_name  TEXT NOT NULL,
	card       TEXT NOT NULL,
	questions  TEXT NOT NULL,
	notes      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS custom_decks (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL,
	cards       TEXT NOT NULL
);
`

// DB wraps the SQL database connection.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &DB{conn: db}, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// KV exposes the key-value table. It backs the card-back override cache.
type KV struct {
	db *DB
}

func (db *DB) KV() KV {
	return KV{db: db}
}

func (kv KV) Get(key string) (string, bool, error) {
	var value string
	err := kv.db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

func (kv KV) Set(key, value string) error {
	_, err := kv.db.conn.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (kv KV) Remove(key string) error {
	if _, err := kv.db.conn.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// SaveRecord stores one completed draw-and-reflect episode.
func (db *DB) SaveRecord(r session.Record) error {
	card, err := json.Marshal(r.Card)
	if err != nil {
		return fmt.Errorf("failed to encode card for record %s: %w", r.ID, err)
	}
	questions, err := json.Marshal(r.Questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions for record %s: %w", r.ID, err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO history (id, created_at, deck_name, card, questions, notes)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.Timestamp, r.DeckName, string(card), string(questions), r.Notes)
	if err != nil {
		return fmt.Errorf("failed to insert record %s: %w", r.ID, err)
	}
	return nil
}

// ListRecords returns the saved history, newest first.
func (db *DB) ListRecords() ([]session.Record, error) {
	rows, err := db.conn.Query(`
		SELECT id, created_at, deck_name, card, questions, notes
		FROM history ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var out []session.Record
	for rows.Next() {
		var r session.Record
		var card, questions string
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.DeckName, &card, &questions, &r.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if err := json.Unmarshal([]byte(card), &r.Card); err != nil {
			return nil, fmt.Errorf("failed to decode card for record %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(questions), &r.Questions); err != nil {
			return nil, fmt.Errorf("failed to decode questions for record %s: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (db *DB) DeleteRecord(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM history WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	return nil
}

// SaveDeck persists a custom deck.
func (db *DB) SaveDeck(d deck.Deck) error {
	cards, err := json.Marshal(d.Cards)
	if err != nil {
		return fmt.Errorf("failed to encode cards for deck %s: %w", d.ID, err)
	}
	_, err = db.conn.Exec(`
		INSERT INTO custom_decks (id, name, description, cards)
		VALUES (?, ?, ?, ?)
	`, d.ID, d.Name, d.Description, string(cards))
	if err != nil {
		return fmt.Errorf("failed to insert deck %s: %w", d.ID, err)
	}
	return nil
}

// ListDecks returns all persisted custom decks.
func (db *DB) ListDecks() ([]deck.Deck, error) {
	rows, err := db.conn.Query(`SELECT id, name, description, cards FROM custom_decks`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer rows.Close()

	var out []deck.Deck
	for rows.Next() {
		d := deck.Deck{IsCustom: true}
		var cards string
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &cards); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		if err := json.Unmarshal([]byte(cards), &d.Cards); err != nil {
			return nil, fmt.Errorf("failed to decode cards for deck %s: %w", d.ID, err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (db *DB) DeleteDeck(id string) error {
	if _, err := db.conn.Exec(`DELETE FROM custom_decks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete deck %s: %w", id, err)
	}
	return nil
}
