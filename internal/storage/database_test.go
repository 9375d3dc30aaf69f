package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/punktprzejscia/przejscie/internal/deck"
	"github.com/punktprzejscia/przejscie/internal/session"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("should be able to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestKVRoundTrip(t *testing.T) {
	kv := openTestDB(t).KV()

	if _, ok, err := kv.Get("card_back_v1"); err != nil || ok {
		t.Fatalf("missing key should read as absent, got ok=%v err=%v", ok, err)
	}

	if err := kv.Set("card_back_v1", "data:image/png;base64,AAA"); err != nil {
		t.Fatalf("set should succeed: %v", err)
	}
	v, ok, err := kv.Get("card_back_v1")
	if err != nil || !ok || v != "data:image/png;base64,AAA" {
		t.Fatalf("unexpected read: %q %v %v", v, ok, err)
	}

	// Set overwrites; last writer wins.
	if err := kv.Set("card_back_v1", "data:image/jpeg;base64,BBB"); err != nil {
		t.Fatalf("overwrite should succeed: %v", err)
	}
	v, _, _ = kv.Get("card_back_v1")
	if v != "data:image/jpeg;base64,BBB" {
		t.Fatalf("expected overwritten value, got %q", v)
	}

	if err := kv.Remove("card_back_v1"); err != nil {
		t.Fatalf("remove should succeed: %v", err)
	}
	if _, ok, _ := kv.Get("card_back_v1"); ok {
		t.Fatal("removed key should read as absent")
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	db := openTestDB(t)
	card := deck.EmotionCard{ID: "e36", Name: "Smutek", Question: "q", ImageURL: "img"}

	older := session.Record{
		ID:        "r1",
		Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		DeckName:  "Pełna Talia Emocji",
		Card:      card,
		Questions: []string{"q1", "q2"},
		Notes:     "pierwsza sesja",
	}
	newer := older
	newer.ID = "r2"
	newer.Timestamp = older.Timestamp.Add(time.Hour)

	if err := db.SaveRecord(older); err != nil {
		t.Fatalf("save should succeed: %v", err)
	}
	if err := db.SaveRecord(newer); err != nil {
		t.Fatalf("save should succeed: %v", err)
	}

	records, err := db.ListRecords()
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "r2" || records[1].ID != "r1" {
		t.Fatal("records should come back newest first")
	}
	if records[1].Card.Name != "Smutek" || records[1].Notes != "pierwsza sesja" {
		t.Fatalf("record fields should round-trip, got %+v", records[1])
	}
	if len(records[1].Questions) != 2 {
		t.Fatalf("questions should round-trip, got %v", records[1].Questions)
	}

	if err := db.DeleteRecord("r1"); err != nil {
		t.Fatalf("delete should succeed: %v", err)
	}
	records, _ = db.ListRecords()
	if len(records) != 1 || records[0].ID != "r2" {
		t.Fatalf("expected only r2 to remain, got %v", records)
	}
}

func TestCustomDeckPersistence(t *testing.T) {
	db := openTestDB(t)

	d, err := deck.NewCustom("Moja talia", "", []deck.CardInput{
		{Name: "Cisza", Description: "empty room, soft light", Question: "Czego potrzebujesz?"},
	}, func() int { return 42 })
	if err != nil {
		t.Fatalf("should build custom deck: %v", err)
	}

	if err := db.SaveDeck(d); err != nil {
		t.Fatalf("save should succeed: %v", err)
	}
	decks, err := db.ListDecks()
	if err != nil {
		t.Fatalf("list should succeed: %v", err)
	}
	if len(decks) != 1 {
		t.Fatalf("expected 1 deck, got %d", len(decks))
	}
	got := decks[0]
	if got.ID != d.ID || !got.IsCustom || len(got.Cards) != 1 {
		t.Fatalf("deck should round-trip, got %+v", got)
	}
	if got.Cards[0].Name != "Cisza" || got.Cards[0].ImageURL == "" {
		t.Fatalf("card fields should round-trip, got %+v", got.Cards[0])
	}

	if err := db.DeleteDeck(d.ID); err != nil {
		t.Fatalf("delete should succeed: %v", err)
	}
	decks, _ = db.ListDecks()
	if len(decks) != 0 {
		t.Fatalf("expected no decks after delete, got %v", decks)
	}
}
