package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection
type DB struct {
	*sql.DB
}

// New creates a new SQLite database connection. Foreign key enforcement is
// requested through the DSN so that every connection in the pool gets it,
// not only the one a session PRAGMA would reach.
func New(dataSourceName string) (*DB, error) {
	sep := "?"
	if strings.Contains(dataSourceName, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite", dataSourceName+sep+"_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &DB{db}, nil
}

// RunMigrations creates the schema. Nested structures (localized text,
// preferences, rules, proposals) are stored as JSON text columns.
func (db *DB) RunMigrations() error {
	migration := `
-- Cards table
CREATE TABLE cards (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    category TEXT NOT NULL CHECK(category IN ('daily-grind', 'kids', 'home', 'magic', 'wild', 'custom')),
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    details TEXT NOT NULL,
    holder TEXT CHECK(holder IN ('partner-a', 'partner-b')),
    status TEXT NOT NULL CHECK(status IN ('unassigned', 'held', 'in-negotiation', 'shared', 'paused')),
    custom_fields TEXT,
    tags TEXT,
    is_custom INTEGER NOT NULL DEFAULT 0,
    is_active INTEGER NOT NULL DEFAULT 1,
    difficulty INTEGER NOT NULL,
    frequency TEXT NOT NULL CHECK(frequency IN ('daily', 'weekly', 'monthly', 'occasional')),
    time_estimate INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL
);
CREATE INDEX idx_household_cards ON cards(household_id);
CREATE INDEX idx_card_status ON cards(status);
CREATE INDEX idx_card_holder ON cards(holder);
CREATE INDEX idx_card_category ON cards(category);

-- Card history (append-only)
CREATE TABLE card_history (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    card_id TEXT NOT NULL,
    action TEXT NOT NULL,
    performed_by TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (card_id) REFERENCES cards(id) ON DELETE CASCADE
);
CREATE INDEX idx_card_history ON card_history(card_id);

-- Partners (fixed pair per household)
CREATE TABLE partners (
    household_id TEXT NOT NULL,
    id TEXT NOT NULL CHECK(id IN ('partner-a', 'partner-b')),
    name TEXT NOT NULL,
    avatar TEXT,
    preferences TEXT NOT NULL,
    stats TEXT NOT NULL,
    theme TEXT NOT NULL,
    PRIMARY KEY (household_id, id)
);

-- Game sessions
CREATE TABLE games (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    deal_mode TEXT NOT NULL,
    rules TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    deal_history TEXT,
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL
);
CREATE INDEX idx_household_games ON games(household_id);
CREATE INDEX idx_active_games ON games(household_id, is_active);

-- Negotiations
CREATE TABLE negotiations (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    game_id TEXT,
    initiator TEXT NOT NULL,
    card_ids TEXT NOT NULL,
    proposal TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('pending', 'accepted', 'rejected', 'counter')),
    prior_statuses TEXT,
    created_at TIMESTAMP NOT NULL,
    modified_at TIMESTAMP NOT NULL,
    FOREIGN KEY (game_id) REFERENCES games(id)
);
CREATE INDEX idx_household_negotiations ON negotiations(household_id);
CREATE INDEX idx_game_negotiations ON negotiations(game_id);
CREATE INDEX idx_negotiation_status ON negotiations(status);

-- Negotiation events (append-only)
CREATE TABLE negotiation_events (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    negotiation_id TEXT NOT NULL,
    type TEXT NOT NULL,
    actor TEXT NOT NULL,
    details TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (negotiation_id) REFERENCES negotiations(id) ON DELETE CASCADE
);
CREATE INDEX idx_negotiation_events ON negotiation_events(negotiation_id);

-- API keys for authentication
CREATE TABLE api_keys (
    key_hash TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    last_used TIMESTAMP,
    description TEXT
);
CREATE INDEX idx_household_keys ON api_keys(household_id);
`

	_, err := db.Exec(migration)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
