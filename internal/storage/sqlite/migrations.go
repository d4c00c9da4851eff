package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
const schema = `
CREATE TABLE IF NOT EXISTS debts (
    debtor_id TEXT PRIMARY KEY,
    creditor_id TEXT NOT NULL,
    total REAL NOT NULL,
    last_updated TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS debt_entries (
    id TEXT PRIMARY KEY,
    debtor_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    amount REAL NOT NULL,
    amount_text TEXT NOT NULL,
    creditor_id TEXT NOT NULL,
    created_at TEXT NOT NULL,
    FOREIGN KEY (debtor_id) REFERENCES debts(debtor_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_debt_entries_debtor_id ON debt_entries(debtor_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
