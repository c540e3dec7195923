package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Monetary columns are TEXT holding decimal strings so values round-trip
// without float conversion. Bookings, parts, service images and users are
// only correlated by value; booking_parts is the booking's own line snapshot.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email COLLATE NOCASE) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS parts (
    id          INTEGER PRIMARY KEY,
    part_number TEXT NOT NULL DEFAULT '',
    name        TEXT NOT NULL DEFAULT '',
    supplier    TEXT NOT NULL DEFAULT '',
    cost        TEXT NOT NULL DEFAULT '0',
    profit      TEXT NOT NULL DEFAULT '0',
    price       TEXT NOT NULL DEFAULT '0',
    qty         INTEGER NOT NULL DEFAULT 0,
    booked      TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bookings (
    id                INTEGER PRIMARY KEY,
    car_make          TEXT NOT NULL DEFAULT '',
    car_model         TEXT NOT NULL DEFAULT '',
    car_year          TEXT NOT NULL DEFAULT '',
    car_registration  TEXT NOT NULL DEFAULT '',
    car_registration_fold TEXT NOT NULL DEFAULT '',
    customer_name     TEXT NOT NULL DEFAULT '',
    customer_email    TEXT NOT NULL DEFAULT '',
    customer_phone    TEXT NOT NULL DEFAULT '',
    customer_postcode TEXT NOT NULL DEFAULT '',
    customer_address  TEXT NOT NULL DEFAULT '',
    service_label     TEXT NOT NULL DEFAULT '',
    service_sub       TEXT NOT NULL DEFAULT '',
    labour_hours      TEXT NOT NULL DEFAULT '0',
    labour_cost       TEXT NOT NULL DEFAULT '0',
    parts_cost        TEXT NOT NULL DEFAULT '0',
    subtotal          TEXT NOT NULL DEFAULT '0',
    vat               TEXT NOT NULL DEFAULT '0',
    total             TEXT NOT NULL DEFAULT '0',
    date              TEXT NOT NULL DEFAULT '',
    time              TEXT NOT NULL DEFAULT '',
    category          TEXT NOT NULL DEFAULT '',
    created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS booking_parts (
    booking_id  INTEGER NOT NULL REFERENCES bookings(id),
    position    INTEGER NOT NULL,
    part_number TEXT NOT NULL DEFAULT '',
    name        TEXT NOT NULL DEFAULT '',
    supplier    TEXT NOT NULL DEFAULT '',
    cost        TEXT,
    profit      TEXT,
    price       TEXT,
    qty         TEXT,
    PRIMARY KEY (booking_id, position)
);

CREATE TABLE IF NOT EXISTS service_images (
    id          INTEGER PRIMARY KEY,
    user_id     TEXT NOT NULL DEFAULT '',
    service_id  TEXT NOT NULL DEFAULT '',
    image_url   TEXT NOT NULL CHECK (image_url <> ''),
    uploaded_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
