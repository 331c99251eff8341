package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Statements are idempotent so the server can
// restart safely against an existing database.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'admin',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS formations (
	id                   TEXT PRIMARY KEY,
	title                TEXT NOT NULL,
	description          TEXT NOT NULL DEFAULT '',
	category             TEXT NOT NULL DEFAULT '',
	level                TEXT NOT NULL DEFAULT 'beginner',
	price                NUMERIC NOT NULL DEFAULT 0,
	max_participants     INT NOT NULL CHECK (max_participants >= 1),
	current_participants INT NOT NULL DEFAULT 0 CHECK (current_participants >= 0),
	start_date           TIMESTAMPTZ,
	end_date             TIMESTAMPTZ,
	schedule             TEXT NOT NULL DEFAULT '',
	status               TEXT NOT NULL DEFAULT 'draft',
	featured             BOOLEAN NOT NULL DEFAULT false,
	views                INT NOT NULL DEFAULT 0,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS registrations (
	id                         TEXT PRIMARY KEY,
	formation_id               TEXT NOT NULL REFERENCES formations(id) ON DELETE CASCADE,
	full_name                  TEXT NOT NULL,
	email                      TEXT NOT NULL,
	phone                      TEXT NOT NULL DEFAULT '',
	role                       TEXT NOT NULL DEFAULT '',
	message                    TEXT NOT NULL DEFAULT '',
	terms_accepted             BOOLEAN NOT NULL DEFAULT false,
	verification_token         TEXT,
	verification_token_expires TIMESTAMPTZ,
	is_verified                BOOLEAN NOT NULL DEFAULT false,
	status                     TEXT NOT NULL DEFAULT 'pending',
	registration_date          TIMESTAMPTZ NOT NULL DEFAULT now(),
	confirmed_at               TIMESTAMPTZ,
	cancelled_at               TIMESTAMPTZ,
	cancellation_reason        TEXT NOT NULL DEFAULT '',
	payment_status             TEXT NOT NULL DEFAULT 'unpaid',
	payment_reference          TEXT NOT NULL DEFAULT '',
	payment_method             TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_registrations_formation ON registrations (formation_id);
CREATE INDEX IF NOT EXISTS idx_registrations_email ON registrations (email);
CREATE INDEX IF NOT EXISTS idx_registrations_token ON registrations (verification_token);

CREATE TABLE IF NOT EXISTS messages (
	id            TEXT PRIMARY KEY,
	full_name     TEXT NOT NULL,
	email         TEXT NOT NULL,
	subject       TEXT NOT NULL DEFAULT '',
	body          TEXT NOT NULL,
	message_type  TEXT NOT NULL DEFAULT 'contact',
	project_type  TEXT NOT NULL DEFAULT '',
	timeline      TEXT NOT NULL DEFAULT '',
	budget_range  TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	company       TEXT NOT NULL DEFAULT '',
	website       TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'unread',
	reply_message TEXT NOT NULL DEFAULT '',
	replied_at    TIMESTAMPTZ,
	ip_address    TEXT NOT NULL DEFAULT '',
	user_agent    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_messages_status ON messages (status);

CREATE TABLE IF NOT EXISTS projects (
	id            TEXT PRIMARY KEY,
	title         TEXT NOT NULL,
	slug          TEXT NOT NULL UNIQUE,
	description   TEXT NOT NULL DEFAULT '',
	content       TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT 'draft',
	featured      BOOLEAN NOT NULL DEFAULT false,
	display_order INT NOT NULL DEFAULT 0,
	technologies  TEXT[] NOT NULL DEFAULT '{}',
	goals         TEXT[] NOT NULL DEFAULT '{}',
	features      TEXT[] NOT NULL DEFAULT '{}',
	results       TEXT[] NOT NULL DEFAULT '{}',
	tags          TEXT[] NOT NULL DEFAULT '{}',
	metrics       JSONB NOT NULL DEFAULT '{}',
	image_url     TEXT NOT NULL DEFAULT '',
	demo_url      TEXT NOT NULL DEFAULT '',
	repo_url      TEXT NOT NULL DEFAULT '',
	views         INT NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS books (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	author      TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	rating      NUMERIC NOT NULL DEFAULT 0,
	price       NUMERIC NOT NULL DEFAULT 0,
	cover_url   TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT '',
	featured    BOOLEAN NOT NULL DEFAULT false,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Migrate applies the schema to the connected database.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
