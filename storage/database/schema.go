package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// schema is the idempotent bootstrap DDL, applied at startup.
const schema = `
CREATE TABLE IF NOT EXISTS machine (
	id              SERIAL PRIMARY KEY,
	device_id       TEXT NOT NULL UNIQUE,
	secret_key      TEXT NOT NULL,
	is_online       BOOLEAN NOT NULL DEFAULT FALSE,
	is_printing     BOOLEAN NOT NULL DEFAULT FALSE,
	firmware_version TEXT,
	model           TEXT,
	up_time         BIGINT,
	sessions_held   INTEGER,
	active_session  TEXT,
	last_seen_at    TIMESTAMPTZ NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS machine_location (
	id         BIGSERIAL PRIMARY KEY,
	machine_id INTEGER NOT NULL REFERENCES machine (id),
	lat        DOUBLE PRECISION NOT NULL,
	lng        DOUBLE PRECISION NOT NULL,
	provider   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS print_event (
	id              UUID PRIMARY KEY,
	device_id       INTEGER NOT NULL REFERENCES machine (id),
	print_job_id    TEXT NOT NULL,
	type            TEXT NOT NULL,
	payload         JSONB NOT NULL DEFAULT '{}',
	idempotency_key TEXT NOT NULL UNIQUE,
	created_at      TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS school (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	email          TEXT,
	region         TEXT,
	signup_code_id TEXT,
	created_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS operator (
	id         TEXT PRIMARY KEY,
	full_name  TEXT NOT NULL,
	email      TEXT NOT NULL,
	is_active  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS session (
	id                    TEXT PRIMARY KEY,
	school_id             TEXT NOT NULL REFERENCES school (id),
	operator_id           TEXT NOT NULL REFERENCES operator (id),
	service_passcode      TEXT NOT NULL,
	status                TEXT NOT NULL,
	scheduled_date        TIMESTAMPTZ,
	total_students_served INTEGER NOT NULL DEFAULT 0,
	notes                 TEXT,
	created_at            TIMESTAMPTZ NOT NULL,
	updated_at            TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS class (
	id                             TEXT PRIMARY KEY,
	session_id                     TEXT NOT NULL REFERENCES session (id),
	name                           TEXT NOT NULL,
	total_students_served_in_class INTEGER NOT NULL DEFAULT 0,
	is_attended                    BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at                     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS student (
	id                          TEXT PRIMARY KEY,
	class_id                    TEXT NOT NULL REFERENCES class (id),
	full_name                   TEXT NOT NULL,
	dark_garment_count          INTEGER NOT NULL DEFAULT 0,
	light_garment_count         INTEGER NOT NULL DEFAULT 0,
	printed_dark_garment_count  INTEGER NOT NULL DEFAULT 0,
	printed_light_garment_count INTEGER NOT NULL DEFAULT 0,
	dark_garments_printed       BOOLEAN NOT NULL DEFAULT FALSE,
	light_garments_printed      BOOLEAN NOT NULL DEFAULT FALSE,
	is_served                   BOOLEAN NOT NULL DEFAULT FALSE,
	updated_at                  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS "order" (
	id         TEXT PRIMARY KEY,
	school_id  TEXT NOT NULL REFERENCES school (id),
	amount     DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_item (
	id                          TEXT PRIMARY KEY,
	order_id                    TEXT NOT NULL REFERENCES "order" (id),
	dark_garment_count          INTEGER NOT NULL DEFAULT 0,
	light_garment_count         INTEGER NOT NULL DEFAULT 0,
	printed_dark_garment_count  INTEGER NOT NULL DEFAULT 0,
	printed_light_garment_count INTEGER NOT NULL DEFAULT 0,
	status                      TEXT NOT NULL DEFAULT 'PENDING',
	updated_at                  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS staff (
	user_id       TEXT PRIMARY KEY,
	staff_id      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	full_name     TEXT NOT NULL,
	phone_number  TEXT NOT NULL,
	role          TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	password_hash BYTEA NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS referral_agent (
	id            TEXT PRIMARY KEY,
	staff_user_id TEXT NOT NULL REFERENCES staff (user_id),
	region        TEXT NOT NULL DEFAULT '',
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS referral_code (
	id                  TEXT PRIMARY KEY,
	code                TEXT NOT NULL UNIQUE,
	agent_id            TEXT NOT NULL REFERENCES referral_agent (id),
	credit_worth_factor DOUBLE PRECISION NOT NULL DEFAULT 1,
	created_at          TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS notification (
	id              UUID PRIMARY KEY,
	template        TEXT NOT NULL,
	recipient_name  TEXT NOT NULL,
	recipient_email TEXT NOT NULL,
	subject         TEXT NOT NULL,
	context         JSONB NOT NULL DEFAULT '{}',
	status          TEXT NOT NULL DEFAULT 'PENDING',
	attempts        INTEGER NOT NULL DEFAULT 0,
	next_attempt_at TIMESTAMPTZ NOT NULL,
	last_error      TEXT,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS notification_due_idx ON notification (status, next_attempt_at);
CREATE INDEX IF NOT EXISTS print_event_job_idx ON print_event (print_job_id);
CREATE INDEX IF NOT EXISTS order_school_idx ON "order" (school_id, created_at);
`

// EnsureSchema applies the bootstrap DDL; every statement is idempotent.
func EnsureSchema(db *sqlx.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "applying schema")
	}
	return nil
}
