package store

import "fmt"

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS folders (
	id         TEXT    PRIMARY KEY,
	owner_id   TEXT    NOT NULL,
	name       TEXT    NOT NULL,
	archived   INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0,
	created_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_folders_owner ON folders(owner_id, id);

CREATE TABLE IF NOT EXISTS month_groups (
	id         TEXT PRIMARY KEY,
	owner_id   TEXT NOT NULL,
	name       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_month_groups_owner ON month_groups(owner_id, id);

CREATE TABLE IF NOT EXISTS todos (
	id         TEXT    PRIMARY KEY,
	owner_id   TEXT    NOT NULL,
	date       TEXT,
	content    TEXT    NOT NULL,
	kind       TEXT    NOT NULL DEFAULT 'todo',
	completed  INTEGER NOT NULL DEFAULT 0,
	archived   INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL,
	parent_id  TEXT,
	collapsed  INTEGER NOT NULL DEFAULT 0,
	pinned     INTEGER NOT NULL DEFAULT 0,
	folder_id  TEXT,
	backlog    INTEGER NOT NULL DEFAULT 0,
	created_at TEXT    NOT NULL,
	updated_at TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_todos_owner        ON todos(owner_id, id);
CREATE INDEX IF NOT EXISTS idx_todos_owner_date   ON todos(owner_id, date);
CREATE INDEX IF NOT EXISTS idx_todos_owner_folder ON todos(owner_id, folder_id);

CREATE VIRTUAL TABLE IF NOT EXISTS todos_fts USING fts5(
	content,
	content='todos',
	content_rowid='rowid'
);

CREATE TABLE IF NOT EXISTS notes (
	id          TEXT    PRIMARY KEY,
	owner_id    TEXT    NOT NULL,
	date        TEXT,
	folder_id   TEXT,
	title       TEXT,
	content     TEXT    NOT NULL,
	sort_order  INTEGER NOT NULL,
	is_page     INTEGER NOT NULL DEFAULT 0,
	share_token TEXT UNIQUE,
	created_at  TEXT    NOT NULL,
	updated_at  TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notes_owner      ON notes(owner_id, id);
CREATE INDEX IF NOT EXISTS idx_notes_owner_date ON notes(owner_id, date);

CREATE VIRTUAL TABLE IF NOT EXISTS notes_content_fts USING fts5(
	content,
	content='notes',
	content_rowid='rowid'
);

CREATE VIRTUAL TABLE IF NOT EXISTS notes_title_fts USING fts5(
	title,
	content='notes',
	content_rowid='rowid'
);

CREATE TABLE IF NOT EXISTS streaks (
	owner_id              TEXT    PRIMARY KEY,
	current_streak        INTEGER NOT NULL DEFAULT 0,
	longest_streak        INTEGER NOT NULL DEFAULT 0,
	last_completed_date   TEXT    NOT NULL DEFAULT '',
	weekly_progress       TEXT    NOT NULL DEFAULT '{}',
	total_todos_completed INTEGER NOT NULL DEFAULT 0,
	updated_at            TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS chats (
	id                 TEXT PRIMARY KEY,
	owner_id           TEXT NOT NULL,
	date               TEXT NOT NULL,
	messages           TEXT NOT NULL DEFAULT '[]',
	last_message_at    TEXT,
	searchable_content TEXT NOT NULL DEFAULT '',
	UNIQUE(owner_id, date)
);
CREATE INDEX IF NOT EXISTS idx_chats_owner ON chats(owner_id, id);

CREATE VIRTUAL TABLE IF NOT EXISTS chats_fts USING fts5(
	searchable_content,
	content='chats',
	content_rowid='rowid'
);

CREATE TABLE IF NOT EXISTS archived_dates (
	owner_id   TEXT NOT NULL,
	date       TEXT NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (owner_id, date)
);

CREATE TABLE IF NOT EXISTS folder_dates (
	owner_id  TEXT NOT NULL,
	date      TEXT NOT NULL,
	folder_id TEXT NOT NULL,
	PRIMARY KEY (owner_id, date)
);

CREATE TABLE IF NOT EXISTS month_group_dates (
	owner_id       TEXT NOT NULL,
	date           TEXT NOT NULL,
	month_group_id TEXT NOT NULL,
	PRIMARY KEY (owner_id, date)
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TRIGGER IF NOT EXISTS todos_fts_insert AFTER INSERT ON todos BEGIN
	INSERT INTO todos_fts(rowid, content) VALUES (new.rowid, new.content);
END;
CREATE TRIGGER IF NOT EXISTS todos_fts_delete AFTER DELETE ON todos BEGIN
	INSERT INTO todos_fts(todos_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
END;
CREATE TRIGGER IF NOT EXISTS todos_fts_update AFTER UPDATE OF content ON todos BEGIN
	INSERT INTO todos_fts(todos_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
	INSERT INTO todos_fts(rowid, content) VALUES (new.rowid, new.content);
END;

CREATE TRIGGER IF NOT EXISTS notes_fts_insert AFTER INSERT ON notes BEGIN
	INSERT INTO notes_content_fts(rowid, content) VALUES (new.rowid, new.content);
	INSERT INTO notes_title_fts(rowid, title) VALUES (new.rowid, new.title);
END;
CREATE TRIGGER IF NOT EXISTS notes_fts_delete AFTER DELETE ON notes BEGIN
	INSERT INTO notes_content_fts(notes_content_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
	INSERT INTO notes_title_fts(notes_title_fts, rowid, title) VALUES ('delete', old.rowid, old.title);
END;
CREATE TRIGGER IF NOT EXISTS notes_fts_update AFTER UPDATE OF title, content ON notes BEGIN
	INSERT INTO notes_content_fts(notes_content_fts, rowid, content) VALUES ('delete', old.rowid, old.content);
	INSERT INTO notes_title_fts(notes_title_fts, rowid, title) VALUES ('delete', old.rowid, old.title);
	INSERT INTO notes_content_fts(rowid, content) VALUES (new.rowid, new.content);
	INSERT INTO notes_title_fts(rowid, title) VALUES (new.rowid, new.title);
END;

CREATE TRIGGER IF NOT EXISTS chats_fts_insert AFTER INSERT ON chats BEGIN
	INSERT INTO chats_fts(rowid, searchable_content) VALUES (new.rowid, new.searchable_content);
END;
CREATE TRIGGER IF NOT EXISTS chats_fts_delete AFTER DELETE ON chats BEGIN
	INSERT INTO chats_fts(chats_fts, rowid, searchable_content) VALUES ('delete', old.rowid, old.searchable_content);
END;
CREATE TRIGGER IF NOT EXISTS chats_fts_update AFTER UPDATE OF searchable_content ON chats BEGIN
	INSERT INTO chats_fts(chats_fts, rowid, searchable_content) VALUES ('delete', old.rowid, old.searchable_content);
	INSERT INTO chats_fts(rowid, searchable_content) VALUES (new.rowid, new.searchable_content);
END;

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

// migrate checks the current schema version and applies any outstanding
// migrations in order.
func (s *Store) migrate() error {
	currentVersion := 0

	var tableCount int
	if err := s.db.Get(&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	); err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	err := s.db.Get(&v, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	return v, err
}
