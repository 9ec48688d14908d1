package database

import (
	"strings"
	"testing"
)

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
		{
			name:  "single placeholder",
			query: "SELECT * FROM users WHERE user_id = ?",
			want:  "SELECT * FROM users WHERE user_id = $1",
		},
		{
			name:  "multiple placeholders",
			query: "INSERT INTO saves (user_id, game_id, payload) VALUES (?, ?, ?)",
			want:  "INSERT INTO saves (user_id, game_id, payload) VALUES ($1, $2, $3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectRewriteQuery(t *testing.T) {
	query := "SELECT * FROM game_stats WHERE user_id = ? AND game_id = ?"

	if got := (&SQLiteDialect{}).RewriteQuery(query); got != query {
		t.Errorf("sqlite rewrote query: %q", got)
	}
	if got := (&MySQLDialect{}).RewriteQuery(query); got != query {
		t.Errorf("mysql rewrote query: %q", got)
	}
	if got := (&PostgresDialect{}).RewriteQuery(query); !strings.Contains(got, "$2") {
		t.Errorf("postgres rewrite missing numbered placeholders: %q", got)
	}
}

func TestUpsertClause(t *testing.T) {
	keys := []string{"user_id", "game_id"}
	updates := []string{"payload", "updated_at"}

	sqlite := (&SQLiteDialect{}).UpsertClause(keys, updates)
	if sqlite != "ON CONFLICT(user_id, game_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at" {
		t.Errorf("sqlite clause = %q", sqlite)
	}

	postgres := (&PostgresDialect{}).UpsertClause(keys, updates)
	if postgres != "ON CONFLICT (user_id, game_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at" {
		t.Errorf("postgres clause = %q", postgres)
	}

	mysql := (&MySQLDialect{}).UpsertClause(keys, updates)
	if mysql != "ON DUPLICATE KEY UPDATE payload = VALUES(payload), updated_at = VALUES(updated_at)" {
		t.Errorf("mysql clause = %q", mysql)
	}
}

func TestDialectMigrationsSubdir(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{dialect: &SQLiteDialect{}, want: "sqlite"},
		{dialect: &PostgresDialect{}, want: "postgres"},
		{dialect: &MySQLDialect{}, want: "mysql"},
	}
	for _, tt := range tests {
		if got := tt.dialect.MigrationsSubdir(); got != tt.want {
			t.Errorf("MigrationsSubdir = %q, want %q", got, tt.want)
		}
	}
}
