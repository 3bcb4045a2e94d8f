package catalog_repo

import (
	"testing"

	"github.com/Masterminds/squirrel"
)

func newTestRepo() *BaseCatalogRepo[any] {
	return NewBaseCatalogRepo[any](nil, "test_table", []string{"id", "code", "name"}, func() any { return nil })
}

func TestBaseSelect_SQL(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name     string
		build    func() squirrel.SelectBuilder
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "plain",
			build:    repo.baseSelect,
			wantSQL:  "SELECT id, code, name FROM test_table",
			wantArgs: nil,
		},
		{
			name: "undeleted only",
			build: func() squirrel.SelectBuilder {
				return repo.baseSelect().Where(squirrel.Eq{"deletion_mark": false})
			},
			wantSQL:  "SELECT id, code, name FROM test_table WHERE deletion_mark = $1",
			wantArgs: []any{false},
		},
		{
			name: "search on name or code",
			build: func() squirrel.SelectBuilder {
				return repo.baseSelect().Where(squirrel.Or{
					squirrel.ILike{"name": "%bolt%"},
					squirrel.ILike{"code": "%bolt%"},
				})
			},
			wantSQL:  "SELECT id, code, name FROM test_table WHERE (name ILIKE $1 OR code ILIKE $2)",
			wantArgs: []any{"%bolt%", "%bolt%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.build().ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args count mismatch\nwant: %d\ngot:  %d", len(tt.wantArgs), len(args))
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("arg %d mismatch\nwant: %v\ngot:  %v", i, tt.wantArgs[i], args[i])
				}
			}
		})
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "empty defaults to name", orderBy: "", want: "name"},
		{name: "plain column", orderBy: "code", want: "code"},
		{name: "column with direction", orderBy: "code desc", want: "code DESC"},
		{name: "ascending normalized", orderBy: "name asc", want: "name ASC"},
		{name: "unknown column rejected", orderBy: "balance", wantErr: true},
		{name: "injection rejected", orderBy: "name; DROP TABLE test_table", wantErr: true},
		{name: "bad direction rejected", orderBy: "name sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %q, got %q", tt.want, got)
			}
		})
	}
}
