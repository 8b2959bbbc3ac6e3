package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("castaways").
		Where(Eq("season_id", "s1"), NotEq("status", "winner"), IsNull("archived_at")).
		OrderBy("name").
		Limit(5).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM castaways WHERE season_id = $1 AND status <> $2 AND archived_at IS NULL ORDER BY name LIMIT 5"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "s1" || args[1] != "winner" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderComparisons(t *testing.T) {
	query, args, err := Select("id").
		From("episodes").
		Where(Eq("season_id", "s1"), Lte("picks_lock_at", int64(1700000000)), Gt("number", 3)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM episodes WHERE season_id = $1 AND picks_lock_at <= $2 AND number > $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderEmptyIn(t *testing.T) {
	query, args, err := Select("id").
		From("weekly_picks").
		Where(In("state", nil)).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id FROM weekly_picks WHERE 1=0"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderSuffixPlaceholders(t *testing.T) {
	query, args, err := InsertInto("scoring_events").
		Columns("id", "quantity").
		Values("ev1", 2).
		Suffix("ON CONFLICT (id) DO UPDATE SET quantity = EXCLUDED.quantity").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO scoring_events (id, quantity) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET quantity = EXCLUDED.quantity"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("weekly_picks").
		Set("state", "locked").
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "p1"), In("state", []any{"open", "selected"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE weekly_picks SET state = $1, updated_at = NOW() WHERE id = $2 AND state IN ($3, $4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "locked" || args[1] != "p1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("league_standings").
		Where(Eq("league_id", "lg1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM league_standings WHERE league_id = $1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "lg1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilderRequiresConditions(t *testing.T) {
	if _, _, err := DeleteFrom("league_standings").ToSQL(); err == nil {
		t.Fatal("expected error for delete without conditions")
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID     string `db:"id"`
		Name   string `db:"name"`
		Ignore string `db:"-"`
	}

	query, args, err := InsertModel("seasons", row{ID: "s1", Name: "Season 1"}, "")
	if err != nil {
		t.Fatalf("build insert from model: %v", err)
	}

	wantQuery := "INSERT INTO seasons (id, name) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "s1" || args[1] != "Season 1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}
