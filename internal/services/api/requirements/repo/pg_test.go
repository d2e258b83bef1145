package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"reqrelay/internal/modkit/repokit"
	perr "reqrelay/internal/platform/errors"
	"reqrelay/internal/services/api/requirements/domain"
)

type fakeTag struct{}

func (fakeTag) String() string      { return "INSERT 0 1" }
func (fakeTag) RowsAffected() int64 { return 1 }

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *int64:
			*d = r.vals[i].(int64)
		}
	}
	return nil
}

type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Next() bool { r.i++; return r.i <= len(r.rows) }
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.i-1]
	*dest[0].(*string) = row[0].(string)
	*dest[1].(*string) = row[1].(string)
	*dest[2].(**string) = row[2].(*string)
	*dest[3].(*time.Time) = row[3].(time.Time)
	*dest[4].(*bool) = row[4].(bool)
	return nil
}

type fakeQ struct {
	sql    []string
	args   [][]any
	row    fakeRow
	rows   *fakeRows
	execEr error
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return fakeTag{}, f.execEr
}

func (f *fakeQ) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	f.sql = append(f.sql, sql)
	return f.rows, nil
}

func (f *fakeQ) QueryRow(_ context.Context, sql string, args ...any) repokit.Row {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return f.row
}

func TestPG_PutUpsertsSingleSlot(t *testing.T) {
	q := &fakeQ{}
	r := NewPG().Bind(q)
	at := time.Unix(1700000000, 0).UTC()
	if err := r.Put(context.Background(), domain.Entry{ID: "id-1", Content: "c", Target: "p1", CreatedAt: at}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if !strings.Contains(q.sql[0], "ON CONFLICT (slot)") {
		t.Fatalf("expected upsert, got %s", q.sql[0])
	}
	if got := q.args[0]; got[0] != "id-1" || got[1] != "c" || got[2] != "p1" || got[3] != at {
		t.Fatalf("unexpected args %v", got)
	}
}

func TestPG_PutMapsErrors(t *testing.T) {
	q := &fakeQ{execEr: errors.New("down")}
	err := NewPG().Bind(q).Put(context.Background(), domain.Entry{ID: "x"})
	if perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("expected db code, got %v", err)
	}
}

func TestPG_MarkProcessed(t *testing.T) {
	cases := []struct {
		name     string
		present  int64
		updated  int64
		wantOK   bool
		conflict bool
	}{
		{"empty slot", 0, 0, false, false},
		{"marked", 1, 1, true, false},
		{"replaced", 1, 0, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := &fakeQ{row: fakeRow{vals: []any{tc.present, tc.updated}}}
			ok, err := NewPG().Bind(q).MarkProcessed(context.Background(), "id-1")
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !tc.conflict && err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if tc.conflict && perr.CodeOf(err) != perr.ErrorCodeConflict {
				t.Fatalf("code = %v, want conflict", perr.CodeOf(err))
			}
			if q.args[0][0] != "id-1" {
				t.Fatalf("entry id not passed: %v", q.args[0])
			}
			if !strings.Contains(q.sql[0], "m.id::text = $1") || strings.Contains(q.sql[0], "cur.id::text") {
				t.Fatalf("id guard must check the row being updated:\n%s", q.sql[0])
			}
		})
	}
}

func TestPG_PeekEmptyAndPresent(t *testing.T) {
	q := &fakeQ{rows: &fakeRows{}}
	if _, ok, err := NewPG().Bind(q).Peek(context.Background()); ok || err != nil {
		t.Fatalf("empty table should peek nothing, ok=%v err=%v", ok, err)
	}

	target := "p1"
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	q = &fakeQ{rows: &fakeRows{rows: [][]any{{"id-1", "body", &target, at, true}}}}
	got, ok, err := NewPG().Bind(q).Peek(context.Background())
	if err != nil || !ok {
		t.Fatalf("peek: ok=%v err=%v", ok, err)
	}
	want := domain.Entry{ID: "id-1", Content: "body", Target: "p1", CreatedAt: at, Processed: true}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
