package ch

import (
	"context"
	"errors"
	"testing"

	perr "reqrelay/internal/platform/errors"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

type fakeConn struct {
	pingErr  error
	batchErr error
	execSQL  string
	closed   bool
}

func (f *fakeConn) Ping(context.Context) error { return f.pingErr }
func (f *fakeConn) Exec(_ context.Context, q string, _ ...any) error {
	f.execSQL = q
	return nil
}
func (f *fakeConn) Query(context.Context, string, ...any) (driver.Rows, error) {
	return nil, errors.New("no rows in fake")
}
func (f *fakeConn) PrepareBatch(context.Context, string, ...driver.PrepareBatchOption) (driver.Batch, error) {
	return nil, f.batchErr
}
func (f *fakeConn) Close() error { f.closed = true; return nil }

func withDial(t *testing.T, fc *fakeConn) {
	t.Helper()
	orig := dial
	dial = func(*clickhouse.Options) (conn, error) { return fc, nil }
	t.Cleanup(func() { dial = orig })
}

func TestOpen_RequiresURL(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestOpen_PingFailureClosesConn(t *testing.T) {
	fc := &fakeConn{pingErr: errors.New("refused")}
	withDial(t, fc)

	_, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/default"})
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if !fc.closed {
		t.Fatalf("conn should be closed after failed ping")
	}
}

func TestInsert_EmptyIsNoop(t *testing.T) {
	fc := &fakeConn{batchErr: errors.New("should not be called")}
	c := &CH{conn: fc}
	if err := c.Insert(context.Background(), "relay_frames", nil); err != nil {
		t.Fatalf("empty insert: %v", err)
	}
}

func TestInsert_PrepareErrorIsDB(t *testing.T) {
	fc := &fakeConn{batchErr: errors.New("table missing")}
	withDial(t, fc)

	c, err := Open(context.Background(), Config{URL: "clickhouse://localhost:9000/default", Role: "api"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	err = c.Insert(context.Background(), "relay_frames", [][]any{{"a"}})
	if perr.CodeOf(err) != perr.ErrorCodeDB {
		t.Fatalf("expected db error, got %v", err)
	}
	if err := c.Exec(context.Background(), "SELECT 1"); err != nil || fc.execSQL != "SELECT 1" {
		t.Fatalf("exec passthrough failed: %v %q", err, fc.execSQL)
	}
	if err := c.Close(); err != nil || !fc.closed {
		t.Fatalf("close passthrough failed")
	}
}

func TestBuildClientInfo_Products(t *testing.T) {
	info := BuildClientInfo(" api ", "v1")
	if len(info.Products) == 0 || info.Products[0].Name != "reqrelay" || info.Products[1].Version != "api" {
		t.Fatalf("unexpected products: %+v", info.Products)
	}
}
