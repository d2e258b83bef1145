package config

import (
	"testing"
	"time"

	kit "reqrelay/internal/platform/testkit"
)

func TestPrefixKey(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("PG_")
	if got := c.Key("DBURL"); got != "CORE_PG_DBURL" {
		t.Fatalf("Key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_URL", "  postgres://x  ")
	if got := c.MustString("URL"); got != "postgres://x" {
		t.Fatalf("MustString = %q", got)
	}
	t.Setenv("T_BLANK", "   ")
	kit.MustPanic(t, func() { c.MustString("BLANK") })
	kit.MustPanic(t, func() { c.MustString("UNSET") })
}

func TestMayTyped(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_S", "v")
	t.Setenv("T_N", "42")
	t.Setenv("T_N_BAD", "4x")
	t.Setenv("T_B", "true")
	t.Setenv("T_B_BAD", "sure")
	t.Setenv("T_D", "250ms")
	t.Setenv("T_D_BAD", "soon")

	if got := c.MayString("S", "d"); got != "v" {
		t.Errorf("MayString = %q", got)
	}
	if got := c.MayString("NONE", "d"); got != "d" {
		t.Errorf("MayString default = %q", got)
	}
	if got := c.MayInt("N", 1); got != 42 {
		t.Errorf("MayInt = %d", got)
	}
	if got := c.MayInt("N_BAD", 7); got != 7 {
		t.Errorf("MayInt bad = %d", got)
	}
	if got := c.MayBool("B", false); !got {
		t.Errorf("MayBool = %v", got)
	}
	if got := c.MayBool("B_BAD", true); !got {
		t.Errorf("MayBool bad should fall back")
	}
	if got := c.MayDuration("D", time.Second); got != 250*time.Millisecond {
		t.Errorf("MayDuration = %v", got)
	}
	if got := c.MayDuration("D_BAD", time.Second); got != time.Second {
		t.Errorf("MayDuration bad = %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("T_")
	def := []string{"*"}

	t.Setenv("T_ORIGINS", " http://a , ,http://b ")
	got := c.MayCSV("ORIGINS", def)
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("MayCSV = %v", got)
	}

	t.Setenv("T_ORIGINS", " , ")
	if got := c.MayCSV("ORIGINS", def); len(got) != 1 || got[0] != "*" {
		t.Fatalf("blank items should fall back, got %v", got)
	}
}
