package ch

import (
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// BuildClientInfo names this process in system.query_log
// role is the binary, e.g. "api"; tag is the release version
func BuildClientInfo(role, tag string) clickhouse.ClientInfo {
	host, _ := os.Hostname()
	info := clickhouse.ClientInfo{}
	for _, p := range [][2]string{
		{"reqrelay", tag},
		{"role", role},
		{"go", runtime.Version()},
		{"commit", revision()},
		{"host", host},
	} {
		info.Products = append(info.Products, struct{ Name, Version string }{p[0], strings.TrimSpace(p[1])})
	}
	return info
}

// revision is the short vcs revision stamped by the go tool, "unknown" outside a checkout
func revision() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return "unknown"
}
