package query

import (
	"context"
	"fmt"
	"regexp"

	"github.com/hashicorp/go-version"

	"github.com/ashenguard/easysql/dialect"
	"github.com/ashenguard/easysql/sqlerr"
)

// VersionReporter reports the server version string.
type VersionReporter interface {
	ServerVersion(ctx context.Context) (string, error)
}

var leadingVersion = regexp.MustCompile(`^\d+(\.\d+)*`)

// ParseServerVersion extracts the leading dotted version from a server
// banner such as "8.0.36-0ubuntu0.22.04.1" or "16.2 (Debian 16.2-1)".
func ParseServerVersion(banner string) (*version.Version, error) {
	v := leadingVersion.FindString(banner)
	if v == "" {
		return nil, sqlerr.TypeMismatch("unrecognised server version %q", banner)
	}
	return version.NewVersion(v)
}

// UpsertSupport reports whether the server behind r accepts the upsert
// clause of dialect d.
func UpsertSupport(ctx context.Context, r VersionReporter, d dialect.Dialect) (bool, error) {
	banner, err := r.ServerVersion(ctx)
	if err != nil {
		return false, sqlerr.Execution("version", "", err)
	}
	v, err := ParseServerVersion(banner)
	if err != nil {
		return false, err
	}
	constraint, err := version.NewConstraint(fmt.Sprintf(">= %s", d.MinUpsertVersion()))
	if err != nil {
		return false, err
	}
	return constraint.Check(v), nil
}
