package database

import (
	"net/url"
	"strings"
)

// buildConnectionString generates the SQLite connection URI from options.
// Only parameters the URI layer understands are emitted here; PRAGMA-level
// settings are applied separately once the connection is open.
func (opts *SQLiteOptions) buildConnectionString() string {
	params := url.Values{}

	if opts.Mode != "" {
		params.Set("mode", opts.Mode)
	}
	if opts.Cache != "" {
		params.Set("cache", string(opts.Cache))
	}
	if opts.Immutable {
		params.Set("immutable", "1")
	}

	connStr := opts.Path
	if !strings.HasPrefix(connStr, "file:") {
		connStr = "file:" + connStr
	}
	if encoded := params.Encode(); encoded != "" {
		connStr += "?" + encoded
	}

	return connStr
}
