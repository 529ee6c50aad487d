package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildConnectionString(t *testing.T) {
	testCases := []struct {
		name     string
		opts     SQLiteOptions
		expected string
	}{
		{
			name:     "path only",
			opts:     SQLiteOptions{Path: "data/raspored.db"},
			expected: "file:data/raspored.db",
		},
		{
			name:     "mode and cache",
			opts:     SQLiteOptions{Path: "data/raspored.db", Mode: "rwc", Cache: CacheShared},
			expected: "file:data/raspored.db?cache=shared&mode=rwc",
		},
		{
			name:     "immutable",
			opts:     SQLiteOptions{Path: "snapshot.db", Mode: "ro", Immutable: true},
			expected: "file:snapshot.db?immutable=1&mode=ro",
		},
		{
			name:     "existing file prefix kept",
			opts:     SQLiteOptions{Path: "file:raspored.db", Mode: "rw"},
			expected: "file:raspored.db?mode=rw",
		},
		{
			name: "pragma level options stay out of the URI",
			opts: SQLiteOptions{
				Path:        "raspored.db",
				Journal:     JournalWAL,
				ForeignKeys: true,
				BusyTimeout: 5000,
				Synchronous: SynchronousNormal,
			},
			expected: "file:raspored.db",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.opts.buildConnectionString())
		})
	}
}
