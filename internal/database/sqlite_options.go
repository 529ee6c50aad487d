package database

// SynchronousMode represents the available synchronous settings for SQLite
type SynchronousMode string

const (
	SynchronousOff    SynchronousMode = "OFF"
	SynchronousNormal SynchronousMode = "NORMAL"
	SynchronousFull   SynchronousMode = "FULL"
	SynchronousExtra  SynchronousMode = "EXTRA"
)

// JournalMode represents the available journal modes for SQLite
type JournalMode string

const (
	JournalDelete   JournalMode = "DELETE"
	JournalTruncate JournalMode = "TRUNCATE"
	JournalPersist  JournalMode = "PERSIST"
	JournalMemory   JournalMode = "MEMORY"
	JournalWAL      JournalMode = "WAL"
	JournalOff      JournalMode = "OFF"
)

// CacheMode represents the available cache modes for SQLite
type CacheMode string

const (
	CacheShared  CacheMode = "shared"
	CachePrivate CacheMode = "private"
)

// SQLiteOptions contains configuration options for the SQLite connection.
// Mode, Cache and Immutable travel in the connection URI; everything else is
// applied as a PRAGMA after the connection is opened, since the modernc
// driver does not interpret mattn-style underscore parameters.
type SQLiteOptions struct {
	// Path to the SQLite database file
	Path string

	Mode      string    // ro, rw, rwc, memory
	Cache     CacheMode // shared, private
	Immutable bool

	Journal     JournalMode
	ForeignKeys bool
	BusyTimeout int // milliseconds
	CacheSize   int // KB, negative for number of pages
	Synchronous SynchronousMode
}

// NewDefaultOptions creates SQLiteOptions with recommended defaults
func NewDefaultOptions(path string) SQLiteOptions {
	return SQLiteOptions{
		Path:        path,
		Mode:        "rwc",
		Journal:     JournalWAL, // WAL is recommended for better concurrency
		ForeignKeys: true,
		BusyTimeout: 5000,
		CacheSize:   2000,
		Synchronous: SynchronousNormal,
		Cache:       CachePrivate,
	}
}
