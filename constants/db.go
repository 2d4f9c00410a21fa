package constants

const (
	DefaultDBName = "ccoin"
	DefaultDBAddr = "127.0.0.1:3306"
	DefaultDBUser = "root"

	// DefaultFlushBlocks is how many blocks a full scan processes between
	// store flushes.
	DefaultFlushBlocks = 25

	// DefaultTxCacheSize bounds the provider's transaction cache.
	DefaultTxCacheSize = 10_000
)
