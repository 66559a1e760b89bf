// Package catalog owns the per-session asset catalog: uploaded images,
// the display names designs refer to them by, and the locators a render
// surface can load them from.
//
// A Catalog is an explicit value created by Open and passed to whoever
// needs it. It loads its entries from a Store once, keeps them in memory
// newest first, and writes the full list back after every mutation.
// Bytes live in a BlobStore, which hands out the locators.
//
// Stores:
//
//	FileStore    - YAML document on disk
//	RedisStore   - JSON value under one key
//	SQLiteStore  - JSON value in a key/value table
//	MemoryStore  - process-local, for tests and throwaway sessions
package catalog
