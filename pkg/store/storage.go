package store

import (
	"errors"
)

var (
	ErrNotFound      = errors.New("key not found")
	ErrTransactionRO = errors.New("transaction is read-only")
)

// Storage is the key-value backend of an Archive. Keys are namespaced by
// table; the backend only has to offer ordered prefix scans.
type Storage interface {
	Begin(writable bool) (Transaction, error)
	Close() error
	// Sync flushes committed writes to disk
	Sync() error
}

// Transaction sees a consistent snapshot. Writes fail with ErrTransactionRO
// on a read-only transaction.
type Transaction interface {
	Get(table Table, key []byte) ([]byte, error)
	Set(table Table, key, value []byte) error
	Delete(table Table, key []byte) error

	// Scan visits the keys of table that start with prefix, in key order.
	// A nil prefix visits the whole table.
	Scan(table Table, prefix []byte) (Iterator, error)

	Commit() error
	// Rollback discards the transaction; it is safe after Commit
	Rollback() error
}

// Iterator walks the result of a Scan
type Iterator interface {
	Next() bool
	// Key is the current key with the table byte removed
	Key() []byte
	Value() ([]byte, error)
	Close() error
}

// Table is the first byte of every stored key
type Table byte

const (
	// term hash -> term string
	TableID2Str Table = iota

	// quad permutations; the graph position is the run
	TableSPOG
	TablePOSG
	TableOSPG
	TableGSPO

	// run uuid -> JSON run metadata
	TableRuns

	TableCount
)

var tableNames = [TableCount]string{
	TableID2Str: "id2str",
	TableSPOG:   "spog",
	TablePOSG:   "posg",
	TableOSPG:   "ospg",
	TableGSPO:   "gspo",
	TableRuns:   "runs",
}

func (t Table) String() string {
	if t < TableCount {
		return tableNames[t]
	}
	return "unknown"
}

// TablePrefix is the key prefix of a table
func TablePrefix(table Table) []byte {
	return []byte{byte(table)}
}

// PrefixKey returns key namespaced under table
func PrefixKey(table Table, key []byte) []byte {
	out := make([]byte, 0, 1+len(key))
	out = append(out, byte(table))
	return append(out, key...)
}
