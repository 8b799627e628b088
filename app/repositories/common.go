package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

var (
	// ErrNotFound is returned for any operation that targets a missing id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint would be violated.
	ErrConflict = errors.New("record conflicts with an existing one")
	// ErrTimeout is returned when the store stays busy past the retry or the
	// call's deadline. The operation did not apply and may be retried.
	ErrTimeout = errors.New("storage timeout")
	// ErrInvalid wraps model validation failures.
	ErrInvalid = errors.New("invalid record")
)

const (
	// Key prefixes for different entity types. Numeric parts are zero
	// padded so that lexical key order is id order.
	ProjectKeyPrefix    = "project:"    // project:<id>
	CommentKeyPrefix    = "comment:"    // comment:<projectID>:<id>
	ReplyKeyPrefix      = "reply:"      // reply:<commentID>:<id>
	CommentRefKeyPrefix = "commentref:" // commentref:<id> -> projectID
	ThreadKeyPrefix     = "thread:"     // thread:<projectID> -> threadStats
	AdminKeyPrefix      = "admin:"      // admin:<id>
	AdminLoginKeyPrefix = "adminlogin:" // adminlogin:<username> -> id

	// Sequence keys for auto-incrementing IDs
	ProjectSeqKey = "seq:project"
	CommentSeqKey = "seq:comment"
	ReplySeqKey   = "seq:reply"
	AdminSeqKey   = "seq:admin"
)

func idPart(id int) string {
	return fmt.Sprintf("%010d", id)
}

func projectKey(id int) []byte {
	return []byte(ProjectKeyPrefix + idPart(id))
}

func commentPrefix(projectID int) []byte {
	return []byte(CommentKeyPrefix + idPart(projectID) + ":")
}

func commentKey(projectID, id int) []byte {
	return append(commentPrefix(projectID), idPart(id)...)
}

func commentRefKey(id int) []byte {
	return []byte(CommentRefKeyPrefix + idPart(id))
}

func replyPrefix(commentID int) []byte {
	return []byte(ReplyKeyPrefix + idPart(commentID) + ":")
}

func replyKey(commentID, id int) []byte {
	return append(replyPrefix(commentID), idPart(id)...)
}

func threadKey(projectID int) []byte {
	return []byte(ThreadKeyPrefix + idPart(projectID))
}

func adminKey(id int) []byte {
	return []byte(AdminKeyPrefix + idPart(id))
}

func adminLoginKey(username string) []byte {
	return []byte(AdminLoginKeyPrefix + strings.ToLower(username))
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads key into entity, mapping a missing key to ErrNotFound.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

// setEntity marshals entity and stores it under key.
func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// getInt reads a decimal integer value, as written by setInt.
func getInt(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var n int
	err = item.Value(func(val []byte) error {
		parsed, perr := strconv.Atoi(string(val))
		if perr != nil {
			return fmt.Errorf("failed to parse %s: %w", key, perr)
		}
		n = parsed
		return nil
	})
	return n, err
}

func setInt(txn *badger.Txn, key []byte, n int) error {
	return txn.Set(key, []byte(strconv.Itoa(n)))
}

// listKeys collects every key under prefix. Values are not fetched.
func listKeys(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

// eachEntity decodes every value under prefix, in key order, and hands a
// fresh *T to fn for each.
func eachEntity[T any](txn *badger.Txn, prefix []byte, fn func(*T)) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		entity := new(T)
		if err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, entity)
		}); err != nil {
			return err
		}
		fn(entity)
	}
	return nil
}
