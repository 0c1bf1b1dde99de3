// Package recordstore provides namespaced storage of record collections
// backed by a single JSON file. Each mutating call persists the full
// updated namespace before it returns; when the write fails the in-memory
// view is left untouched and the caller gets ErrStorage.
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// ErrStorage wraps any persistence layer failure (initial read, decode,
// file write). The attempted operation is fatal but the store stays usable.
var ErrStorage = errors.New("record store failure")

// Store is the consumer-side contract of the record store. Collections are
// addressed by a string namespace; a namespace that has never been written
// reads as an empty collection.
type Store interface {
	List(ctx context.Context, namespace string, dst any) error
	Put(ctx context.Context, namespace string, records any) error
	Namespaces(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// JSONStore keeps every namespace as a raw JSON array in a single file.
// With an empty file name it degrades to a purely in-memory store.
type JSONStore struct {
	fileName string
	mu       sync.RWMutex
	cache    map[string]json.RawMessage
}

func initStoreFile(fileName string) error {
	storeFile, err := os.OpenFile(fileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(storeFile, `{}`)
	if err != nil {
		return err
	}
	return storeFile.Close()
}

func writeToJSONFile(fileName string, namespaces map[string]json.RawMessage) error {
	jsonData, err := json.MarshalIndent(namespaces, "", "\t")
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}

	file, err := os.OpenFile(fileName, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	_, err = file.Write(jsonData)
	if err != nil {
		return fmt.Errorf("error writing to file: %w", err)
	}

	return nil
}

func parseJSONFile(fileName string, namespaces *map[string]json.RawMessage) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	return decoder.Decode(namespaces)
}

// NewFile opens (or creates) the store file and loads all namespaces.
func NewFile(fileName string) (*JSONStore, error) {
	store := &JSONStore{
		fileName: fileName,
		cache:    map[string]json.RawMessage{},
	}

	err := parseJSONFile(store.fileName, &store.cache)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		err := initStoreFile(fileName)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
		err = parseJSONFile(store.fileName, &store.cache)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}
	if store.cache == nil {
		store.cache = map[string]json.RawMessage{}
	}

	return store, nil
}

// NewMemory returns a store that never touches the filesystem.
// Used by tests and by configurations without a storage file.
func NewMemory() *JSONStore {
	return &JSONStore{
		cache: map[string]json.RawMessage{},
	}
}

func (s *JSONStore) persist(namespaces map[string]json.RawMessage) error {
	if s.fileName == "" {
		return nil
	}
	if err := writeToJSONFile(s.fileName, namespaces); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// List decodes the namespace's records into dst, which must be a pointer
// to a slice. A namespace that has never been written leaves dst empty.
// Records that fail to decode surface as ErrStorage.
func (s *JSONStore) List(ctx context.Context, namespace string, dst any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.cache[namespace]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: decoding namespace %q: %w", ErrStorage, namespace, err)
	}
	return nil
}

// Put replaces the namespace's whole collection and synchronously persists
// the updated store. On a failed write the previous in-memory state is kept.
func (s *JSONStore) Put(ctx context.Context, namespace string, records any) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encoding namespace %q: %w", ErrStorage, namespace, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make(map[string]json.RawMessage, len(s.cache)+1)
	for ns, v := range s.cache {
		updated[ns] = v
	}
	updated[namespace] = raw

	if err := s.persist(updated); err != nil {
		return err
	}
	s.cache = updated

	return nil
}

// Namespaces returns the namespaces that start with prefix, sorted.
func (s *JSONStore) Namespaces(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []string
	for ns := range s.cache {
		if strings.HasPrefix(ns, prefix) {
			result = append(result, ns)
		}
	}
	sort.Strings(result)

	return result, nil
}

// Close flushes the current state to the store file.
func (s *JSONStore) Close() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.persist(s.cache)
}

// List reads the namespace's collection as a typed slice.
func List[T any](ctx context.Context, s Store, namespace string) ([]T, error) {
	var records []T
	if err := s.List(ctx, namespace, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FindOne returns the first record matching pred, in storage order.
func FindOne[T any](ctx context.Context, s Store, namespace string, pred func(T) bool) (T, bool, error) {
	var zero T
	records, err := List[T](ctx, s, namespace)
	if err != nil {
		return zero, false, err
	}
	for _, record := range records {
		if pred(record) {
			return record, true, nil
		}
	}
	return zero, false, nil
}

// UpsertOne replaces the record whose key matches record's key, or appends
// the record when absent, then persists the namespace.
func UpsertOne[T any](ctx context.Context, s Store, namespace string, record T, key func(T) string) error {
	records, err := List[T](ctx, s, namespace)
	if err != nil {
		return err
	}

	replaced := false
	for i, existing := range records {
		if key(existing) == key(record) {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}

	return s.Put(ctx, namespace, records)
}

// DeleteWhere removes all records matching pred and returns the survivors.
func DeleteWhere[T any](ctx context.Context, s Store, namespace string, pred func(T) bool) ([]T, error) {
	records, err := List[T](ctx, s, namespace)
	if err != nil {
		return nil, err
	}

	survivors := make([]T, 0, len(records))
	for _, record := range records {
		if !pred(record) {
			survivors = append(survivors, record)
		}
	}

	if err := s.Put(ctx, namespace, survivors); err != nil {
		return nil, err
	}

	return survivors, nil
}
