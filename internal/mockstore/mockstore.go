// Package mockstore provides a testify-based mock implementation of the
// record store contract. It is used to simulate storage failures that are
// hard to provoke through the real file-backed store.
package mockstore

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// StoreMock is a testify mock implementing recordstore.Store.
type StoreMock struct {
	mock.Mock
}

// List mocks reading a namespace's collection into dst.
func (m *StoreMock) List(ctx context.Context, namespace string, dst any) error {
	args := m.Called(ctx, namespace, dst)
	return args.Error(0)
}

// Put mocks replacing and persisting a namespace's collection.
func (m *StoreMock) Put(ctx context.Context, namespace string, records any) error {
	args := m.Called(ctx, namespace, records)
	return args.Error(0)
}

// Namespaces mocks enumerating namespaces by prefix.
func (m *StoreMock) Namespaces(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	namespaces, _ := args.Get(0).([]string)
	return namespaces, args.Error(1)
}

// Close mocks flushing the store.
func (m *StoreMock) Close() error {
	args := m.Called()
	return args.Error(0)
}
