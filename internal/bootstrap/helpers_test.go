package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// fakeBackend is an in-memory Backend that records every call.
type fakeBackend struct {
	mu         sync.Mutex
	calls      []string
	namespaces map[string]bool
	tables     map[string][]Row
	current    string
	closed     bool

	// failOn makes the named method return failErr.
	failOn  string
	failErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		namespaces: map[string]bool{},
		tables:     map[string][]Row{},
	}
}

func (f *fakeBackend) record(call string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.failOn == call {
		return f.failErr
	}
	return nil
}

func (f *fakeBackend) CreateNamespace(_ context.Context, name string) error {
	if err := f.record("CreateNamespace"); err != nil {
		return err
	}
	f.namespaces[name] = true
	return nil
}

func (f *fakeBackend) UseNamespace(_ context.Context, name string) error {
	if err := f.record("UseNamespace"); err != nil {
		return err
	}
	if !f.namespaces[name] {
		return fmt.Errorf("database %s does not exist", name)
	}
	f.current = name
	return nil
}

func (f *fakeBackend) CreateTable(_ context.Context, schema TableSchema) error {
	if err := f.record("CreateTable"); err != nil {
		return err
	}
	key := f.current + "." + schema.Name
	if _, ok := f.tables[key]; !ok {
		f.tables[key] = []Row{}
	}
	return nil
}

func (f *fakeBackend) Insert(_ context.Context, table string, rows []Row) error {
	if err := f.record("Insert"); err != nil {
		return err
	}
	key := f.current + "." + table
	if _, ok := f.tables[key]; !ok {
		return fmt.Errorf("table %s does not exist", key)
	}
	f.tables[key] = append(f.tables[key], rows...)
	return nil
}

func (f *fakeBackend) SelectAll(_ context.Context, table string) ([]Row, error) {
	if err := f.record("SelectAll"); err != nil {
		return nil, err
	}
	key := f.current + "." + table
	rows, ok := f.tables[key]
	if !ok {
		return nil, fmt.Errorf("table %s does not exist", key)
	}
	return append([]Row(nil), rows...), nil
}

func (f *fakeBackend) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// connectTo returns a ConnectFunc that always yields b.
func connectTo(b Backend) ConnectFunc {
	return func(context.Context, string) (Backend, error) {
		return b, nil
	}
}

var errRefused = errors.New("dial tcp 127.0.0.1:9: connect: connection refused")

func failingConnect(context.Context, string) (Backend, error) {
	return nil, errRefused
}
