package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder collects callback invocations across goroutines.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *recorder) index(call string) int {
	for i, c := range r.list() {
		if c == call {
			return i
		}
	}
	return -1
}

type fakeService struct {
	*BaseService
}

func newLocal(t *testing.T, rec *recorder, name string, deps ...string) *fakeService {
	t.Helper()
	base, err := NewLocalService(name, deps, func(context.Context, Settings) error {
		rec.add("init:" + name)
		return nil
	})
	require.NoError(t, err)
	return &fakeService{BaseService: base}
}

func newPublic(t *testing.T, rec *recorder, name string, deps ...string) *fakeService {
	t.Helper()
	base, err := NewPublicService(name, deps,
		func(context.Context, Settings) error {
			rec.add("init:" + name)
			return nil
		},
		func(context.Context, func()) error {
			rec.add("connect:" + name)
			return nil
		},
	)
	require.NoError(t, err)
	return &fakeService{BaseService: base}
}

func newPrivate(t *testing.T, rec *recorder, name string, deps ...string) *fakeService {
	t.Helper()
	base, err := NewPrivateService(name, deps,
		func(context.Context, Settings) error {
			rec.add("init:" + name)
			return nil
		},
		func(context.Context, func()) error {
			rec.add("connect:" + name)
			return nil
		},
		func(context.Context, func()) error {
			rec.add("auth:" + name)
			return nil
		},
	)
	require.NoError(t, err)
	return &fakeService{BaseService: base}
}
