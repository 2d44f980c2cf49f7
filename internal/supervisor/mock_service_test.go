// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService fails a configured number of times, then runs until its
// context is cancelled.
type mockService struct {
	name       string
	failures   int32
	startCount atomic.Int32
	running    atomic.Bool
}

func (m *mockService) Serve(ctx context.Context) error {
	n := m.startCount.Add(1)
	if n <= m.failures {
		return errors.New("simulated failure")
	}
	m.running.Store(true)
	defer m.running.Store(false)
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }
