package store

import (
	"context"
	"sync"

	"github.com/stashkeep/recordpipe"
)

// MockSource is a configurable mock implementation of Source for use in
// tests. It allows setting up expected return values, tracking method calls,
// and injecting errors for testing error paths.
type MockSource struct {
	mu sync.RWMutex

	// BoundsFunc is called by Bounds if set.
	BoundsFunc func(ctx context.Context) (int64, int64, error)

	// ScanSegmentFunc is called by ScanSegment if set.
	ScanSegmentFunc func(ctx context.Context, seg recordpipe.Segment, fn func(recordpipe.SourceRecord) error) error

	// Call tracking
	BoundsCalls      int
	ScanSegmentCalls []recordpipe.Segment
}

// Compile-time check that MockSource implements Source.
var _ Source = (*MockSource)(nil)

// Bounds implements Source. Without BoundsFunc it returns ErrEmptySource.
func (m *MockSource) Bounds(ctx context.Context) (int64, int64, error) {
	m.mu.Lock()
	m.BoundsCalls++
	m.mu.Unlock()

	if m.BoundsFunc != nil {
		return m.BoundsFunc(ctx)
	}
	return 0, 0, ErrEmptySource
}

// ScanSegment implements Source. Without ScanSegmentFunc it yields nothing.
func (m *MockSource) ScanSegment(ctx context.Context, seg recordpipe.Segment, fn func(recordpipe.SourceRecord) error) error {
	m.mu.Lock()
	m.ScanSegmentCalls = append(m.ScanSegmentCalls, seg)
	m.mu.Unlock()

	if m.ScanSegmentFunc != nil {
		return m.ScanSegmentFunc(ctx, seg, fn)
	}
	return nil
}

// MockDestination is a configurable mock implementation of Destination for
// use in tests.
type MockDestination struct {
	mu sync.RWMutex

	// MigrateRecordFunc is called by MigrateRecord if set.
	MigrateRecordFunc func(ctx context.Context, rec recordpipe.SourceRecord) (bool, error)

	// Call tracking
	MigrateRecordCalls []recordpipe.SourceRecord
}

// Compile-time check that MockDestination implements Destination.
var _ Destination = (*MockDestination)(nil)

// MigrateRecord implements Destination. Without MigrateRecordFunc it reports
// a successful write.
func (m *MockDestination) MigrateRecord(ctx context.Context, rec recordpipe.SourceRecord) (bool, error) {
	m.mu.Lock()
	m.MigrateRecordCalls = append(m.MigrateRecordCalls, rec)
	m.mu.Unlock()

	if m.MigrateRecordFunc != nil {
		return m.MigrateRecordFunc(ctx, rec)
	}
	return true, nil
}

// Calls returns a copy of the recorded MigrateRecord calls.
func (m *MockDestination) Calls() []recordpipe.SourceRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]recordpipe.SourceRecord, len(m.MigrateRecordCalls))
	copy(out, m.MigrateRecordCalls)
	return out
}
