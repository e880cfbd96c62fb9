package iocache

import (
	"time"

	"github.com/huangsam/questlog/internal/contract"
	"github.com/huangsam/questlog/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetLibraryStore implements the StoreManager interface.
func (m *MockStoreManager) GetLibraryStore() contract.LibraryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.LibraryStore)
	return store
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// MockLibraryStore is a mock implementation of LibraryStore for testing.
type MockLibraryStore struct {
	mock.Mock
}

var _ contract.LibraryStore = &MockLibraryStore{} // Compile-time check

// ReplaceSnapshot implements the LibraryStore interface.
func (m *MockLibraryStore) ReplaceSnapshot(snap schema.Snapshot, progress contract.ProgressFunc) error {
	args := m.Called(snap, progress)
	if progress != nil {
		for range len(snap.Games) + len(snap.Sessions) {
			progress(1)
		}
	}
	return args.Error(0)
}

// LoadSnapshot implements the LibraryStore interface.
func (m *MockLibraryStore) LoadSnapshot() (schema.Snapshot, error) {
	args := m.Called()
	return args.Get(0).(schema.Snapshot), args.Error(1)
}

// Clear implements the LibraryStore interface.
func (m *MockLibraryStore) Clear() error {
	return m.Called().Error(0)
}

// GetStatus implements the LibraryStore interface.
func (m *MockLibraryStore) GetStatus() (schema.LibraryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.LibraryStatus), args.Error(1)
}

// Close implements the LibraryStore interface.
func (m *MockLibraryStore) Close() error {
	return m.Called().Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(runUUID, command string, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(runUUID, command, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, stats schema.RunStats) error {
	return m.Called(runID, endTime, stats).Error(0)
}

// RecordCallouts implements the RunStore interface.
func (m *MockRunStore) RecordCallouts(runID int64, callouts []schema.Callout) error {
	return m.Called(runID, callouts).Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.InsightRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.InsightRunRecord)
	return runs, args.Error(1)
}

// GetAllCallouts implements the RunStore interface.
func (m *MockRunStore) GetAllCallouts() ([]schema.CalloutRecord, error) {
	args := m.Called()
	callouts, _ := args.Get(0).([]schema.CalloutRecord)
	return callouts, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	return m.Called().Error(0)
}
