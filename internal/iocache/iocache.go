// Package iocache persists the game library and the history of analytics runs.
package iocache

import (
	"sync"

	"github.com/huangsam/questlog/internal/contract"
)

// StoreManagerImpl manages the library and run stores.
type StoreManagerImpl struct {
	sync.RWMutex // Protects the store pointers during initialization
	library      contract.LibraryStore
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManagerImpl{} // Compile-time check

// GetLibraryStore returns the library store, or nil when none was configured.
func (mgr *StoreManagerImpl) GetLibraryStore() contract.LibraryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.library
}

// GetRunStore returns the run store, or nil when run tracking is off.
func (mgr *StoreManagerImpl) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
