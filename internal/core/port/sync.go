package port

import "context"

// SyncService is an interface to define network-triggered resynchronization
// of persisted pending items.
type SyncService interface {
	// Run blocks, driving sync passes off connectivity transitions and the
	// periodic ticker, until ctx is cancelled.
	Run(ctx context.Context)
	// SyncPass processes all currently pending persisted items once.
	// It returns domain.ErrSyncInProgress if a pass is already running.
	SyncPass(ctx context.Context) (uploaded int, err error)
	HasPending(ctx context.Context) (bool, error)
}

// NetworkMonitor is an interface to define an online/offline signal source
type NetworkMonitor interface {
	Online() bool
	// Transitions emits the new connectivity state on each change.
	Transitions() <-chan bool
	Close() error
}
