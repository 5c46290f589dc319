package interfaces

// PersisterInterface flushes the current snapshot to disk. The write must be
// complete (or failed) by the time Persist returns.
type PersisterInterface interface {
	Persist() error
}
