package callback

import "strconv"

// CheckpointStore is the destination a CheckpointSaver writes to. Keys are
// string-encoded iteration numbers. Append must not return before the
// record is durable: checkpoints exist to survive a crash mid-run, so
// implementations open the destination, write, flush, and close within
// each call rather than holding an open handle between invocations. The
// checkpoint package provides filesystem and SQLite implementations.
type CheckpointStore interface {
	Append(key string, value any) error
}

// TransformFunc converts the opaque optimization state into the value
// persisted for a checkpoint, typically trimming it to the fields worth
// keeping.
type TransformFunc func(state any) (any, error)

// CheckpointSaver is an action that persists a transformed snapshot of the
// optimization state on every firing, keyed by the iteration number.
type CheckpointSaver struct {
	noReset
	store     CheckpointStore
	transform TransformFunc
}

// SaverOption configures a CheckpointSaver at construction time.
type SaverOption func(*CheckpointSaver)

// WithTransform sets the snapshot transform. The default persists the
// state unchanged.
func WithTransform(transform TransformFunc) SaverOption {
	return func(s *CheckpointSaver) {
		if transform != nil {
			s.transform = transform
		}
	}
}

// NewCheckpointSaver creates a saver writing to store. Destination
// validation (refusing to clobber an existing file unless overwrite was
// requested) happens when the store is opened, before the optimization
// loop starts.
func NewCheckpointSaver(store CheckpointStore, opts ...SaverOption) *CheckpointSaver {
	s := &CheckpointSaver{
		store:     store,
		transform: identityTransform,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func identityTransform(state any) (any, error) {
	return state, nil
}

// Apply writes transform(state) under the key strconv.Itoa(t). Transform
// and store errors are propagated unmodified.
func (s *CheckpointSaver) Apply(state any, _ float64, t int, _ any) error {
	value, err := s.transform(state)
	if err != nil {
		return err
	}
	return s.store.Append(strconv.Itoa(t), value)
}
