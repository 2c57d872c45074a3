package jobs

import "context"

// Queue is the request-side API of the job system. It only writes and reads
// job rows; rendering happens in the Worker.
type Queue struct {
	store *Store
}

// NewQueue creates a Queue.
func NewQueue(store *Store) *Queue {
	return &Queue{store: store}
}

// Submit validates the filters and enqueues a pending job.
func (q *Queue) Submit(ctx context.Context, filters Filters, submittedBy string) (string, error) {
	if _, err := filters.ListFilter(); err != nil {
		return "", &FilterError{Err: err}
	}
	j, err := q.store.Create(ctx, filters, submittedBy)
	if err != nil {
		return "", err
	}
	return j.ID, nil
}

// Get returns a job snapshot or an error wrapping ErrNotFound.
func (q *Queue) Get(ctx context.Context, id string) (*Job, error) {
	return q.store.GetByID(ctx, id)
}

// FilterError reports filters that cannot be resolved into an audit query.
type FilterError struct {
	Err error
}

func (e *FilterError) Error() string { return "invalid filters: " + e.Err.Error() }

func (e *FilterError) Unwrap() error { return e.Err }
