// Package store owns the client-side application state: the list of students
// and the UI flags around it.
//
// The Store is the only component that mutates State. Every change goes
// through Reduce, so the transitions of an asynchronous operation are plain
// values: a Pending action before the request and a Fulfilled or Rejected
// action after it. Views read snapshots via State or Subscribe.
package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/aanand-mishra/students-manager/internal/client"
	"github.com/aanand-mishra/students-manager/internal/types"
	"github.com/aanand-mishra/students-manager/internal/validation"
)

// API is the subset of the transport the store needs. *client.Client
// satisfies it.
type API interface {
	List(ctx context.Context) ([]types.Student, error)
	Create(ctx context.Context, in types.StudentInput) (types.Student, error)
	Update(ctx context.Context, id int64, in types.StudentInput) (types.Student, error)
	Remove(ctx context.Context, id int64) error
}

var _ API = (*client.Client)(nil)

// Listener receives a snapshot after every transition. Listeners are called
// in transition order, one at a time, and must not call back into
// transitions of the same Store synchronously. A panic in a listener reaches
// the caller of the transition; the state change itself has already been
// applied.
type Listener func(State)

// Store is safe for concurrent use.
type Store struct {
	api        API
	log        *slog.Logger
	staleGuard bool

	mu        sync.Mutex
	state     State
	seq       uint64
	listGen   uint64
	recordGen map[int64]uint64
	nextSub   int
	listeners map[int]Listener

	// Listener calls are delivered in ticket order without holding mu, so a
	// listener may read State.
	notifyMu  sync.Mutex
	notified  *sync.Cond
	ticket    uint64
	delivered uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithStaleGuard controls whether responses superseded by a newer request for
// the same record (or a newer list fetch) are discarded. Enabled by default.
// Disabled, whichever response arrives last wins.
func WithStaleGuard(enabled bool) Option {
	return func(s *Store) { s.staleGuard = enabled }
}

// New returns a Store with an empty student list and the form closed.
func New(api API, opts ...Option) *Store {
	s := &Store{
		api:        api,
		log:        slog.Default(),
		staleGuard: true,
		state:      State{Students: []types.Student{}},
		recordGen:  make(map[int64]uint64),
		listeners:  make(map[int]Listener),
	}
	s.notified = sync.NewCond(&s.notifyMu)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Dispatch applies a single action. The async operations below use it for
// each of their phases; views use it through the synchronous helpers.
func (s *Store) Dispatch(a Action) {
	s.transition(func() Action { return a })
}

// transition runs next under the state lock and applies the action it
// returns. A nil action leaves the state untouched.
func (s *Store) transition(next func() Action) {
	s.mu.Lock()
	a := next()
	if a == nil {
		s.mu.Unlock()
		return
	}
	s.state = Reduce(s.state, a)
	snap := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.ticket++
	ticket := s.ticket
	s.mu.Unlock()

	s.log.Debug("state transition", slog.String("action", a.Name()))

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	for s.delivered != ticket-1 {
		s.notified.Wait()
	}
	// A panicking listener must not stall later transitions.
	defer func() {
		s.delivered = ticket
		s.notified.Broadcast()
	}()
	for _, l := range listeners {
		l(snap)
	}
}

// OpenForm shows the form in create mode unless an edit is already staged.
func (s *Store) OpenForm() { s.Dispatch(OpenForm{}) }

// CloseForm hides the form and leaves edit mode.
func (s *Store) CloseForm() { s.Dispatch(CloseForm{}) }

// BeginEdit shows the form pre-filled with st.
func (s *Store) BeginEdit(st types.Student) { s.Dispatch(BeginEdit{Student: st}) }

// ClearError removes the current error message.
func (s *Store) ClearError() { s.Dispatch(ClearError{}) }

// FetchAll replaces the student list with the backend's.
func (s *Store) FetchAll(ctx context.Context) error {
	var gen uint64
	s.transition(func() Action {
		s.seq++
		s.listGen = s.seq
		gen = s.listGen
		return FetchAllPending{}
	})

	students, err := s.api.List(ctx)

	s.transition(func() Action {
		if s.staleGuard && gen != s.listGen {
			s.log.Debug("discarding superseded list response")
			return nil
		}
		if err != nil {
			msg := client.Message(err, client.MsgFetchStudents)
			s.log.Warn("fetch students failed", slog.String("error", err.Error()))
			return FetchAllRejected{Message: msg}
		}
		return FetchAllFulfilled{Students: students}
	})
	return err
}

// Retry clears the error and fetches the list again.
func (s *Store) Retry(ctx context.Context) error {
	s.ClearError()
	return s.FetchAll(ctx)
}

// Create adds a student. On success the form closes; on failure it stays open
// so the user can resubmit without retyping.
func (s *Store) Create(ctx context.Context, in types.StudentInput) error {
	s.Dispatch(CreatePending{})

	st, err := s.api.Create(ctx, in)
	if err != nil {
		s.log.Warn("create student failed", slog.String("error", err.Error()))
		s.Dispatch(CreateRejected{Message: client.Message(err, client.MsgAddStudent)})
		return err
	}

	s.Dispatch(CreateFulfilled{Student: st})
	return nil
}

// Update replaces student id with the backend's updated record.
func (s *Store) Update(ctx context.Context, id int64, in types.StudentInput) error {
	gen := s.beginRecordOp(id, UpdatePending{ID: id})

	st, err := s.api.Update(ctx, id, in)

	s.transition(func() Action {
		if s.isStale(id, gen) {
			s.log.Debug("discarding superseded update response", slog.Int64("id", id))
			return OperationDiscarded{ID: id}
		}
		if err != nil {
			s.log.Warn("update student failed",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			return UpdateRejected{ID: id, Message: client.Message(err, client.MsgUpdateStudent)}
		}
		if indexOf(s.state.Students, st.ID) < 0 {
			s.log.Warn("updated student is not in the list", slog.Int64("id", st.ID))
		}
		return UpdateFulfilled{Student: st}
	})
	return err
}

// Delete removes student id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	gen := s.beginRecordOp(id, DeletePending{ID: id})

	err := s.api.Remove(ctx, id)

	s.transition(func() Action {
		if s.isStale(id, gen) {
			s.log.Debug("discarding superseded delete response", slog.Int64("id", id))
			return OperationDiscarded{ID: id}
		}
		if err != nil {
			s.log.Warn("delete student failed",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			return DeleteRejected{ID: id, Message: client.Message(err, client.MsgDeleteStudent)}
		}
		delete(s.recordGen, id)
		return DeleteFulfilled{ID: id}
	})
	return err
}

// Submit validates f and, when it is valid, creates a student or updates the
// one being edited. Invalid input returns validation.Errors without touching
// the network or the state.
func (s *Store) Submit(ctx context.Context, f validation.Form) error {
	if errs := validation.Validate(f); len(errs) > 0 {
		return errs
	}

	s.mu.Lock()
	editing := s.state.Editing
	s.mu.Unlock()

	if editing != nil {
		return s.Update(ctx, editing.ID, f.Input())
	}
	return s.Create(ctx, f.Input())
}

func (s *Store) beginRecordOp(id int64, pending Action) uint64 {
	var gen uint64
	s.transition(func() Action {
		s.seq++
		s.recordGen[id] = s.seq
		gen = s.seq
		return pending
	})
	return gen
}

// isStale must be called with mu held. Generations come from one counter, so
// a record deleted and re-used never matches an older request.
func (s *Store) isStale(id int64, gen uint64) bool {
	return s.staleGuard && s.recordGen[id] != gen
}
