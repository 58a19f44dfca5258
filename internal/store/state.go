package store

import (
	"github.com/aanand-mishra/students-manager/internal/types"
)

// State is a snapshot of everything the views render.
//
// Error is empty when there is no error to show. Editing is nil in create
// mode and whenever FormVisible is false.
type State struct {
	Students         []types.Student
	ListLoading      bool
	OperationLoading bool
	Error            string
	FormVisible      bool
	Editing          *types.Student

	// inFlight counts create/update/delete requests that have not settled.
	inFlight int
}

// HasError reports whether an error message is set.
func (s State) HasError() bool { return s.Error != "" }

// Find returns the student with id and whether it exists.
func (s State) Find(id int64) (types.Student, bool) {
	if i := indexOf(s.Students, id); i >= 0 {
		return s.Students[i], true
	}
	return types.Student{}, false
}

func (s State) clone() State {
	out := s
	if s.Students != nil {
		out.Students = append([]types.Student(nil), s.Students...)
	}
	if s.Editing != nil {
		e := *s.Editing
		out.Editing = &e
	}
	return out
}

func indexOf(students []types.Student, id int64) int {
	for i, s := range students {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Action is a named state transition. Asynchronous operations are expressed
// as three actions each: Pending, then exactly one of Fulfilled or Rejected.
type Action interface {
	Name() string
}

type (
	FetchAllPending   struct{}
	FetchAllFulfilled struct{ Students []types.Student }
	FetchAllRejected  struct{ Message string }

	CreatePending   struct{}
	CreateFulfilled struct{ Student types.Student }
	CreateRejected  struct{ Message string }

	UpdatePending   struct{ ID int64 }
	UpdateFulfilled struct{ Student types.Student }
	UpdateRejected  struct {
		ID      int64
		Message string
	}

	DeletePending   struct{ ID int64 }
	DeleteFulfilled struct{ ID int64 }
	DeleteRejected  struct {
		ID      int64
		Message string
	}

	// OperationDiscarded settles a create/update/delete whose response was
	// superseded by a newer request for the same record.
	OperationDiscarded struct{ ID int64 }

	OpenForm   struct{}
	CloseForm  struct{}
	BeginEdit  struct{ Student types.Student }
	ClearError struct{}
)

func (FetchAllPending) Name() string    { return "students/fetchAll/pending" }
func (FetchAllFulfilled) Name() string  { return "students/fetchAll/fulfilled" }
func (FetchAllRejected) Name() string   { return "students/fetchAll/rejected" }
func (CreatePending) Name() string      { return "students/create/pending" }
func (CreateFulfilled) Name() string    { return "students/create/fulfilled" }
func (CreateRejected) Name() string     { return "students/create/rejected" }
func (UpdatePending) Name() string      { return "students/update/pending" }
func (UpdateFulfilled) Name() string    { return "students/update/fulfilled" }
func (UpdateRejected) Name() string     { return "students/update/rejected" }
func (DeletePending) Name() string      { return "students/delete/pending" }
func (DeleteFulfilled) Name() string    { return "students/delete/fulfilled" }
func (DeleteRejected) Name() string     { return "students/delete/rejected" }
func (OperationDiscarded) Name() string { return "students/operation/discarded" }
func (OpenForm) Name() string           { return "students/openForm" }
func (CloseForm) Name() string          { return "students/closeForm" }
func (BeginEdit) Name() string          { return "students/beginEdit" }
func (ClearError) Name() string         { return "students/clearError" }

// Reduce returns the state that results from applying a to s.
// It never mutates s: any change to Students produces a new slice.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case FetchAllPending:
		s.ListLoading = true
		s.Error = ""
	case FetchAllFulfilled:
		s.ListLoading = false
		s.Students = uniqueByID(a.Students)
	case FetchAllRejected:
		s.ListLoading = false
		s.Error = a.Message

	case CreatePending, UpdatePending, DeletePending:
		s = beginOperation(s)
	case CreateFulfilled:
		s = endOperation(s)
		s.Students = upsert(s.Students, a.Student)
		s = closeForm(s)
	case UpdateFulfilled:
		s = endOperation(s)
		if i := indexOf(s.Students, a.Student.ID); i >= 0 {
			s.Students = replaceAt(s.Students, i, a.Student)
		}
		s = closeForm(s)
	case DeleteFulfilled:
		s = endOperation(s)
		if i := indexOf(s.Students, a.ID); i >= 0 {
			s.Students = removeAt(s.Students, i)
		}
	case CreateRejected:
		s = endOperation(s)
		s.Error = a.Message
	case UpdateRejected:
		s = endOperation(s)
		s.Error = a.Message
	case DeleteRejected:
		s = endOperation(s)
		s.Error = a.Message
	case OperationDiscarded:
		s = endOperation(s)

	case OpenForm:
		s.FormVisible = true
	case CloseForm:
		s = closeForm(s)
	case BeginEdit:
		st := a.Student
		s.Editing = &st
		s.FormVisible = true
	case ClearError:
		s.Error = ""
	}
	return s
}

func beginOperation(s State) State {
	s.inFlight++
	s.OperationLoading = true
	s.Error = ""
	return s
}

func endOperation(s State) State {
	if s.inFlight > 0 {
		s.inFlight--
	}
	s.OperationLoading = s.inFlight > 0
	return s
}

func closeForm(s State) State {
	s.FormVisible = false
	s.Editing = nil
	return s
}

// upsert appends st, or replaces the existing entry with the same ID so the
// list never holds duplicates.
func upsert(students []types.Student, st types.Student) []types.Student {
	if i := indexOf(students, st.ID); i >= 0 {
		return replaceAt(students, i, st)
	}
	out := make([]types.Student, 0, len(students)+1)
	out = append(out, students...)
	return append(out, st)
}

func replaceAt(students []types.Student, i int, st types.Student) []types.Student {
	out := append([]types.Student(nil), students...)
	out[i] = st
	return out
}

func removeAt(students []types.Student, i int) []types.Student {
	out := make([]types.Student, 0, len(students)-1)
	out = append(out, students[:i]...)
	return append(out, students[i+1:]...)
}

// uniqueByID keeps the first occurrence of every ID. A nil input becomes an
// empty list.
func uniqueByID(students []types.Student) []types.Student {
	out := make([]types.Student, 0, len(students))
	seen := make(map[int64]struct{}, len(students))
	for _, st := range students {
		if _, dup := seen[st.ID]; dup {
			continue
		}
		seen[st.ID] = struct{}{}
		out = append(out, st)
	}
	return out
}
