package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-manager/internal/types"
)

func student(id int64, name string) types.Student {
	return types.Student{ID: id, Name: name, Email: name + "@test.com", Phone: "1", Address: "x"}
}

func reduceAll(s State, actions ...Action) State {
	for _, a := range actions {
		s = Reduce(s, a)
	}
	return s
}

func TestReduce_FetchAll(t *testing.T) {
	s := Reduce(State{Error: "old"}, FetchAllPending{})
	require.True(t, s.ListLoading)
	require.Empty(t, s.Error)

	s = Reduce(s, FetchAllFulfilled{Students: []types.Student{student(1, "a"), student(2, "b")}})
	require.False(t, s.ListLoading)
	require.Len(t, s.Students, 2)

	s = reduceAll(s, FetchAllPending{}, FetchAllFulfilled{Students: nil})
	require.NotNil(t, s.Students)
	require.Empty(t, s.Students)
}

func TestReduce_FetchAllRejectedKeepsStudents(t *testing.T) {
	before := State{Students: []types.Student{student(1, "a")}}
	s := reduceAll(before, FetchAllPending{}, FetchAllRejected{Message: "Failed to fetch students"})

	require.False(t, s.ListLoading)
	require.Equal(t, "Failed to fetch students", s.Error)
	require.Equal(t, before.Students, s.Students)
}

func TestReduce_FetchAllDropsDuplicateIDs(t *testing.T) {
	s := Reduce(State{}, FetchAllFulfilled{Students: []types.Student{student(1, "a"), student(1, "dup"), student(2, "b")}})
	require.Equal(t, []types.Student{student(1, "a"), student(2, "b")}, s.Students)
}

func TestReduce_CreateFulfilledAppendsAndClosesForm(t *testing.T) {
	s := reduceAll(State{Students: []types.Student{student(1, "a")}}, OpenForm{}, CreatePending{})
	require.True(t, s.OperationLoading)
	require.True(t, s.FormVisible)

	s = Reduce(s, CreateFulfilled{Student: student(5, "new")})
	require.False(t, s.OperationLoading)
	require.False(t, s.FormVisible)
	require.Nil(t, s.Editing)
	require.Equal(t, []types.Student{student(1, "a"), student(5, "new")}, s.Students)
}

func TestReduce_CreateFulfilledWithKnownIDDoesNotDuplicate(t *testing.T) {
	s := reduceAll(State{Students: []types.Student{student(1, "a")}}, CreatePending{}, CreateFulfilled{Student: student(1, "again")})
	require.Equal(t, []types.Student{student(1, "again")}, s.Students)
}

func TestReduce_CreateRejectedKeepsFormOpen(t *testing.T) {
	s := reduceAll(State{}, OpenForm{}, CreatePending{}, CreateRejected{Message: "Failed to add student"})
	require.False(t, s.OperationLoading)
	require.True(t, s.FormVisible)
	require.Equal(t, "Failed to add student", s.Error)
}

func TestReduce_UpdateReplacesOnlyMatchingRecord(t *testing.T) {
	start := State{Students: []types.Student{student(1, "a"), student(2, "b"), student(3, "c")}}
	s := reduceAll(start, BeginEdit{Student: student(2, "b")}, UpdatePending{ID: 2})
	require.True(t, s.FormVisible)
	require.NotNil(t, s.Editing)

	s = Reduce(s, UpdateFulfilled{Student: student(2, "bee")})

	want := []types.Student{student(1, "a"), student(2, "bee"), student(3, "c")}
	if diff := cmp.Diff(want, s.Students); diff != "" {
		t.Fatalf("students mismatch (-want +got):\n%s", diff)
	}
	require.False(t, s.FormVisible)
	require.Nil(t, s.Editing)
	require.False(t, s.OperationLoading)
}

func TestReduce_UpdateWithUnknownIDIsNoop(t *testing.T) {
	start := State{Students: []types.Student{student(1, "a")}}
	s := reduceAll(start, UpdatePending{ID: 9}, UpdateFulfilled{Student: student(9, "ghost")})
	require.Equal(t, start.Students, s.Students)
}

func TestReduce_Delete(t *testing.T) {
	start := State{Students: []types.Student{student(1, "a"), student(2, "b")}}

	s := reduceAll(start, DeletePending{ID: 1}, DeleteFulfilled{ID: 1})
	require.Equal(t, []types.Student{student(2, "b")}, s.Students)

	s = reduceAll(s, DeletePending{ID: 7}, DeleteFulfilled{ID: 7})
	require.Len(t, s.Students, 1)

	s = reduceAll(s, DeletePending{ID: 2}, DeleteRejected{ID: 2, Message: "Failed to delete student"})
	require.Len(t, s.Students, 1)
	require.Equal(t, "Failed to delete student", s.Error)
	require.False(t, s.OperationLoading)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	start := State{Students: []types.Student{student(1, "a"), student(2, "b")}}
	snapshot := start.clone()

	_ = Reduce(start, UpdateFulfilled{Student: student(1, "changed")})
	_ = Reduce(start, DeleteFulfilled{ID: 2})
	_ = Reduce(start, CreateFulfilled{Student: student(3, "c")})

	if diff := cmp.Diff(snapshot, start, cmpopts.IgnoreUnexported(State{})); diff != "" {
		t.Fatalf("input state mutated (-before +after):\n%s", diff)
	}
}

func TestReduce_SyncActions(t *testing.T) {
	s := Reduce(State{}, OpenForm{})
	require.True(t, s.FormVisible)
	require.Nil(t, s.Editing)

	s = Reduce(s, BeginEdit{Student: student(4, "d")})
	require.Equal(t, int64(4), s.Editing.ID)

	s = Reduce(s, CloseForm{})
	require.False(t, s.FormVisible)
	require.Nil(t, s.Editing)

	s = Reduce(State{Error: "boom"}, ClearError{})
	require.False(t, s.HasError())
}

func TestReduce_OperationLoadingTracksOverlappingRequests(t *testing.T) {
	s := reduceAll(State{Students: []types.Student{student(1, "a")}}, UpdatePending{ID: 1}, DeletePending{ID: 1})
	require.True(t, s.OperationLoading)

	s = Reduce(s, OperationDiscarded{ID: 1})
	require.True(t, s.OperationLoading)

	s = Reduce(s, DeleteFulfilled{ID: 1})
	require.False(t, s.OperationLoading)
	require.Empty(t, s.Students)
}

func TestReduce_ActionNames(t *testing.T) {
	require.Equal(t, "students/fetchAll/pending", FetchAllPending{}.Name())
	require.Equal(t, "students/update/rejected", UpdateRejected{}.Name())
}
