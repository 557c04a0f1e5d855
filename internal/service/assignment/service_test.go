package assignment

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

type edge struct {
	personID int64
	roomID   int64
}

// fakeStore backs both the directory and assignment repositories with plain
// maps so a mutation is immediately visible to the next read, the same way a
// committed row would be.
type fakeStore struct {
	departments map[int64]*model.Department
	doctors     map[int64]*model.Doctor
	nurses      map[int64]*model.Nurse
	rooms       map[int64]*model.Room
	doctorRooms map[edge]bool
	nurseRooms  map[edge]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		departments: map[int64]*model.Department{},
		doctors:     map[int64]*model.Doctor{},
		nurses:      map[int64]*model.Nurse{},
		rooms:       map[int64]*model.Room{},
		doctorRooms: map[edge]bool{},
		nurseRooms:  map[edge]bool{},
	}
}

func (f *fakeStore) GetDepartment(_ context.Context, id int64) (*model.Department, error) {
	if d, ok := f.departments[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetDoctor(_ context.Context, id int64) (*model.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetNurse(_ context.Context, id int64) (*model.Nurse, error) {
	if n, ok := f.nurses[id]; ok {
		return n, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) GetRoom(_ context.Context, id int64) (*model.Room, error) {
	if r, ok := f.rooms[id]; ok {
		return r, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStore) ListDoctorsByDepartment(_ context.Context, departmentID int64) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range f.doctors {
		if d.DepartmentID != nil && *d.DepartmentID == departmentID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListNursesByDepartment(_ context.Context, departmentID int64) ([]*model.Nurse, error) {
	var out []*model.Nurse
	for _, n := range f.nurses {
		if n.DepartmentID != nil && *n.DepartmentID == departmentID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListRoomsByDepartment(_ context.Context, departmentID int64) ([]*model.Room, error) {
	var out []*model.Room
	for _, r := range f.rooms {
		if r.DepartmentID != nil && *r.DepartmentID == departmentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListUnassignedDoctors(_ context.Context) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range f.doctors {
		if d.DepartmentID == nil {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListUnassignedNurses(_ context.Context) ([]*model.Nurse, error) {
	var out []*model.Nurse
	for _, n := range f.nurses {
		if n.DepartmentID == nil {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListUnassignedRooms(_ context.Context) ([]*model.Room, error) {
	var out []*model.Room
	for _, r := range f.rooms {
		if r.DepartmentID == nil {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListUnassignedRoomsForPerson(ctx context.Context, kind model.PersonKind, departmentID int64) ([]*model.Room, error) {
	edges := f.edges(kind)
	rooms, _ := f.ListRoomsByDepartment(ctx, departmentID)
	var out []*model.Room
	for _, r := range rooms {
		used := false
		for e := range edges {
			if e.roomID == r.ID {
				used = true
				break
			}
		}
		if !used {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) SetDepartmentCAS(_ context.Context, kind model.MemberKind, memberID int64, expected, target *int64) (bool, error) {
	current, ok := f.memberDepartment(kind, memberID)
	if !ok {
		return false, nil
	}
	if !int64PtrEqual(*current, expected) {
		return false, nil
	}
	*current = target
	return true, nil
}

func (f *fakeStore) AddRoomEdge(_ context.Context, kind model.PersonKind, personID, roomID int64) error {
	f.edges(kind)[edge{personID, roomID}] = true
	return nil
}

func (f *fakeStore) RemoveRoomEdge(_ context.Context, kind model.PersonKind, personID, roomID int64) (bool, error) {
	e := edge{personID, roomID}
	edges := f.edges(kind)
	if !edges[e] {
		return false, nil
	}
	delete(edges, e)
	return true, nil
}

func (f *fakeStore) RoomEdgeExists(_ context.Context, kind model.PersonKind, personID, roomID int64) (bool, error) {
	return f.edges(kind)[edge{personID, roomID}], nil
}

func (f *fakeStore) RoomInUse(_ context.Context, kind model.PersonKind, roomID int64) (bool, error) {
	for e := range f.edges(kind) {
		if e.roomID == roomID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListRoomsForPerson(_ context.Context, kind model.PersonKind, personID int64) ([]*model.Room, error) {
	var out []*model.Room
	for e := range f.edges(kind) {
		if e.personID == personID {
			out = append(out, f.rooms[e.roomID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) edges(kind model.PersonKind) map[edge]bool {
	if kind == model.PersonKindNurse {
		return f.nurseRooms
	}
	return f.doctorRooms
}

func (f *fakeStore) memberDepartment(kind model.MemberKind, memberID int64) (**int64, bool) {
	switch kind {
	case model.MemberKindDoctor:
		if d, ok := f.doctors[memberID]; ok {
			return &d.DepartmentID, true
		}
	case model.MemberKindNurse:
		if n, ok := f.nurses[memberID]; ok {
			return &n.DepartmentID, true
		}
	case model.MemberKindRoom:
		if r, ok := f.rooms[memberID]; ok {
			return &r.DepartmentID, true
		}
	}
	return nil, false
}

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type recordedEvent struct {
	eventType string
	payload   interface{}
}

type fakeEmitter struct {
	events []recordedEvent
}

func (f *fakeEmitter) Emit(_ context.Context, eventType string, payload interface{}) error {
	f.events = append(f.events, recordedEvent{eventType: eventType, payload: payload})
	return nil
}

func setupService(t *testing.T, exclusive bool) (*Service, *fakeStore, *fakeEmitter) {
	t.Helper()
	store := newFakeStore()
	emitter := &fakeEmitter{}
	svc := NewService(store, store, Guard{ExclusiveRooms: exclusive}, emitter, nil)
	return svc, store, emitter
}

func seedDepartment(store *fakeStore, id int64, name string) {
	store.departments[id] = &model.Department{ID: id, Name: name}
}

func seedDoctor(store *fakeStore, id int64, departmentID *int64) {
	store.doctors[id] = &model.Doctor{ID: id, FullName: "Doctor", DepartmentID: departmentID}
}

func seedNurse(store *fakeStore, id int64, departmentID *int64) {
	store.nurses[id] = &model.Nurse{ID: id, FullName: "Nurse", DepartmentID: departmentID}
}

func seedRoom(store *fakeStore, id int64, departmentID *int64) {
	store.rooms[id] = &model.Room{ID: id, Number: "R", DepartmentID: departmentID}
}

func TestAssignDoctorsToDepartment(t *testing.T) {
	svc, store, emitter := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDepartment(store, 2, "Neurology")
	seedDoctor(store, 10, nil)     // assignable
	seedDoctor(store, 11, ptr(2))  // bound elsewhere
	seedDoctor(store, 12, ptr(1))  // already here
	// 13 does not exist

	outcome, err := svc.AssignDoctorsToDepartment(context.Background(), 1, []int64{10, 11, 12, 13})
	require.NoError(t, err)

	assert.Equal(t, []model.AssignmentResult{
		{MemberID: 10, Succeeded: true},
		{MemberID: 11, Succeeded: false, Reason: model.ReasonAlreadyAssigned},
		{MemberID: 12, Succeeded: true},
		{MemberID: 13, Succeeded: false, Reason: model.ReasonNotFound},
	}, outcome.Results)
	assert.Equal(t, 2, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Failed)

	assert.Equal(t, ptr(1), store.doctors[10].DepartmentID)
	assert.Equal(t, ptr(2), store.doctors[11].DepartmentID)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, model.EventDepartmentDoctorsAssigned, emitter.events[0].eventType)
}

func TestAssignDoctorsToMissingDepartment(t *testing.T) {
	svc, store, emitter := setupService(t, false)
	seedDoctor(store, 10, nil)

	outcome, err := svc.AssignDoctorsToDepartment(context.Background(), 99, []int64{10})
	require.Error(t, err)
	assert.Nil(t, outcome)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)

	assert.Nil(t, store.doctors[10].DepartmentID)
	assert.Empty(t, emitter.events)
}

func TestAssignDoctorsIsIdempotent(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDoctor(store, 10, nil)

	for i := 0; i < 2; i++ {
		outcome, err := svc.AssignDoctorsToDepartment(context.Background(), 1, []int64{10})
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Succeeded)
		assert.True(t, outcome.Results[0].Succeeded)
	}
	assert.Equal(t, ptr(1), store.doctors[10].DepartmentID)
}

func TestAssignDoctorsRejectsEmptyBatch(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")

	_, err := svc.AssignDoctorsToDepartment(context.Background(), 1, nil)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestRemoveDoctorsFromDepartment(t *testing.T) {
	svc, store, emitter := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDepartment(store, 2, "Neurology")
	seedDoctor(store, 10, ptr(1)) // removable
	seedDoctor(store, 11, nil)    // never assigned
	seedDoctor(store, 12, ptr(2)) // member of another department

	outcome, err := svc.RemoveDoctorsFromDepartment(context.Background(), 1, []int64{10, 11, 12})
	require.NoError(t, err)

	assert.Equal(t, []model.AssignmentResult{
		{MemberID: 10, Succeeded: true},
		{MemberID: 11, Succeeded: false, Reason: model.ReasonNotAssigned},
		{MemberID: 12, Succeeded: false, Reason: model.ReasonNotAssigned},
	}, outcome.Results)

	assert.Nil(t, store.doctors[10].DepartmentID)
	assert.Equal(t, ptr(2), store.doctors[12].DepartmentID)

	require.Len(t, emitter.events, 1)
	assert.Equal(t, model.EventDepartmentDoctorsRemoved, emitter.events[0].eventType)
}

func TestRemoveWithoutSuccessEmitsNothing(t *testing.T) {
	svc, store, emitter := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDoctor(store, 10, nil)

	outcome, err := svc.RemoveDoctorsFromDepartment(context.Background(), 1, []int64{10})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.Succeeded)
	assert.Empty(t, emitter.events)
}

func TestAssignNursesToDepartment(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedNurse(store, 20, nil)

	outcome, err := svc.AssignNursesToDepartment(context.Background(), 1, []int64{20})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Succeeded)
	assert.Equal(t, ptr(1), store.nurses[20].DepartmentID)
}

func TestAssignRoomsToDepartment(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDepartment(store, 2, "Neurology")
	seedRoom(store, 30, nil)
	seedRoom(store, 31, ptr(2))

	outcome, err := svc.AssignRoomsToDepartment(context.Background(), 1, []int64{30, 31})
	require.NoError(t, err)

	assert.Equal(t, []model.AssignmentResult{
		{MemberID: 30, Succeeded: true},
		{MemberID: 31, Succeeded: false, Reason: model.ReasonAlreadyAssigned},
	}, outcome.Results)
	assert.Equal(t, ptr(1), store.rooms[30].DepartmentID)
}

func TestAssignRoomsToDoctor(t *testing.T) {
	svc, store, emitter := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDepartment(store, 2, "Neurology")
	seedDoctor(store, 10, ptr(1))
	seedRoom(store, 30, ptr(1)) // same department
	seedRoom(store, 31, ptr(2)) // other department
	seedRoom(store, 32, nil)    // unassigned room
	// 33 does not exist

	outcome, err := svc.AssignRoomsToDoctor(context.Background(), 10, []int64{30, 31, 32, 33})
	require.NoError(t, err)

	assert.Equal(t, []model.AssignmentResult{
		{MemberID: 30, Succeeded: true},
		{MemberID: 31, Succeeded: false, Reason: model.ReasonRoomNotInDepartment},
		{MemberID: 32, Succeeded: false, Reason: model.ReasonRoomNotInDepartment},
		{MemberID: 33, Succeeded: false, Reason: model.ReasonNotFound},
	}, outcome.Results)

	assert.True(t, store.doctorRooms[edge{10, 30}])
	require.Len(t, emitter.events, 1)
	assert.Equal(t, model.EventDoctorRoomsAssigned, emitter.events[0].eventType)
}

func TestAssignRoomsToUnassignedDoctor(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDoctor(store, 10, nil)
	seedRoom(store, 30, ptr(1))

	outcome, err := svc.AssignRoomsToDoctor(context.Background(), 10, []int64{30})
	require.NoError(t, err)

	assert.Equal(t, []model.AssignmentResult{
		{MemberID: 30, Succeeded: false, Reason: model.ReasonPersonUnassigned},
	}, outcome.Results)
	assert.Empty(t, store.doctorRooms)
}

func TestAssignRoomsToMissingDoctorAbortsBatch(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedRoom(store, 30, ptr(1))

	_, err := svc.AssignRoomsToDoctor(context.Background(), 99, []int64{30})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}

func TestAssignRoomsToDoctorIsIdempotent(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDoctor(store, 10, ptr(1))
	seedRoom(store, 30, ptr(1))

	for i := 0; i < 2; i++ {
		outcome, err := svc.AssignRoomsToDoctor(context.Background(), 10, []int64{30})
		require.NoError(t, err)
		assert.Equal(t, 1, outcome.Succeeded)
	}
	assert.Len(t, store.doctorRooms, 1)
}

func TestExclusiveRoomAssignment(t *testing.T) {
	svc, store, _ := setupService(t, true)
	seedDepartment(store, 1, "Cardiology")
	seedDoctor(store, 10, ptr(1))
	seedDoctor(store, 11, ptr(1))
	seedRoom(store, 30, ptr(1))

	outcome, err := svc.AssignRoomsToDoctor(context.Background(), 10, []int64{30})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Succeeded)

	outcome, err = svc.AssignRoomsToDoctor(context.Background(), 11, []int64{30})
	require.NoError(t, err)
	assert.Equal(t, []model.AssignmentResult{
		{MemberID: 30, Succeeded: false, Reason: model.ReasonRoomOccupied},
	}, outcome.Results)

	// Re-assigning to the current holder stays an idempotent success.
	outcome, err = svc.AssignRoomsToDoctor(context.Background(), 10, []int64{30})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Succeeded)
}

func TestSharedRoomAssignmentByDefault(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDoctor(store, 10, ptr(1))
	seedNurse(store, 20, ptr(1))
	seedRoom(store, 30, ptr(1))

	outcome, err := svc.AssignRoomsToDoctor(context.Background(), 10, []int64{30})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Succeeded)

	// Nurse edges are tracked independently of doctor edges.
	outcome, err = svc.AssignRoomsToNurse(context.Background(), 20, []int64{30})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Succeeded)

	assert.True(t, store.doctorRooms[edge{10, 30}])
	assert.True(t, store.nurseRooms[edge{20, 30}])
}

func TestRemoveRoomsFromDoctor(t *testing.T) {
	svc, store, emitter := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDoctor(store, 10, ptr(1))
	seedRoom(store, 30, ptr(1))
	seedRoom(store, 31, ptr(1))
	store.doctorRooms[edge{10, 30}] = true

	outcome, err := svc.RemoveRoomsFromDoctor(context.Background(), 10, []int64{30, 31})
	require.NoError(t, err)

	assert.Equal(t, []model.AssignmentResult{
		{MemberID: 30, Succeeded: true},
		{MemberID: 31, Succeeded: false, Reason: model.ReasonNotAssigned},
	}, outcome.Results)

	assert.Empty(t, store.doctorRooms)
	require.Len(t, emitter.events, 1)
	assert.Equal(t, model.EventDoctorRoomsRemoved, emitter.events[0].eventType)
}

func TestListRoomsForDoctor(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDoctor(store, 10, ptr(1))
	seedRoom(store, 30, ptr(1))
	seedRoom(store, 31, ptr(1))
	store.doctorRooms[edge{10, 30}] = true
	store.doctorRooms[edge{10, 31}] = true

	rooms, err := svc.ListRoomsForDoctor(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, int64(30), rooms[0].ID)
	assert.Equal(t, int64(31), rooms[1].ID)

	_, err = svc.ListRoomsForDoctor(context.Background(), 99)
	require.Error(t, err)
}

func TestRemovalFreesTheMemberForReassignment(t *testing.T) {
	svc, store, _ := setupService(t, false)
	seedDepartment(store, 1, "Cardiology")
	seedDepartment(store, 2, "Neurology")
	seedDoctor(store, 10, ptr(1))

	outcome, err := svc.AssignDoctorsToDepartment(context.Background(), 2, []int64{10})
	require.NoError(t, err)
	assert.Equal(t, model.ReasonAlreadyAssigned, outcome.Results[0].Reason)

	_, err = svc.RemoveDoctorsFromDepartment(context.Background(), 1, []int64{10})
	require.NoError(t, err)

	outcome, err = svc.AssignDoctorsToDepartment(context.Background(), 2, []int64{10})
	require.NoError(t, err)
	assert.True(t, outcome.Results[0].Succeeded)
	assert.Equal(t, ptr(2), store.doctors[10].DepartmentID)
}
