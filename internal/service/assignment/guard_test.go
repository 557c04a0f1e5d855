package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func ptr(v int64) *int64 { return &v }

func TestCanAssignToDepartment(t *testing.T) {
	tests := []struct {
		name    string
		current *int64
		target  int64
		want    Decision
	}{
		{
			name:    "unassigned member is assignable",
			current: nil,
			target:  1,
			want:    Decision{Allowed: true},
		},
		{
			name:    "already in target department is a no-op",
			current: ptr(1),
			target:  1,
			want:    Decision{Allowed: true, NoOp: true},
		},
		{
			name:    "bound to another department is rejected",
			current: ptr(2),
			target:  1,
			want:    Decision{Reason: model.ReasonAlreadyAssigned},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Guard{}.CanAssignToDepartment(tt.current, tt.target)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanRemoveFromDepartment(t *testing.T) {
	tests := []struct {
		name       string
		current    *int64
		department int64
		want       Decision
	}{
		{
			name:       "member of the department is removable",
			current:    ptr(1),
			department: 1,
			want:       Decision{Allowed: true},
		},
		{
			name:       "unassigned member is rejected",
			current:    nil,
			department: 1,
			want:       Decision{Reason: model.ReasonNotAssigned},
		},
		{
			name:       "member of another department is rejected",
			current:    ptr(2),
			department: 1,
			want:       Decision{Reason: model.ReasonNotAssigned},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Guard{}.CanRemoveFromDepartment(tt.current, tt.department)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanAssignRoomToPerson(t *testing.T) {
	tests := []struct {
		name             string
		exclusive        bool
		personDepartment *int64
		roomDepartment   *int64
		roomInUse        bool
		edgeExists       bool
		want             Decision
	}{
		{
			name:             "room in same department is assignable",
			personDepartment: ptr(1),
			roomDepartment:   ptr(1),
			want:             Decision{Allowed: true},
		},
		{
			name:             "unassigned person is rejected",
			personDepartment: nil,
			roomDepartment:   ptr(1),
			want:             Decision{Reason: model.ReasonPersonUnassigned},
		},
		{
			name:             "unassigned room is rejected",
			personDepartment: ptr(1),
			roomDepartment:   nil,
			want:             Decision{Reason: model.ReasonRoomNotInDepartment},
		},
		{
			name:             "room from another department is rejected",
			personDepartment: ptr(1),
			roomDepartment:   ptr(2),
			want:             Decision{Reason: model.ReasonRoomNotInDepartment},
		},
		{
			name:             "existing edge is a no-op",
			personDepartment: ptr(1),
			roomDepartment:   ptr(1),
			edgeExists:       true,
			want:             Decision{Allowed: true, NoOp: true},
		},
		{
			name:             "shared room stays assignable by default",
			personDepartment: ptr(1),
			roomDepartment:   ptr(1),
			roomInUse:        true,
			want:             Decision{Allowed: true},
		},
		{
			name:             "exclusive mode rejects an occupied room",
			exclusive:        true,
			personDepartment: ptr(1),
			roomDepartment:   ptr(1),
			roomInUse:        true,
			want:             Decision{Reason: model.ReasonRoomOccupied},
		},
		{
			name:             "exclusive mode keeps the existing edge a no-op",
			exclusive:        true,
			personDepartment: ptr(1),
			roomDepartment:   ptr(1),
			roomInUse:        true,
			edgeExists:       true,
			want:             Decision{Allowed: true, NoOp: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Guard{ExclusiveRooms: tt.exclusive}
			got := g.CanAssignRoomToPerson(tt.personDepartment, tt.roomDepartment, tt.roomInUse, tt.edgeExists)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanRemoveRoomFromPerson(t *testing.T) {
	assert.Equal(t, Decision{Allowed: true}, Guard{}.CanRemoveRoomFromPerson(true))
	assert.Equal(t, Decision{Reason: model.ReasonNotAssigned}, Guard{}.CanRemoveRoomFromPerson(false))
}
