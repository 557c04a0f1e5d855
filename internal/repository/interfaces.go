package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// ErrNotFound is returned by lookup methods when no row matches the id.
var ErrNotFound = errors.New("not found")

// All repository interfaces in one file
type (
	// DirectoryRepository is the read-only lookup surface over departments,
	// doctors, nurses and rooms. No business rules live here.
	DirectoryRepository interface {
		GetDepartment(ctx context.Context, id int64) (*model.Department, error)
		GetDoctor(ctx context.Context, id int64) (*model.Doctor, error)
		GetNurse(ctx context.Context, id int64) (*model.Nurse, error)
		GetRoom(ctx context.Context, id int64) (*model.Room, error)

		ListDoctorsByDepartment(ctx context.Context, departmentID int64) ([]*model.Doctor, error)
		ListNursesByDepartment(ctx context.Context, departmentID int64) ([]*model.Nurse, error)
		ListRoomsByDepartment(ctx context.Context, departmentID int64) ([]*model.Room, error)

		ListUnassignedDoctors(ctx context.Context) ([]*model.Doctor, error)
		ListUnassignedNurses(ctx context.Context) ([]*model.Nurse, error)
		ListUnassignedRooms(ctx context.Context) ([]*model.Room, error)

		// ListUnassignedRoomsForPerson returns rooms in the department that
		// have no edge to any person of the given kind yet.
		ListUnassignedRoomsForPerson(ctx context.Context, kind model.PersonKind, departmentID int64) ([]*model.Room, error)
	}

	// AssignmentRepository owns the relationship edges: the nullable
	// department_id column on doctors/nurses/rooms and the person-room edge
	// tables.
	AssignmentRepository interface {
		// SetDepartmentCAS writes the owning department only when the current
		// value still equals expected. Returns false when the row exists but
		// the guard column changed underneath us.
		SetDepartmentCAS(ctx context.Context, kind model.MemberKind, memberID int64, expected, target *int64) (bool, error)

		AddRoomEdge(ctx context.Context, kind model.PersonKind, personID, roomID int64) error
		RemoveRoomEdge(ctx context.Context, kind model.PersonKind, personID, roomID int64) (bool, error)
		RoomEdgeExists(ctx context.Context, kind model.PersonKind, personID, roomID int64) (bool, error)

		// RoomInUse reports whether any person of the given kind already has
		// an edge to the room.
		RoomInUse(ctx context.Context, kind model.PersonKind, roomID int64) (bool, error)

		ListRoomsForPerson(ctx context.Context, kind model.PersonKind, personID int64) ([]*model.Room, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)

// IsNoRows reports whether err means "no matching row", regardless of whether
// it bubbled up raw from database/sql or was already mapped.
func IsNoRows(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}
