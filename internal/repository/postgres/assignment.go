package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type assignmentRepository struct {
	BaseRepository
}

func NewAssignmentRepository(base BaseRepository) repository.AssignmentRepository {
	return &assignmentRepository{base}
}

func memberTable(kind model.MemberKind) (string, error) {
	switch kind {
	case model.MemberKindDoctor:
		return "doctors", nil
	case model.MemberKindNurse:
		return "nurses", nil
	case model.MemberKindRoom:
		return "rooms", nil
	default:
		return "", fmt.Errorf("unknown member kind: %s", kind)
	}
}

func roomEdgeTable(kind model.PersonKind) (table, personColumn string, err error) {
	switch kind {
	case model.PersonKindDoctor:
		return "doctor_rooms", "doctor_id", nil
	case model.PersonKindNurse:
		return "nurse_rooms", "nurse_id", nil
	default:
		return "", "", fmt.Errorf("unknown person kind: %s", kind)
	}
}

// SetDepartmentCAS is the single authoritative write of the owning-department
// column. The WHERE clause re-checks the expected old value so two operators
// racing on the same member cannot silently overwrite each other; the loser
// sees rows=0 and gets false back.
func (r *assignmentRepository) SetDepartmentCAS(ctx context.Context, kind model.MemberKind, memberID int64, expected, target *int64) (bool, error) {
	table, err := memberTable(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET department_id = $1, updated_at = $2
		WHERE id = $3
		AND department_id IS NOT DISTINCT FROM $4
	`, table)

	result, err := r.db.ExecContext(ctx, query, target, time.Now(), memberID, expected)
	if err != nil {
		return false, fmt.Errorf("failed to set %s department: %w", kind, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *assignmentRepository) AddRoomEdge(ctx context.Context, kind model.PersonKind, personID, roomID int64) error {
	table, personColumn, err := roomEdgeTable(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, room_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING
	`, table, personColumn)

	if _, err := r.db.ExecContext(ctx, query, personID, roomID, time.Now()); err != nil {
		return fmt.Errorf("failed to add %s room edge: %w", kind, err)
	}
	return nil
}

func (r *assignmentRepository) RemoveRoomEdge(ctx context.Context, kind model.PersonKind, personID, roomID int64) (bool, error) {
	table, personColumn, err := roomEdgeTable(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND room_id = $2`, table, personColumn)

	result, err := r.db.ExecContext(ctx, query, personID, roomID)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s room edge: %w", kind, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *assignmentRepository) RoomEdgeExists(ctx context.Context, kind model.PersonKind, personID, roomID int64) (bool, error) {
	table, personColumn, err := roomEdgeTable(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND room_id = $2)`, table, personColumn)

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, personID, roomID); err != nil {
		return false, fmt.Errorf("failed to check %s room edge: %w", kind, err)
	}
	return exists, nil
}

func (r *assignmentRepository) RoomInUse(ctx context.Context, kind model.PersonKind, roomID int64) (bool, error) {
	table, _, err := roomEdgeTable(kind)
	if err != nil {
		return false, err
	}

	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE room_id = $1)`, table)

	var inUse bool
	if err := r.db.GetContext(ctx, &inUse, query, roomID); err != nil {
		return false, fmt.Errorf("failed to check room usage: %w", err)
	}
	return inUse, nil
}

func (r *assignmentRepository) ListRoomsForPerson(ctx context.Context, kind model.PersonKind, personID int64) ([]*model.Room, error) {
	table, personColumn, err := roomEdgeTable(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT r.id, r.number, r.floor, r.department_id, r.created_at, r.updated_at
		FROM rooms r
		JOIN %s e ON e.room_id = r.id
		WHERE e.%s = $1
		ORDER BY r.number ASC
	`, table, personColumn)

	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query, personID); err != nil {
		return nil, fmt.Errorf("failed to list rooms for %s: %w", kind, err)
	}
	return rooms, nil
}
