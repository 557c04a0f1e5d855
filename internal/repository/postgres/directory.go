package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
)

type directoryRepository struct {
	BaseRepository
}

func NewDirectoryRepository(base BaseRepository) repository.DirectoryRepository {
	return &directoryRepository{base}
}

func (r *directoryRepository) GetDepartment(ctx context.Context, id int64) (*model.Department, error) {
	query := `
		SELECT id, name, created_at, updated_at
		FROM departments
		WHERE id = $1
	`
	var department model.Department
	if err := r.db.GetContext(ctx, &department, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &department, nil
}

func (r *directoryRepository) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	query := `
		SELECT id, full_name, specialty, department_id, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *directoryRepository) GetNurse(ctx context.Context, id int64) (*model.Nurse, error) {
	query := `
		SELECT id, full_name, department_id, created_at, updated_at
		FROM nurses
		WHERE id = $1
	`
	var nurse model.Nurse
	if err := r.db.GetContext(ctx, &nurse, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get nurse: %w", err)
	}
	return &nurse, nil
}

func (r *directoryRepository) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	query := `
		SELECT id, number, floor, department_id, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`
	var room model.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return &room, nil
}

func (r *directoryRepository) ListDoctorsByDepartment(ctx context.Context, departmentID int64) ([]*model.Doctor, error) {
	query := `
		SELECT id, full_name, specialty, department_id, created_at, updated_at
		FROM doctors
		WHERE department_id = $1
		ORDER BY full_name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list doctors by department: %w", err)
	}
	return doctors, nil
}

func (r *directoryRepository) ListNursesByDepartment(ctx context.Context, departmentID int64) ([]*model.Nurse, error) {
	query := `
		SELECT id, full_name, department_id, created_at, updated_at
		FROM nurses
		WHERE department_id = $1
		ORDER BY full_name ASC
	`
	var nurses []*model.Nurse
	if err := r.db.SelectContext(ctx, &nurses, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list nurses by department: %w", err)
	}
	return nurses, nil
}

func (r *directoryRepository) ListRoomsByDepartment(ctx context.Context, departmentID int64) ([]*model.Room, error) {
	query := `
		SELECT id, number, floor, department_id, created_at, updated_at
		FROM rooms
		WHERE department_id = $1
		ORDER BY number ASC
	`
	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list rooms by department: %w", err)
	}
	return rooms, nil
}

func (r *directoryRepository) ListUnassignedDoctors(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT id, full_name, specialty, department_id, created_at, updated_at
		FROM doctors
		WHERE department_id IS NULL
		ORDER BY full_name ASC
	`
	var doctors []*model.Doctor
	if err := r.db.SelectContext(ctx, &doctors, query); err != nil {
		return nil, fmt.Errorf("failed to list unassigned doctors: %w", err)
	}
	return doctors, nil
}

func (r *directoryRepository) ListUnassignedNurses(ctx context.Context) ([]*model.Nurse, error) {
	query := `
		SELECT id, full_name, department_id, created_at, updated_at
		FROM nurses
		WHERE department_id IS NULL
		ORDER BY full_name ASC
	`
	var nurses []*model.Nurse
	if err := r.db.SelectContext(ctx, &nurses, query); err != nil {
		return nil, fmt.Errorf("failed to list unassigned nurses: %w", err)
	}
	return nurses, nil
}

func (r *directoryRepository) ListUnassignedRooms(ctx context.Context) ([]*model.Room, error) {
	query := `
		SELECT id, number, floor, department_id, created_at, updated_at
		FROM rooms
		WHERE department_id IS NULL
		ORDER BY number ASC
	`
	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("failed to list unassigned rooms: %w", err)
	}
	return rooms, nil
}

func (r *directoryRepository) ListUnassignedRoomsForPerson(ctx context.Context, kind model.PersonKind, departmentID int64) ([]*model.Room, error) {
	edgeTable, _, err := roomEdgeTable(kind)
	if err != nil {
		return nil, err
	}

	// Rooms already owned by the department but not yet linked to any person
	// of this kind. This is the availability filter the assignment picker
	// shows; it is not a stored exclusivity constraint.
	query := fmt.Sprintf(`
		SELECT r.id, r.number, r.floor, r.department_id, r.created_at, r.updated_at
		FROM rooms r
		WHERE r.department_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM %s e WHERE e.room_id = r.id
		)
		ORDER BY r.number ASC
	`, edgeTable)

	var rooms []*model.Room
	if err := r.db.SelectContext(ctx, &rooms, query, departmentID); err != nil {
		return nil, fmt.Errorf("failed to list unassigned rooms for %s: %w", kind, err)
	}
	return rooms, nil
}
