package directory

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
)

// Servicer is the read-only directory surface handlers consume. Entity
// lookups go through a short-lived cache; list queries always hit storage so
// "unassigned" results reflect the current assignment state at query time.
type Servicer interface {
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
	ListUnassignedRoomsForPerson(ctx context.Context, kind model.PersonKind, departmentID int64) ([]*model.Room, error)
}

type Service struct {
	repo  repository.DirectoryRepository
	cache *gocache.Cache
}

func NewService(repo repository.DirectoryRepository) *Service {
	// Departments change rarely; doctors/nurses/rooms are cached only by
	// id-lookup, never by list, so assignment state is never served stale
	// to the pickers.
	return &Service{
		repo:  repo,
		cache: gocache.New(30*time.Second, time.Minute),
	}
}

func (s *Service) GetDepartment(ctx context.Context, id int64) (*model.Department, error) {
	key := fmt.Sprintf("department:%d", id)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Department), nil
	}

	department, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("department", err)
		}
		return nil, err
	}
	s.cache.SetDefault(key, department)
	return department, nil
}

func (s *Service) GetDoctor(ctx context.Context, id int64) (*model.Doctor, error) {
	doctor, err := s.repo.GetDoctor(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("doctor", err)
		}
		return nil, err
	}
	return doctor, nil
}

func (s *Service) GetNurse(ctx context.Context, id int64) (*model.Nurse, error) {
	nurse, err := s.repo.GetNurse(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("nurse", err)
		}
		return nil, err
	}
	return nurse, nil
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		if repository.IsNoRows(err) {
			return nil, apperrors.NewNotFound("room", err)
		}
		return nil, err
	}
	return room, nil
}

func (s *Service) ListDoctorsByDepartment(ctx context.Context, departmentID int64) ([]*model.Doctor, error) {
	if _, err := s.GetDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.repo.ListDoctorsByDepartment(ctx, departmentID)
}

func (s *Service) ListNursesByDepartment(ctx context.Context, departmentID int64) ([]*model.Nurse, error) {
	if _, err := s.GetDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.repo.ListNursesByDepartment(ctx, departmentID)
}

func (s *Service) ListRoomsByDepartment(ctx context.Context, departmentID int64) ([]*model.Room, error) {
	if _, err := s.GetDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.repo.ListRoomsByDepartment(ctx, departmentID)
}

func (s *Service) ListUnassignedDoctors(ctx context.Context) ([]*model.Doctor, error) {
	return s.repo.ListUnassignedDoctors(ctx)
}

func (s *Service) ListUnassignedNurses(ctx context.Context) ([]*model.Nurse, error) {
	return s.repo.ListUnassignedNurses(ctx)
}

func (s *Service) ListUnassignedRooms(ctx context.Context) ([]*model.Room, error) {
	return s.repo.ListUnassignedRooms(ctx)
}

func (s *Service) ListUnassignedRoomsForPerson(ctx context.Context, kind model.PersonKind, departmentID int64) ([]*model.Room, error) {
	if _, err := s.GetDepartment(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.repo.ListUnassignedRoomsForPerson(ctx, kind, departmentID)
}
