package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/hospital-api/internal/model"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/service/event"
	apperrors "github.com/jwalitptl/hospital-api/pkg/errors"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
	"github.com/jwalitptl/hospital-api/pkg/validator"
)

// Servicer exposes every assignment mutation and edge query. Each mutation
// takes a batch of member ids and returns a per-item outcome; a bad member id
// never aborts its siblings, only a missing owner does.
type Servicer interface {
	AssignDoctorsToDepartment(ctx context.Context, departmentID int64, doctorIDs []int64) (*model.BatchOutcome, error)
	RemoveDoctorsFromDepartment(ctx context.Context, departmentID int64, doctorIDs []int64) (*model.BatchOutcome, error)
	AssignNursesToDepartment(ctx context.Context, departmentID int64, nurseIDs []int64) (*model.BatchOutcome, error)
	RemoveNursesFromDepartment(ctx context.Context, departmentID int64, nurseIDs []int64) (*model.BatchOutcome, error)
	AssignRoomsToDepartment(ctx context.Context, departmentID int64, roomIDs []int64) (*model.BatchOutcome, error)
	RemoveRoomsFromDepartment(ctx context.Context, departmentID int64, roomIDs []int64) (*model.BatchOutcome, error)
	AssignRoomsToDoctor(ctx context.Context, doctorID int64, roomIDs []int64) (*model.BatchOutcome, error)
	RemoveRoomsFromDoctor(ctx context.Context, doctorID int64, roomIDs []int64) (*model.BatchOutcome, error)
	AssignRoomsToNurse(ctx context.Context, nurseID int64, roomIDs []int64) (*model.BatchOutcome, error)
	RemoveRoomsFromNurse(ctx context.Context, nurseID int64, roomIDs []int64) (*model.BatchOutcome, error)
	ListRoomsForDoctor(ctx context.Context, doctorID int64) ([]*model.Room, error)
	ListRoomsForNurse(ctx context.Context, nurseID int64) ([]*model.Room, error)
}

type Service struct {
	directory repository.DirectoryRepository
	store     repository.AssignmentRepository
	guard     Guard
	events    event.Emitter
	metrics   *metrics.Metrics
	validate  *validator.Validator
}

func NewService(
	directory repository.DirectoryRepository,
	store repository.AssignmentRepository,
	guard Guard,
	events event.Emitter,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		directory: directory,
		store:     store,
		guard:     guard,
		events:    events,
		metrics:   metrics,
		validate:  validator.New(),
	}
}

func (s *Service) AssignDoctorsToDepartment(ctx context.Context, departmentID int64, doctorIDs []int64) (*model.BatchOutcome, error) {
	return s.mutateDepartmentMembers(ctx, "assign_doctors", model.MemberKindDoctor, departmentID, doctorIDs, true, model.EventDepartmentDoctorsAssigned)
}

func (s *Service) RemoveDoctorsFromDepartment(ctx context.Context, departmentID int64, doctorIDs []int64) (*model.BatchOutcome, error) {
	return s.mutateDepartmentMembers(ctx, "remove_doctors", model.MemberKindDoctor, departmentID, doctorIDs, false, model.EventDepartmentDoctorsRemoved)
}

func (s *Service) AssignNursesToDepartment(ctx context.Context, departmentID int64, nurseIDs []int64) (*model.BatchOutcome, error) {
	return s.mutateDepartmentMembers(ctx, "assign_nurses", model.MemberKindNurse, departmentID, nurseIDs, true, model.EventDepartmentNursesAssigned)
}

func (s *Service) RemoveNursesFromDepartment(ctx context.Context, departmentID int64, nurseIDs []int64) (*model.BatchOutcome, error) {
	return s.mutateDepartmentMembers(ctx, "remove_nurses", model.MemberKindNurse, departmentID, nurseIDs, false, model.EventDepartmentNursesRemoved)
}

func (s *Service) AssignRoomsToDepartment(ctx context.Context, departmentID int64, roomIDs []int64) (*model.BatchOutcome, error) {
	return s.mutateDepartmentMembers(ctx, "assign_rooms", model.MemberKindRoom, departmentID, roomIDs, true, model.EventDepartmentRoomsAssigned)
}

func (s *Service) RemoveRoomsFromDepartment(ctx context.Context, departmentID int64, roomIDs []int64) (*model.BatchOutcome, error) {
	return s.mutateDepartmentMembers(ctx, "remove_rooms", model.MemberKindRoom, departmentID, roomIDs, false, model.EventDepartmentRoomsRemoved)
}

func (s *Service) AssignRoomsToDoctor(ctx context.Context, doctorID int64, roomIDs []int64) (*model.BatchOutcome, error) {
	return s.mutatePersonRooms(ctx, "assign_doctor_rooms", model.PersonKindDoctor, doctorID, roomIDs, true, model.EventDoctorRoomsAssigned)
}

func (s *Service) RemoveRoomsFromDoctor(ctx context.Context, doctorID int64, roomIDs []int64) (*model.BatchOutcome, error) {
	return s.mutatePersonRooms(ctx, "remove_doctor_rooms", model.PersonKindDoctor, doctorID, roomIDs, false, model.EventDoctorRoomsRemoved)
}

func (s *Service) AssignRoomsToNurse(ctx context.Context, nurseID int64, roomIDs []int64) (*model.BatchOutcome, error) {
	return s.mutatePersonRooms(ctx, "assign_nurse_rooms", model.PersonKindNurse, nurseID, roomIDs, true, model.EventNurseRoomsAssigned)
}

func (s *Service) RemoveRoomsFromNurse(ctx context.Context, nurseID int64, roomIDs []int64) (*model.BatchOutcome, error) {
	return s.mutatePersonRooms(ctx, "remove_nurse_rooms", model.PersonKindNurse, nurseID, roomIDs, false, model.EventNurseRoomsRemoved)
}

func (s *Service) ListRoomsForDoctor(ctx context.Context, doctorID int64) ([]*model.Room, error) {
	if _, err := s.directory.GetDoctor(ctx, doctorID); err != nil {
		return nil, s.ownerError("doctor", err)
	}
	return s.store.ListRoomsForPerson(ctx, model.PersonKindDoctor, doctorID)
}

func (s *Service) ListRoomsForNurse(ctx context.Context, nurseID int64) ([]*model.Room, error) {
	if _, err := s.directory.GetNurse(ctx, nurseID); err != nil {
		return nil, s.ownerError("nurse", err)
	}
	return s.store.ListRoomsForPerson(ctx, model.PersonKindNurse, nurseID)
}

// mutateDepartmentMembers runs one assign or remove batch on the
// department-membership axis. Items are processed in order but independently;
// each item's validity depends only on persisted state, never on its siblings.
func (s *Service) mutateDepartmentMembers(ctx context.Context, operation string, kind model.MemberKind, departmentID int64, memberIDs []int64, assign bool, eventType string) (*model.BatchOutcome, error) {
	defer s.observeBatch(operation)()

	if err := s.validate.ValidateIDs(memberIDs); err != nil {
		return nil, apperrors.NewBadRequest("invalid member ids", err)
	}

	if _, err := s.directory.GetDepartment(ctx, departmentID); err != nil {
		return nil, s.ownerError("department", err)
	}

	outcome := &model.BatchOutcome{}
	for _, memberID := range memberIDs {
		current, err := s.memberDepartment(ctx, kind, memberID)
		if err != nil {
			if repository.IsNoRows(err) {
				s.recordItem(outcome, operation, memberID, model.ReasonNotFound)
				continue
			}
			return nil, fmt.Errorf("failed to resolve %s %d: %w", kind, memberID, err)
		}

		if assign {
			if err := s.assignMember(ctx, outcome, operation, kind, memberID, current, departmentID); err != nil {
				return nil, err
			}
		} else {
			if err := s.removeMember(ctx, outcome, operation, kind, memberID, current, departmentID); err != nil {
				return nil, err
			}
		}
	}

	s.emitOutcome(ctx, eventType, departmentID, outcome)
	return outcome, nil
}

func (s *Service) assignMember(ctx context.Context, outcome *model.BatchOutcome, operation string, kind model.MemberKind, memberID int64, current *int64, departmentID int64) error {
	decision := s.guard.CanAssignToDepartment(current, departmentID)
	if !decision.Allowed {
		s.recordItem(outcome, operation, memberID, decision.Reason)
		return nil
	}
	if decision.NoOp {
		s.recordItem(outcome, operation, memberID, "")
		return nil
	}

	applied, err := s.store.SetDepartmentCAS(ctx, kind, memberID, nil, &departmentID)
	if err != nil {
		return fmt.Errorf("failed to assign %s %d: %w", kind, memberID, err)
	}
	if !applied {
		// Another writer bound the member between our read and the write.
		s.recordItem(outcome, operation, memberID, model.ReasonAlreadyAssigned)
		return nil
	}
	s.recordItem(outcome, operation, memberID, "")
	return nil
}

func (s *Service) removeMember(ctx context.Context, outcome *model.BatchOutcome, operation string, kind model.MemberKind, memberID int64, current *int64, departmentID int64) error {
	decision := s.guard.CanRemoveFromDepartment(current, departmentID)
	if !decision.Allowed {
		s.recordItem(outcome, operation, memberID, decision.Reason)
		return nil
	}

	applied, err := s.store.SetDepartmentCAS(ctx, kind, memberID, &departmentID, nil)
	if err != nil {
		return fmt.Errorf("failed to remove %s %d: %w", kind, memberID, err)
	}
	if !applied {
		s.recordItem(outcome, operation, memberID, model.ReasonNotAssigned)
		return nil
	}
	s.recordItem(outcome, operation, memberID, "")
	return nil
}

// mutatePersonRooms runs one assign or remove batch on the room-to-person
// axis. Rooms must already belong to the person's department.
func (s *Service) mutatePersonRooms(ctx context.Context, operation string, kind model.PersonKind, personID int64, roomIDs []int64, assign bool, eventType string) (*model.BatchOutcome, error) {
	defer s.observeBatch(operation)()

	if err := s.validate.ValidateIDs(roomIDs); err != nil {
		return nil, apperrors.NewBadRequest("invalid room ids", err)
	}

	personDepartment, err := s.personDepartment(ctx, kind, personID)
	if err != nil {
		return nil, s.ownerError(string(kind), err)
	}

	outcome := &model.BatchOutcome{}
	for _, roomID := range roomIDs {
		room, err := s.directory.GetRoom(ctx, roomID)
		if err != nil {
			if repository.IsNoRows(err) {
				s.recordItem(outcome, operation, roomID, model.ReasonNotFound)
				continue
			}
			return nil, fmt.Errorf("failed to resolve room %d: %w", roomID, err)
		}

		edgeExists, err := s.store.RoomEdgeExists(ctx, kind, personID, roomID)
		if err != nil {
			return nil, fmt.Errorf("failed to check room edge: %w", err)
		}

		if assign {
			if err := s.assignRoom(ctx, outcome, operation, kind, personID, personDepartment, room, edgeExists); err != nil {
				return nil, err
			}
		} else {
			if err := s.removeRoom(ctx, outcome, operation, kind, personID, roomID, edgeExists); err != nil {
				return nil, err
			}
		}
	}

	s.emitOutcome(ctx, eventType, personID, outcome)
	return outcome, nil
}

func (s *Service) assignRoom(ctx context.Context, outcome *model.BatchOutcome, operation string, kind model.PersonKind, personID int64, personDepartment *int64, room *model.Room, edgeExists bool) error {
	roomInUse := false
	if s.guard.ExclusiveRooms && !edgeExists {
		var err error
		roomInUse, err = s.store.RoomInUse(ctx, kind, room.ID)
		if err != nil {
			return fmt.Errorf("failed to check room usage: %w", err)
		}
	}

	decision := s.guard.CanAssignRoomToPerson(personDepartment, room.DepartmentID, roomInUse, edgeExists)
	if !decision.Allowed {
		s.recordItem(outcome, operation, room.ID, decision.Reason)
		return nil
	}
	if decision.NoOp {
		s.recordItem(outcome, operation, room.ID, "")
		return nil
	}

	if err := s.store.AddRoomEdge(ctx, kind, personID, room.ID); err != nil {
		return fmt.Errorf("failed to add room edge: %w", err)
	}
	s.recordItem(outcome, operation, room.ID, "")
	return nil
}

func (s *Service) removeRoom(ctx context.Context, outcome *model.BatchOutcome, operation string, kind model.PersonKind, personID, roomID int64, edgeExists bool) error {
	decision := s.guard.CanRemoveRoomFromPerson(edgeExists)
	if !decision.Allowed {
		s.recordItem(outcome, operation, roomID, decision.Reason)
		return nil
	}

	removed, err := s.store.RemoveRoomEdge(ctx, kind, personID, roomID)
	if err != nil {
		return fmt.Errorf("failed to remove room edge: %w", err)
	}
	if !removed {
		s.recordItem(outcome, operation, roomID, model.ReasonNotAssigned)
		return nil
	}
	s.recordItem(outcome, operation, roomID, "")
	return nil
}

func (s *Service) memberDepartment(ctx context.Context, kind model.MemberKind, memberID int64) (*int64, error) {
	switch kind {
	case model.MemberKindDoctor:
		doctor, err := s.directory.GetDoctor(ctx, memberID)
		if err != nil {
			return nil, err
		}
		return doctor.DepartmentID, nil
	case model.MemberKindNurse:
		nurse, err := s.directory.GetNurse(ctx, memberID)
		if err != nil {
			return nil, err
		}
		return nurse.DepartmentID, nil
	case model.MemberKindRoom:
		room, err := s.directory.GetRoom(ctx, memberID)
		if err != nil {
			return nil, err
		}
		return room.DepartmentID, nil
	default:
		return nil, fmt.Errorf("unknown member kind: %s", kind)
	}
}

func (s *Service) personDepartment(ctx context.Context, kind model.PersonKind, personID int64) (*int64, error) {
	return s.memberDepartment(ctx, kind.MemberKind(), personID)
}

// ownerError maps a missing owner to a 404-level application error; anything
// else stays a storage fault.
func (s *Service) ownerError(resource string, err error) error {
	if repository.IsNoRows(err) {
		return apperrors.NewNotFound(resource, err)
	}
	return fmt.Errorf("failed to get %s: %w", resource, err)
}

func (s *Service) recordItem(outcome *model.BatchOutcome, operation string, memberID int64, reason model.AssignmentReason) {
	outcome.Record(memberID, reason)
	if s.metrics == nil {
		return
	}
	label := "success"
	if reason != "" {
		label = string(reason)
	}
	s.metrics.AssignmentItems.WithLabelValues(operation, label).Inc()
}

func (s *Service) emitOutcome(ctx context.Context, eventType string, ownerID int64, outcome *model.BatchOutcome) {
	if s.events == nil || outcome.Succeeded == 0 {
		return
	}
	payload := model.AssignmentEventPayload{OwnerID: ownerID, Results: outcome.Results}
	// Event loss is tolerable; the mutation itself already committed.
	_ = s.events.Emit(ctx, eventType, payload)
}

func (s *Service) observeBatch(operation string) func() {
	if s.metrics == nil {
		return func() {}
	}
	s.metrics.AssignmentBatches.WithLabelValues(operation).Inc()
	start := time.Now()
	return func() {
		s.metrics.AssignmentLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}
