package assignment

import (
	"github.com/jwalitptl/hospital-api/internal/model"
)

// Decision is the outcome of a single guard check. NoOp marks transitions
// that are already satisfied (re-assigning a member to its current
// department) and therefore succeed without touching storage.
type Decision struct {
	Allowed bool
	NoOp    bool
	Reason  model.AssignmentReason
}

func allow() Decision     { return Decision{Allowed: true} }
func allowNoOp() Decision { return Decision{Allowed: true, NoOp: true} }

func reject(r model.AssignmentReason) Decision {
	return Decision{Reason: r}
}

// Guard validates proposed assignment transitions against already-loaded
// entity state. All checks are pure; storage is never touched here.
type Guard struct {
	// ExclusiveRooms upgrades the picker-level "room already in use" filter
	// to a hard per-item rejection on direct assigns.
	ExclusiveRooms bool
}

// CanAssignToDepartment enforces the at-most-one-department invariant.
// A member bound to a different department must be removed first; a member
// already in the target department is an idempotent no-op.
func (g Guard) CanAssignToDepartment(currentDepartment *int64, targetDepartment int64) Decision {
	if currentDepartment == nil {
		return allow()
	}
	if *currentDepartment == targetDepartment {
		return allowNoOp()
	}
	return reject(model.ReasonAlreadyAssigned)
}

// CanRemoveFromDepartment only allows removal of an edge that actually
// exists for the given department.
func (g Guard) CanRemoveFromDepartment(currentDepartment *int64, department int64) Decision {
	if currentDepartment == nil || *currentDepartment != department {
		return reject(model.ReasonNotAssigned)
	}
	return allow()
}

// CanAssignRoomToPerson gates the room-to-person axis: the room must already
// belong to the person's department, and the person must have one.
func (g Guard) CanAssignRoomToPerson(personDepartment, roomDepartment *int64, roomInUse, edgeExists bool) Decision {
	if personDepartment == nil {
		return reject(model.ReasonPersonUnassigned)
	}
	if roomDepartment == nil || *roomDepartment != *personDepartment {
		return reject(model.ReasonRoomNotInDepartment)
	}
	if edgeExists {
		return allowNoOp()
	}
	if g.ExclusiveRooms && roomInUse {
		return reject(model.ReasonRoomOccupied)
	}
	return allow()
}

// CanRemoveRoomFromPerson only allows removal of an existing edge.
func (g Guard) CanRemoveRoomFromPerson(edgeExists bool) Decision {
	if !edgeExists {
		return reject(model.ReasonNotAssigned)
	}
	return allow()
}
