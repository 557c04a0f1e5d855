package model

// MemberKind identifies which entity type a department-membership operation
// targets.
type MemberKind string

const (
	MemberKindDoctor MemberKind = "doctor"
	MemberKindNurse  MemberKind = "nurse"
	MemberKindRoom   MemberKind = "room"
)

// PersonKind identifies the owner side of a room-to-person edge.
type PersonKind string

const (
	PersonKindDoctor PersonKind = "doctor"
	PersonKindNurse  PersonKind = "nurse"
)

// MemberKind returns the membership kind matching the person kind.
func (k PersonKind) MemberKind() MemberKind {
	if k == PersonKindNurse {
		return MemberKindNurse
	}
	return MemberKindDoctor
}

// AssignmentReason explains why a single batch item was rejected.
type AssignmentReason string

const (
	ReasonNotFound            AssignmentReason = "NOT_FOUND"
	ReasonAlreadyAssigned     AssignmentReason = "ALREADY_ASSIGNED"
	ReasonNotAssigned         AssignmentReason = "NOT_ASSIGNED"
	ReasonRoomNotInDepartment AssignmentReason = "ROOM_NOT_IN_DEPARTMENT"
	ReasonPersonUnassigned    AssignmentReason = "PERSON_UNASSIGNED"
	ReasonRoomOccupied        AssignmentReason = "ROOM_OCCUPIED"
)

// AssignmentResult is the per-item outcome of a batch mutation. Every id in
// the submitted batch gets exactly one result; a bad id never aborts its
// siblings.
type AssignmentResult struct {
	MemberID  int64            `json:"member_id"`
	Succeeded bool             `json:"succeeded"`
	Reason    AssignmentReason `json:"reason,omitempty"`
}

// BatchOutcome aggregates the per-item results of one assign/remove call.
type BatchOutcome struct {
	Results   []AssignmentResult `json:"results"`
	Succeeded int                `json:"succeeded"`
	Failed    int                `json:"failed"`
}

func (o *BatchOutcome) Record(memberID int64, reason AssignmentReason) {
	if reason == "" {
		o.Results = append(o.Results, AssignmentResult{MemberID: memberID, Succeeded: true})
		o.Succeeded++
		return
	}
	o.Results = append(o.Results, AssignmentResult{MemberID: memberID, Succeeded: false, Reason: reason})
	o.Failed++
}
