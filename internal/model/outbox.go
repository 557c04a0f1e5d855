package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Assignment event types emitted through the outbox.
const (
	EventDepartmentDoctorsAssigned = "DEPARTMENT_DOCTORS_ASSIGNED"
	EventDepartmentDoctorsRemoved  = "DEPARTMENT_DOCTORS_REMOVED"
	EventDepartmentNursesAssigned  = "DEPARTMENT_NURSES_ASSIGNED"
	EventDepartmentNursesRemoved   = "DEPARTMENT_NURSES_REMOVED"
	EventDepartmentRoomsAssigned   = "DEPARTMENT_ROOMS_ASSIGNED"
	EventDepartmentRoomsRemoved    = "DEPARTMENT_ROOMS_REMOVED"
	EventDoctorRoomsAssigned       = "DOCTOR_ROOMS_ASSIGNED"
	EventDoctorRoomsRemoved        = "DOCTOR_ROOMS_REMOVED"
	EventNurseRoomsAssigned        = "NURSE_ROOMS_ASSIGNED"
	EventNurseRoomsRemoved         = "NURSE_ROOMS_REMOVED"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}

// AssignmentEventPayload is the outbox payload for every assignment mutation.
type AssignmentEventPayload struct {
	OwnerID int64              `json:"owner_id"`
	Results []AssignmentResult `json:"results"`
}
