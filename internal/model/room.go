package model

import "time"

// Room carries two independent assignment axes: the owning department
// (DepartmentID, nil while unassigned) and zero or more person edges kept in
// the doctor_rooms / nurse_rooms tables. A room can only be linked to a
// person whose department matches the room's department.
type Room struct {
	ID           int64     `db:"id" json:"id"`
	Number       string    `db:"number" json:"number"`
	Floor        int       `db:"floor" json:"floor"`
	DepartmentID *int64    `db:"department_id" json:"department_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
