package model

import "time"

// Doctor belongs to at most one department at a time. DepartmentID is nil
// while the doctor is unassigned.
type Doctor struct {
	ID           int64     `db:"id" json:"id"`
	FullName     string    `db:"full_name" json:"full_name"`
	Specialty    string    `db:"specialty" json:"specialty"`
	DepartmentID *int64    `db:"department_id" json:"department_id,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
