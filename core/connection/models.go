package connection

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ustazbot/myhafiz/core"
)

// Kinds of connection edges. A teacher connection links a Teacher to a
// Student; a parent connection links a Parent to a child Student.
const (
	KindTeacher = "teacher"
	KindParent  = "parent"
)

// Request statuses. pending→accepted is the only transition; a rejected
// request is deleted outright and is never seen again.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
)

// Connection is the single authoritative record of a Teacher↔Student or
// Parent↔Student link. Both sides' views are derived from it at read time;
// there are no denormalized id arrays to keep in sync.
type Connection struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	RequesterID string    `json:"requester_id"`
	StudentID   string    `json:"student_id"`
	Status      string    `json:"status"`
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC

	// hydrated from the user records on reads
	RequesterName  string `json:"requester_name,omitempty"`
	RequesterEmail string `json:"requester_email,omitempty"`
	StudentName    string `json:"student_name,omitempty"`
	StudentEmail   string `json:"student_email,omitempty"`
}

// NewConnectionRequest contains information needed to send a link request
// to a Student. The kind is derived from the requester's role.
type NewConnectionRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Message   string `json:"message"`
}

func (nc *NewConnectionRequest) Validate(validate *validator.Validate) error {
	nc.StudentID = core.CleanString(nc.StudentID)
	nc.Message = core.CleanString(nc.Message)
	return validate.Struct(nc)
}

// Filter applies AND operation on its non-zero fields.
type Filter struct {
	RequesterID string
	StudentID   string
	Kind        string
	Status      string
}
