package connection

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core"
	"github.com/ustazbot/myhafiz/core/user"
)

var (
	// errors
	ErrNotFound    = errors.New("connection request not found")
	ErrNotPending  = errors.New("connection request is no longer pending")
	ErrNotAStudent = errors.New("requests can only be sent to students")
	ErrSelfRequest = errors.New("cannot send a connection request to yourself")
)

type (
	Repository interface {
		CreateConnection(ctx context.Context, conn Connection) (Connection, error)
		GetConnectionByID(ctx context.Context, id string) (Connection, error)
		// FilterConnections applies AND operation on set Filter fields and
		// hydrates counterpart names/emails.
		FilterConnections(ctx context.Context, filter Filter) ([]Connection, error)
		// AcceptConnection flips pending→accepted in a single transaction.
		// Returns ErrNotPending when the request exists but is not pending.
		AcceptConnection(ctx context.Context, id string) (Connection, error)
		DeleteConnection(ctx context.Context, id string) error
		CountConnections(ctx context.Context, filter Filter) (int, error)
	}

	ServiceInterface interface {
		Send(ctx context.Context, requester user.User, nc NewConnectionRequest) (Connection, error)
		Accept(ctx context.Context, student user.User, id string) (Connection, error)
		Reject(ctx context.Context, usr user.User, id string) error
		ListForUser(ctx context.Context, usr user.User) ([]Connection, error)
		PendingCount(ctx context.Context, usr user.User) int
		ConnectedUserIDs(ctx context.Context, usr user.User) ([]string, error)
		CanViewProgress(ctx context.Context, viewer user.User, targetID string) (bool, error)
	}

	Service struct {
		repo    Repository
		usrSvc  user.ServiceInterface
		mailSvc core.EmailService
		logger  core.Logger
		conf    *core.Config
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, usrSvc user.ServiceInterface, mailSvc core.EmailService, logger core.Logger, conf *core.Config) *Service {
	return &Service{
		repo:    repo,
		usrSvc:  usrSvc,
		mailSvc: mailSvc,
		logger:  logger,
		conf:    conf,
	}
}

// KindForRole maps a requester role to a connection kind.
func KindForRole(role string) (string, bool) {
	switch role {
	case user.RoleTeacher:
		return KindTeacher, true
	case user.RoleParent:
		return KindParent, true
	}
	return "", false
}

// Send creates a pending request from a Teacher/Parent to a Student.
// Duplicate pending requests to the same student are allowed to accumulate;
// accept/reject always act on a single request id.
func (svc *Service) Send(ctx context.Context, requester user.User, nc NewConnectionRequest) (Connection, error) {
	kind, ok := KindForRole(requester.Role)
	if !ok {
		return Connection{}, errors.Wrapf(ErrNotFound, "role %q cannot send requests", requester.Role)
	}
	if nc.StudentID == requester.ID {
		return Connection{}, core.NewValidationError(ErrSelfRequest)
	}

	student, err := svc.usrSvc.GetByID(ctx, nc.StudentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Connection{}, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: err.Error()})
		}
		return Connection{}, errors.Wrap(err, "finding student")
	}
	if !student.IsStudent() {
		return Connection{}, core.NewValidationError(ErrNotAStudent, core.FieldError{Field: "student_id", Error: ErrNotAStudent.Error()})
	}

	msg := nc.Message
	if msg == "" {
		msg = fmt.Sprintf("%s wants to connect with you as your %s.", requester.Name, kind)
	}

	now := time.Now().UTC()
	conn, err := svc.repo.CreateConnection(ctx, Connection{
		ID:          uuid.New().String(),
		Kind:        kind,
		RequesterID: requester.ID,
		StudentID:   student.ID,
		Status:      StatusPending,
		Message:     msg,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return Connection{}, errors.Wrap(err, "creating connection request")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject: "New Connection Request",
		Body: fmt.Sprintf(
			"Assalamualaikum %s,\n\n%s\n\nLog in to %s to accept or reject this request:\n%s/notifications",
			student.Name, msg, svc.conf.AppName, svc.conf.FrontendBaseURL,
		),
	})
	return conn, nil
}

// Accept transitions a pending request addressed to the given student to
// accepted. The status flip is a single transactional write; an accepted
// connection is the only record of the link.
func (svc *Service) Accept(ctx context.Context, student user.User, id string) (Connection, error) {
	conn, err := svc.repo.GetConnectionByID(ctx, id)
	if err != nil {
		return Connection{}, err
	}
	if conn.StudentID != student.ID {
		// do not reveal other users' requests
		return Connection{}, ErrNotFound
	}

	conn, err = svc.repo.AcceptConnection(ctx, id)
	if err != nil {
		return Connection{}, errors.Wrap(err, "accepting connection request")
	}

	if requester, rerr := svc.usrSvc.GetByID(ctx, conn.RequesterID); rerr == nil {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: requester.Name, Address: requester.Email}},
			Subject: "Connection Request Accepted",
			Body: fmt.Sprintf(
				"Assalamualaikum %s,\n\n%s has accepted your connection request on %s.",
				requester.Name, student.Name, svc.conf.AppName,
			),
		})
	}
	return conn, nil
}

// Reject deletes a pending request. The student the request is addressed to
// may reject it; the requester may cancel their own. There is no audit trail
// and no revocation of accepted connections.
func (svc *Service) Reject(ctx context.Context, usr user.User, id string) error {
	conn, err := svc.repo.GetConnectionByID(ctx, id)
	if err != nil {
		return err
	}
	if conn.StudentID != usr.ID && conn.RequesterID != usr.ID {
		return ErrNotFound
	}
	if conn.Status != StatusPending {
		return ErrNotPending
	}
	return svc.repo.DeleteConnection(ctx, id)
}

// ListForUser returns the connections visible to a user: for a Teacher/Parent
// their outgoing requests and accepted students; for a Student the requests
// addressed to them. Read failures degrade to an empty list.
func (svc *Service) ListForUser(ctx context.Context, usr user.User) ([]Connection, error) {
	filter := Filter{RequesterID: usr.ID}
	if usr.IsStudent() {
		filter = Filter{StudentID: usr.ID}
	}

	conns, err := svc.repo.FilterConnections(ctx, filter)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("listing connections: %v", err), err, usr)
		return []Connection{}, nil
	}
	if conns == nil {
		conns = []Connection{}
	}
	return conns, nil
}

// PendingCount powers the notification badge poll. Failures degrade to 0.
func (svc *Service) PendingCount(ctx context.Context, usr user.User) int {
	filter := Filter{RequesterID: usr.ID, Status: StatusPending}
	if usr.IsStudent() {
		filter = Filter{StudentID: usr.ID, Status: StatusPending}
	}

	count, err := svc.repo.CountConnections(ctx, filter)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("counting pending connections: %v", err), err, usr)
		return 0
	}
	return count
}

// ConnectedUserIDs returns the accepted counterpart ids: students/children
// for a Teacher/Parent, the teacher and parents for a Student.
func (svc *Service) ConnectedUserIDs(ctx context.Context, usr user.User) ([]string, error) {
	filter := Filter{RequesterID: usr.ID, Status: StatusAccepted}
	mine := func(c Connection) string { return c.StudentID }
	if usr.IsStudent() {
		filter = Filter{StudentID: usr.ID, Status: StatusAccepted}
		mine = func(c Connection) string { return c.RequesterID }
	}

	conns, err := svc.repo.FilterConnections(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "filtering accepted connections")
	}

	seen := make(map[string]struct{}, len(conns))
	ids := make([]string, 0, len(conns))
	for _, conn := range conns {
		id := mine(conn)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// CanViewProgress reports whether viewer may read targetID's memorization
// progress: themselves, or a Teacher/Parent with an accepted connection.
func (svc *Service) CanViewProgress(ctx context.Context, viewer user.User, targetID string) (bool, error) {
	if viewer.ID == targetID {
		return true, nil
	}
	if viewer.IsStudent() {
		return false, nil
	}

	count, err := svc.repo.CountConnections(ctx, Filter{
		RequesterID: viewer.ID,
		StudentID:   targetID,
		Status:      StatusAccepted,
	})
	if err != nil {
		return false, errors.Wrap(err, "counting accepted connections")
	}
	return count > 0, nil
}
