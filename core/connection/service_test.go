package connection_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ustazbot/myhafiz/core"
	"github.com/ustazbot/myhafiz/core/connection"
	"github.com/ustazbot/myhafiz/core/user"
	emailsvc "github.com/ustazbot/myhafiz/services/email"
	inmemdb "github.com/ustazbot/myhafiz/storage/database/inmem"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fixture struct {
	svc     *connection.Service
	usrRepo user.Repository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	conf := core.NewConfig()
	conf.TestMode = true

	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, emailsvc.NewConsoleService(conf), conf)
	svc := connection.NewService(inmemdb.NewConnectionRepository(db), usrSvc, emailsvc.NewConsoleService(conf), nopLogger{}, conf)
	return &fixture{svc: svc, usrRepo: usrRepo}
}

func (f *fixture) createUser(t *testing.T, name, email, role string) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Role:      role,
		Language:  user.LangEnglish,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword("Secr3t!pwd"); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	usr, err := f.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func isValidationError(err error) bool {
	_, ok := errors.Cause(err).(*core.ValidationError)
	return ok
}

func TestServiceSend(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	teacher := f.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	parent := f.createUser(t, "Puan Siti", "siti@test.test", user.RoleParent)
	student := f.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)

	conn, err := f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: student.ID})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if conn.Kind != connection.KindTeacher {
		t.Errorf("Kind = %q, want %q", conn.Kind, connection.KindTeacher)
	}
	if conn.Status != connection.StatusPending {
		t.Errorf("Status = %q, want %q", conn.Status, connection.StatusPending)
	}
	if conn.Message == "" {
		t.Error("Message should default to a non-empty text")
	}
	if conn.StudentName != "Ahmad" {
		t.Errorf("StudentName = %q, want hydrated name", conn.StudentName)
	}

	if conn, err = f.svc.Send(ctx, parent, connection.NewConnectionRequest{StudentID: student.ID, Message: "Anakku"}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if conn.Kind != connection.KindParent {
		t.Errorf("Kind = %q, want %q", conn.Kind, connection.KindParent)
	}
	if conn.Message != "Anakku" {
		t.Errorf("Message = %q, want the custom message kept", conn.Message)
	}

	// requests can only target students
	if _, err = f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: parent.ID}); !isValidationError(err) {
		t.Errorf("Send() to non-student error = %v, want a validation error", err)
	}
	// no self requests
	if _, err = f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: teacher.ID}); !isValidationError(err) {
		t.Errorf("Send() to self error = %v, want a validation error", err)
	}
	// students cannot send
	if _, err = f.svc.Send(ctx, student, connection.NewConnectionRequest{StudentID: student.ID}); err == nil {
		t.Error("Send() by student should fail")
	}
}

func TestServiceAccept(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	teacher := f.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	student := f.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	otherStudent := f.createUser(t, "Fatimah", "fatimah@test.test", user.RoleStudent)

	conn, err := f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: student.ID})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	// another student must not even learn the request exists
	if _, err = f.svc.Accept(ctx, otherStudent, conn.ID); errors.Cause(err) != connection.ErrNotFound {
		t.Errorf("Accept() by other student error = %v, want %v", err, connection.ErrNotFound)
	}

	accepted, err := f.svc.Accept(ctx, student, conn.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if accepted.Status != connection.StatusAccepted {
		t.Errorf("Status = %q, want %q", accepted.Status, connection.StatusAccepted)
	}

	// pending -> accepted is the only transition
	if _, err = f.svc.Accept(ctx, student, conn.ID); errors.Cause(err) != connection.ErrNotPending {
		t.Errorf("Accept() again error = %v, want %v", err, connection.ErrNotPending)
	}
}

func TestServiceReject(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	teacher := f.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	student := f.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	otherStudent := f.createUser(t, "Fatimah", "fatimah@test.test", user.RoleStudent)

	conn, err := f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: student.ID})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if err = f.svc.Reject(ctx, otherStudent, conn.ID); errors.Cause(err) != connection.ErrNotFound {
		t.Errorf("Reject() by other student error = %v, want %v", err, connection.ErrNotFound)
	}

	// rejection deletes the record outright
	if err = f.svc.Reject(ctx, student, conn.ID); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}
	if _, err = f.svc.Accept(ctx, student, conn.ID); errors.Cause(err) != connection.ErrNotFound {
		t.Errorf("Accept() after reject error = %v, want %v", err, connection.ErrNotFound)
	}

	// the requester may cancel their own pending request
	if conn, err = f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: student.ID}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if err = f.svc.Reject(ctx, teacher, conn.ID); err != nil {
		t.Errorf("Reject() by requester error = %v", err)
	}

	// accepted connections cannot be rejected
	if conn, err = f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: student.ID}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if _, err = f.svc.Accept(ctx, student, conn.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if err = f.svc.Reject(ctx, student, conn.ID); errors.Cause(err) != connection.ErrNotPending {
		t.Errorf("Reject() accepted error = %v, want %v", err, connection.ErrNotPending)
	}
}

func TestServicePendingCount(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	teacher := f.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	parent := f.createUser(t, "Puan Siti", "siti@test.test", user.RoleParent)
	student := f.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)

	if got := f.svc.PendingCount(ctx, student); got != 0 {
		t.Errorf("PendingCount() = %d, want 0", got)
	}

	if _, err := f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: student.ID}); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	conn, err := f.svc.Send(ctx, parent, connection.NewConnectionRequest{StudentID: student.ID})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if got := f.svc.PendingCount(ctx, student); got != 2 {
		t.Errorf("PendingCount() = %d, want 2", got)
	}
	if got := f.svc.PendingCount(ctx, parent); got != 1 {
		t.Errorf("PendingCount() for requester = %d, want 1", got)
	}

	if _, err = f.svc.Accept(ctx, student, conn.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if got := f.svc.PendingCount(ctx, student); got != 1 {
		t.Errorf("PendingCount() after accept = %d, want 1", got)
	}
}

func TestServiceCanViewProgress(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	teacher := f.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	student := f.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	otherStudent := f.createUser(t, "Fatimah", "fatimah@test.test", user.RoleStudent)

	// everyone can view themselves
	if ok, _ := f.svc.CanViewProgress(ctx, student, student.ID); !ok {
		t.Error("CanViewProgress(self) = false, want true")
	}
	// students cannot view others
	if ok, _ := f.svc.CanViewProgress(ctx, otherStudent, student.ID); ok {
		t.Error("CanViewProgress(student, other) = true, want false")
	}
	// a teacher without an accepted connection cannot view
	if ok, _ := f.svc.CanViewProgress(ctx, teacher, student.ID); ok {
		t.Error("CanViewProgress(unconnected teacher) = true, want false")
	}

	conn, err := f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: student.ID})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	// still pending: no access
	if ok, _ := f.svc.CanViewProgress(ctx, teacher, student.ID); ok {
		t.Error("CanViewProgress(pending teacher) = true, want false")
	}

	if _, err = f.svc.Accept(ctx, student, conn.ID); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
	if ok, _ := f.svc.CanViewProgress(ctx, teacher, student.ID); !ok {
		t.Error("CanViewProgress(accepted teacher) = false, want true")
	}
}

func TestServiceConnectedUserIDs(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	teacher := f.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	student := f.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)

	// duplicate accepted links dedupe to one id
	for i := 0; i < 2; i++ {
		conn, err := f.svc.Send(ctx, teacher, connection.NewConnectionRequest{StudentID: student.ID})
		if err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		if _, err = f.svc.Accept(ctx, student, conn.ID); err != nil {
			t.Fatalf("Accept() error = %v", err)
		}
	}

	ids, err := f.svc.ConnectedUserIDs(ctx, teacher)
	if err != nil {
		t.Fatalf("ConnectedUserIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != student.ID {
		t.Errorf("ConnectedUserIDs() = %v, want [%s]", ids, student.ID)
	}

	ids, err = f.svc.ConnectedUserIDs(ctx, student)
	if err != nil {
		t.Fatalf("ConnectedUserIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != teacher.ID {
		t.Errorf("ConnectedUserIDs() = %v, want [%s]", ids, teacher.ID)
	}
}
