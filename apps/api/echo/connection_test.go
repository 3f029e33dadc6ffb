package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/ustazbot/myhafiz/core/connection"
	"github.com/ustazbot/myhafiz/core/user"
)

func TestConnectionApiSend(t *testing.T) {
	env := initApp(t)
	teacher := env.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	student := env.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)

	body := marchallObj(t, connection.NewConnectionRequest{
		StudentID: student.ID,
		Message:   "Assalamualaikum, join my halaqah",
	})

	tests := []httpTest{
		{
			name:     "requires auth",
			body:     body,
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "students cannot send",
			token:    getToken(t, student),
			body:     body,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "unknown student",
			token:    getToken(t, teacher),
			body:     []byte(`{"student_id":"does-not-exist"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing student_id",
			token:    getToken(t, teacher),
			body:     []byte(`{"message":"hi"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "ok",
			token:    getToken(t, teacher),
			body:     body,
			wantCode: http.StatusCreated,
		},
		{
			name:     "repeat requests accumulate",
			token:    getToken(t, teacher),
			body:     body,
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/connections", tt.token, tt.body)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestConnectionApiListAndPendingCount(t *testing.T) {
	env := initApp(t)
	teacher := env.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	parent := env.createUser(t, "Puan Aminah", "aminah@test.test", user.RoleParent)
	student := env.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)

	env.sendConnection(t, teacher, student)
	env.sendConnection(t, parent, student)

	// the student sees both incoming requests
	req, rec := newAuthRequest(http.MethodGet, "/v1/connections", getToken(t, student))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
	}
	var conns []connection.Connection
	if err := json.Unmarshal(rec.Body.Bytes(), &conns); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(conns) != 2 {
		t.Fatalf("len(conns) = %d, want 2", len(conns))
	}
	if conns[0].RequesterName == "" || conns[0].StudentEmail == "" {
		t.Errorf("connection should be hydrated; got %+v", conns[0])
	}

	// the teacher sees only their own edge
	req, rec = newAuthRequest(http.MethodGet, "/v1/connections", getToken(t, teacher))
	env.server.ServeHTTP(rec, req)
	if err := json.Unmarshal(rec.Body.Bytes(), &conns); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(conns) != 1 || conns[0].Kind != connection.KindTeacher {
		t.Errorf("teacher conns = %+v", conns)
	}

	tests := []httpTest{
		{
			name:     "student badge",
			token:    getToken(t, student),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, PendingCountResponse{Count: 2}),
		},
		{
			name:     "requester badge stays clear",
			token:    getToken(t, teacher),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, PendingCountResponse{Count: 0}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/connections/pending-count", tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestConnectionApiAccept(t *testing.T) {
	env := initApp(t)
	teacher := env.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	student := env.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	other := env.createUser(t, "Fatimah", "fatimah@test.test", user.RoleStudent)
	conn := env.sendConnection(t, teacher, student)

	tests := []httpTest{
		{
			name:     "teachers cannot accept",
			token:    getToken(t, teacher),
			path:     fmt.Sprintf("/v1/connections/%s/accept", conn.ID),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "only the addressed student can accept",
			token:    getToken(t, other),
			path:     fmt.Sprintf("/v1/connections/%s/accept", conn.ID),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "unknown id",
			token:    getToken(t, student),
			path:     "/v1/connections/nope/accept",
			wantCode: http.StatusNotFound,
		},
		{
			name:     "ok",
			token:    getToken(t, student),
			path:     fmt.Sprintf("/v1/connections/%s/accept", conn.ID),
			wantCode: http.StatusOK,
		},
		{
			name:     "already accepted",
			token:    getToken(t, student),
			path:     fmt.Sprintf("/v1/connections/%s/accept", conn.ID),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// the accepted edge now carries the accepted status
	req, rec := newAuthRequest(http.MethodGet, "/v1/connections", getToken(t, student))
	env.server.ServeHTTP(rec, req)
	var conns []connection.Connection
	if err := json.Unmarshal(rec.Body.Bytes(), &conns); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(conns) != 1 || conns[0].Status != connection.StatusAccepted {
		t.Errorf("conns = %+v", conns)
	}
}

func TestConnectionApiReject(t *testing.T) {
	env := initApp(t)
	teacher := env.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	student := env.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	conn := env.sendConnection(t, teacher, student)

	req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/connections/%s/reject", conn.ID), getToken(t, student))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
	}

	// rejection deletes the record outright
	req, rec = newAuthRequest(http.MethodGet, "/v1/connections", getToken(t, student))
	env.server.ServeHTTP(rec, req)
	var conns []connection.Connection
	if err := json.Unmarshal(rec.Body.Bytes(), &conns); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if len(conns) != 0 {
		t.Errorf("conns = %+v, want none", conns)
	}

	req, rec = newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/connections/%s/reject", conn.ID), getToken(t, student))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("rejecting twice: code = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
