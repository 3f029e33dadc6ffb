package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/ustazbot/myhafiz/core/progress"
	"github.com/ustazbot/myhafiz/core/user"
)

func TestProgressApiToggle(t *testing.T) {
	env := initApp(t)
	teacher := env.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	student := env.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	token := getToken(t, student)

	tests := []httpTest{
		{
			name:     "requires auth",
			path:     "/v1/progress/surahs/1/ayahs/1/toggle",
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "teachers cannot toggle",
			token:    getToken(t, teacher),
			path:     "/v1/progress/surahs/1/ayahs/1/toggle",
			wantCode: http.StatusForbidden,
		},
		{
			name:     "mark first ayah",
			token:    token,
			path:     "/v1/progress/surahs/1/ayahs/1/toggle",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SurahProgressResponse{SurahNumber: 1, MemorizedAyahs: []int{1}, TotalAyahs: 7}),
		},
		{
			name:     "mark third ayah",
			token:    token,
			path:     "/v1/progress/surahs/1/ayahs/3/toggle",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SurahProgressResponse{SurahNumber: 1, MemorizedAyahs: []int{1, 3}, TotalAyahs: 7}),
		},
		{
			name:     "toggle back off",
			token:    token,
			path:     "/v1/progress/surahs/1/ayahs/1/toggle",
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SurahProgressResponse{SurahNumber: 1, MemorizedAyahs: []int{3}, TotalAyahs: 7}),
		},
		{
			name:     "surah out of range",
			token:    token,
			path:     "/v1/progress/surahs/115/ayahs/1/toggle",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "ayah out of range",
			token:    token,
			path:     "/v1/progress/surahs/1/ayahs/8/toggle",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "non-numeric surah",
			token:    token,
			path:     "/v1/progress/surahs/abc/ayahs/1/toggle",
			wantCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestProgressApiVisibility(t *testing.T) {
	env := initApp(t)
	teacher := env.createUser(t, "Ustaz Ali", "ali@test.test", user.RoleTeacher)
	stranger := env.createUser(t, "Ustaz Umar", "umar@test.test", user.RoleTeacher)
	student := env.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	other := env.createUser(t, "Fatimah", "fatimah@test.test", user.RoleStudent)

	conn := env.sendConnection(t, teacher, student)
	req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/connections/%s/accept", conn.ID), getToken(t, student))
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("accepting connection: code = %d; body %s", rec.Code, rec.Body.String())
	}

	path := fmt.Sprintf("/v1/progress/%s", student.ID)
	tests := []httpTest{
		{
			name:     "student reads their own",
			token:    getToken(t, student),
			path:     path,
			wantCode: http.StatusOK,
		},
		{
			name:     "connected teacher can read",
			token:    getToken(t, teacher),
			path:     path,
			wantCode: http.StatusOK,
		},
		{
			name:     "unconnected teacher cannot",
			token:    getToken(t, stranger),
			path:     path,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "students cannot read each other",
			token:    getToken(t, other),
			path:     path,
			wantCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func TestProgressApiSummaryAndSurah(t *testing.T) {
	env := initApp(t)
	student := env.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	token := getToken(t, student)

	for _, ayah := range []int{1, 2, 3} {
		req, rec := newAuthRequest(http.MethodPost, fmt.Sprintf("/v1/progress/surahs/1/ayahs/%d/toggle", ayah), token)
		env.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("toggling ayah %d: code = %d", ayah, rec.Code)
		}
	}

	req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/progress/%s/summary", student.ID), token)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
	}
	var summary progress.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	if summary.TotalMemorized != 3 {
		t.Errorf("TotalMemorized = %d, want 3", summary.TotalMemorized)
	}
	if len(summary.Surahs) != 1 {
		t.Fatalf("len(Surahs) = %d, want 1", len(summary.Surahs))
	}
	if s := summary.Surahs[0]; s.SurahName != "Al-Fatiha" || s.Percent != 43 {
		t.Errorf("Surahs[0] = %+v", s)
	}

	tt := httpTest{
		name:     "single surah",
		token:    token,
		wantCode: http.StatusOK,
		wantData: marchallObj(t, SurahProgressResponse{SurahNumber: 1, MemorizedAyahs: []int{1, 2, 3}, TotalAyahs: 7}),
	}
	req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/progress/%s/surahs/1", student.ID), token)
	env.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)

	// untouched surah comes back empty, not 404
	tt = httpTest{
		name:     "untouched surah",
		token:    token,
		wantCode: http.StatusOK,
		wantData: marchallObj(t, SurahProgressResponse{SurahNumber: 112, MemorizedAyahs: []int{}, TotalAyahs: 4}),
	}
	req, rec = newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/progress/%s/surahs/112", student.ID), token)
	env.server.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func TestProgressApiEmptySummary(t *testing.T) {
	env := initApp(t)
	student := env.createUser(t, "Ahmad", "ahmad@test.test", user.RoleStudent)
	token := getToken(t, student)

	req, rec := newAuthRequest(http.MethodGet, fmt.Sprintf("/v1/progress/%s/summary", student.ID), token)
	env.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d; body %s", rec.Code, rec.Body.String())
	}
	var summary progress.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("unmarshaling response: %v", err)
	}
	// a fresh account still renders an Al-Fatiha card at 0%
	if len(summary.Surahs) != 1 || summary.Surahs[0].SurahNumber != 1 || summary.OverallPercent != 0 {
		t.Errorf("summary = %+v", summary)
	}
}
