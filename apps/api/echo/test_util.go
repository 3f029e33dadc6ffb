package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ustazbot/myhafiz/core"
	"github.com/ustazbot/myhafiz/core/connection"
	"github.com/ustazbot/myhafiz/core/i18n"
	"github.com/ustazbot/myhafiz/core/progress"
	"github.com/ustazbot/myhafiz/core/quran"
	"github.com/ustazbot/myhafiz/core/user"
	emailsvc "github.com/ustazbot/myhafiz/services/email"
	inmemdb "github.com/ustazbot/myhafiz/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// fakeQuranClient serves canned content; Fail switches it to provider
// exhaustion.
type fakeQuranClient struct {
	Fail bool
}

var _ quran.ClientInterface = (*fakeQuranClient)(nil)

func (c *fakeQuranClient) FetchChapters(ctx context.Context) ([]quran.Chapter, error) {
	if c.Fail {
		return nil, quran.ErrUnavailable
	}
	return []quran.Chapter{{ID: 1, NameSimple: "Al-Fatiha", VersesCount: 7}}, nil
}

func (c *fakeQuranClient) FetchVerses(ctx context.Context, chapterID int) ([]quran.Verse, error) {
	if c.Fail {
		return nil, quran.ErrUnavailable
	}
	return []quran.Verse{{ID: 1, VerseKey: "1:1", TextUthmani: "بِسْمِ اللَّهِ"}}, nil
}

func (c *fakeQuranClient) FetchAudio(ctx context.Context, reciterID, chapterID int) ([]quran.VerseAudio, error) {
	if c.Fail {
		return nil, quran.ErrUnavailable
	}
	return []quran.VerseAudio{{VerseKey: "1:1", URL: "https://audio.test/1.mp3"}}, nil
}

func (c *fakeQuranClient) FetchReciters(ctx context.Context) ([]quran.Reciter, error) {
	if c.Fail {
		return nil, quran.ErrUnavailable
	}
	return []quran.Reciter{{ID: 7, ReciterName: "Mishary Rashid al-Afasy"}}, nil
}

type testEnv struct {
	server  Server
	usrRepo user.Repository
	usrSvc  user.ServiceInterface
	connSvc connection.ServiceInterface
	quran   *fakeQuranClient
}

func initApp(t *testing.T) *testEnv {
	t.Helper()

	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	db := inmemdb.NewDB()
	mailSvc := emailsvc.NewConsoleService(conf)
	usrRepo := inmemdb.NewUserRepository(db)
	usrSvc := user.NewService(usrRepo, mailSvc, conf)
	connSvc := connection.NewService(inmemdb.NewConnectionRepository(db), usrSvc, mailSvc, nopLogger{}, conf)
	progSvc := progress.NewService(inmemdb.NewProgressRepository(db), nopLogger{})
	quranClient := &fakeQuranClient{}

	translators, err := i18n.New()
	if err != nil {
		t.Fatalf("initApp() failed: %v", err)
	}
	validate := validator.New()
	core.InitValidators(validate, translators.Default())
	user.InitValidators(validate, translators.Default())

	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        nopLogger{},
		UserSvc:       usrSvc,
		ConnectionSvc: connSvc,
		ProgressSvc:   progSvc,
		QuranClient:   quranClient,
		Translators:   translators,
		Validate:      validate,
	})

	return &testEnv{
		server:  server,
		usrRepo: usrRepo,
		usrSvc:  usrSvc,
		connSvc: connSvc,
		quran:   quranClient,
	}
}

func (env *testEnv) createUser(t *testing.T, name, email, role string) user.User {
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
	if err := usr.SetPassword("V3ry.s3cret"); err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	usr, err := env.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

func (env *testEnv) sendConnection(t *testing.T, requester, student user.User) connection.Connection {
	t.Helper()
	conn, err := env.connSvc.Send(context.Background(), requester, connection.NewConnectionRequest{
		StudentID: student.ID,
	})
	if err != nil {
		t.Fatalf("sendConnection() failed: %v", err)
	}
	return conn
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
