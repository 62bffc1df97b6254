package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/planwise/engine/internal/api/handlers"
	mw "github.com/planwise/engine/internal/api/middleware"
	"github.com/planwise/engine/internal/api/validators"
	"github.com/planwise/engine/internal/auth"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/repository"
	"github.com/planwise/engine/internal/services"
	"github.com/planwise/engine/internal/testutil"
	"github.com/planwise/engine/pkg/database"
	"github.com/planwise/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type testServer struct {
	t  *testing.T
	db *gorm.DB
	h  http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testutil.NewDB(t)

	users := repository.NewUserRepository(db)
	intentionRepo := repository.NewIntentionRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	subprojectRepo := repository.NewSubprojectRepository(db)
	issueRepo := repository.NewIssueRepository(db)

	authn := auth.NewAuthenticator(users, auth.NewHasher(bcrypt.MinCost), auth.NewTokenIssuer([]byte("test-secret-key-for-jwt-signing"), 0))
	v := validators.New()

	h := NewRouter(Dependencies{
		Verifier:    authn,
		CORSOrigins: []string{"https://app.example.com"},
		HealthHandler: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
		}),
		AuthHandler:        handlers.NewAuthHandler(services.NewAccountService(users, authn), v, false, authn.TokenTTL()),
		IntentionsHandler:  handlers.NewIntentionsHandler(services.NewIntentionService(intentionRepo, nil), v),
		ProjectsHandler:    handlers.NewProjectsHandler(services.NewProjectService(intentionRepo, projectRepo, nil), v),
		SubprojectsHandler: handlers.NewSubprojectsHandler(services.NewSubprojectService(projectRepo, subprojectRepo), v),
		IssuesHandler:      handlers.NewIssuesHandler(services.NewIssueService(projectRepo, issueRepo, users), v),
	})
	return &testServer{t: t, db: db, h: h}
}

type response struct {
	Code int
	Body map[string]any
	Raw  *httptest.ResponseRecorder
}

func (r response) data() map[string]any {
	d, _ := r.Body["data"].(map[string]any)
	return d
}

func (r response) errorCode() string {
	e, _ := r.Body["error"].(map[string]any)
	s, _ := e["code"].(string)
	return s
}

func (r response) fieldErrors() map[string]string {
	out := map[string]string{}
	list, _ := r.Body["errors"].([]any)
	for _, item := range list {
		m := item.(map[string]any)
		out[m["field"].(string)] = m["code"].(string)
	}
	return out
}

func (s *testServer) do(method, path, token string, body any) response {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.h.ServeHTTP(rr, req)

	out := response{Code: rr.Code, Raw: rr}
	if rr.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(rr.Body.Bytes(), &out.Body), rr.Body.String())
	}
	return out
}

// login signs up email and returns its access token.
func (s *testServer) login(email string) string {
	s.t.Helper()
	res := s.do(http.MethodPost, "/signup", "", map[string]string{
		"email": email, "password": "password123", "confirmPassword": "password123",
	})
	require.Equal(s.t, http.StatusOK, res.Code, res.Raw.Body.String())

	res = s.do(http.MethodPost, "/login", "", map[string]string{"email": email, "password": "password123"})
	require.Equal(s.t, http.StatusOK, res.Code, res.Raw.Body.String())
	return res.Body["accessToken"].(string)
}

func (s *testServer) create(path, token string, body map[string]any) map[string]any {
	s.t.Helper()
	res := s.do(http.MethodPost, path, token, body)
	require.Equal(s.t, http.StatusCreated, res.Code, res.Raw.Body.String())
	return res.data()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/readyz", "", nil).Code)
}

func TestSignup(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodPost, "/signup", "", map[string]string{
		"email": "ada@example.com", "password": "password123", "confirmPassword": "password123",
	})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Body["success"])
	assert.Equal(t, "ada@example.com", res.data()["email"])
	assert.Equal(t, "FREE", res.data()["role"])
	assert.Equal(t, "FREE", res.data()["type"])

	res = s.do(http.MethodPost, "/signup", "", map[string]string{
		"email": "ada@example.com", "password": "password123", "confirmPassword": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "email_exist", res.fieldErrors()["email"])

	res = s.do(http.MethodPost, "/signup", "", map[string]string{
		"email": "bob@example.com", "password": "password123", "confirmPassword": "password321",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.fieldErrors(), "confirmPassword")

	res = s.do(http.MethodPost, "/signup", "", map[string]string{
		"email": "bob@example.com", "password": "short", "confirmPassword": "short",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.fieldErrors(), "password")
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	s.login("ada@example.com")

	res := s.do(http.MethodPost, "/login", "", map[string]string{"email": "ADA@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.NotEmpty(t, res.Body["accessToken"])
	assert.Equal(t, "FREE", res.Body["role"])
	assert.Equal(t, "ada@example.com", res.Body["email"])
	assert.Contains(t, res.Raw.Header().Get("Set-Cookie"), mw.AccessTokenCookie+"=")
	assert.Contains(t, res.Raw.Header().Get("Set-Cookie"), "HttpOnly")

	wrong := s.do(http.MethodPost, "/login", "", map[string]string{"email": "ada@example.com", "password": "wrong-password"})
	unknown := s.do(http.MethodPost, "/login", "", map[string]string{"email": "nobody@example.com", "password": "password123"})
	assert.Equal(t, http.StatusBadRequest, wrong.Code)
	assert.Equal(t, http.StatusBadRequest, unknown.Code)
	assert.Equal(t, wrong.Body["error"], unknown.Body["error"])
	assert.Equal(t, auth.InvalidCredentialsMessage, wrong.Body["error"].(map[string]any)["message"])

	res = s.do(http.MethodPost, "/login", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "invalid", res.errorCode())
}

func TestAccountRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/account/profile", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/account/intention", "garbage", nil).Code)
}

func TestCookieAuthAndLogout(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")

	req := httptest.NewRequest(http.MethodGet, "/account/profile", nil)
	req.AddCookie(&http.Cookie{Name: mw.AccessTokenCookie, Value: token})
	rr := httptest.NewRecorder()
	s.h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	res := s.do(http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Raw.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestRoleIsReadFromStore(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")

	require.NoError(t, s.db.Model(&models.User{}).Where("email = ?", "ada@example.com").Update("role", "SUSPENDED").Error)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/account/profile", token, nil).Code)

	require.NoError(t, s.db.Model(&models.User{}).Where("email = ?", "ada@example.com").Update("role", models.RoleAdmin).Error)
	res := s.do(http.MethodGet, "/account/profile", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "ADMIN", res.data()["role"])
}

func TestProfileUpdate(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")
	s.login("bob@example.com")

	res := s.do(http.MethodPost, "/account/profile", token, map[string]any{"email": "ada@example.com", "name": "Ada", "website": "https://ada.dev"})
	require.Equal(t, http.StatusOK, res.Code, res.Raw.Body.String())
	profile := res.data()["profile"].(map[string]any)
	assert.Equal(t, "Ada", profile["name"])

	res = s.do(http.MethodPost, "/account/profile", token, map[string]any{"email": "ada@example.com", "location": "London"})
	require.Equal(t, http.StatusOK, res.Code)
	profile = res.data()["profile"].(map[string]any)
	assert.Equal(t, "Ada", profile["name"])
	assert.Equal(t, "London", profile["location"])

	res = s.do(http.MethodPost, "/account/profile", token, map[string]any{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(http.MethodPost, "/account/profile", token, map[string]any{"email": "ada@example.com", "website": "nope"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.fieldErrors(), "website")
}

func TestIntentionCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")

	created := s.create("/account/intention", token, map[string]any{"title": "Ship v1", "description": "first release"})
	id := created["id"].(string)
	assert.Equal(t, "Ship v1", created["title"])

	res := s.do(http.MethodGet, "/account/intention/"+id, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "first release", res.data()["description"])

	res = s.do(http.MethodPut, "/account/intention/"+id, token, map[string]any{"title": "Ship v2"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Ship v2", res.data()["title"])
	assert.Equal(t, "first release", res.data()["description"], "absent field untouched")

	res = s.do(http.MethodPut, "/account/intention/"+id, token, map[string]any{"description": ""})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "", res.data()["description"], "present empty field applied")

	res = s.do(http.MethodPut, "/account/intention/"+id, token, map[string]any{"title": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Contains(t, res.fieldErrors(), "title")

	res = s.do(http.MethodPost, "/account/intention", token, map[string]any{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/account/intention/not-an-id", token, nil).Code)
	assert.Equal(t, "invalid_id", s.do(http.MethodGet, "/account/intention/not-an-id", token, nil).errorCode())

	assert.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/account/intention/"+id, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/account/intention/"+id, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/account/intention/"+id, token, nil).Code)
}

func TestOtherUsersResourcesAreNotFound(t *testing.T) {
	s := newTestServer(t)
	ada := s.login("ada@example.com")
	bob := s.login("bob@example.com")

	intention := s.create("/account/intention", ada, map[string]any{"title": "mine"})["id"].(string)
	project := s.create("/account/project", ada, map[string]any{"intentionId": intention, "title": "p", "key": "ADA"})["id"].(string)
	issue := s.create("/account/issue", ada, map[string]any{"projectId": project, "title": "i"})["id"].(string)

	for _, path := range []string{"/account/intention/" + intention, "/account/project/" + project, "/account/issue/" + issue} {
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, path, bob, nil).Code, path)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodPut, path, bob, map[string]any{"title": "x"}).Code, path)
		assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, path, bob, nil).Code, path)
	}

	res := s.do(http.MethodPost, "/account/project", bob, map[string]any{"intentionId": intention, "title": "p", "key": "BOB"})
	assert.Equal(t, http.StatusNotFound, res.Code)

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/account/intention/"+intention, ada, nil).Code)
}

func TestListPagination(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")

	for n := 1; n <= 5; n++ {
		s.create("/account/intention", token, map[string]any{"title": fmt.Sprintf("t%d", n)})
		time.Sleep(2 * time.Millisecond)
	}

	res := s.do(http.MethodGet, "/account/intentions?pageNumber=1&itemsPerPage=2", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	docs := res.data()["docs"].([]any)
	require.Len(t, docs, 2)
	assert.Equal(t, "t1", docs[0].(map[string]any)["title"])
	assert.Equal(t, "t2", docs[1].(map[string]any)["title"])
	assert.EqualValues(t, 5, res.data()["total"])
	assert.EqualValues(t, 3, res.data()["pages"])
	assert.EqualValues(t, 2, res.data()["limit"])
	assert.EqualValues(t, 1, res.data()["page"])

	res = s.do(http.MethodGet, "/account/intention?sorting=desc&itemsPerPage=2&pageNumber=1", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	docs = res.data()["docs"].([]any)
	assert.Equal(t, "t5", docs[0].(map[string]any)["title"])

	res = s.do(http.MethodGet, "/account/intention", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.data()["docs"].([]any), 5)
	assert.EqualValues(t, 100, res.data()["limit"])

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/account/intention?itemsPerPage=0", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/account/intention?itemsPerPage=101", token, nil).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/account/intention?sorting=sideways", token, nil).Code)
}

func TestNestedListsRequireParent(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")

	for _, path := range []string{"/account/project", "/account/subproject", "/account/issue"} {
		res := s.do(http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code, path)
		assert.Equal(t, "invalid_id", res.errorCode(), path)
	}
	res := s.do(http.MethodPost, "/account/project", token, map[string]any{"intentionId": "nope", "title": "p", "key": "ABC"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "invalid_id", res.errorCode())
}

func TestProjectKeyAndEmbeds(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")
	intention := s.create("/account/intention", token, map[string]any{"title": "i"})["id"].(string)

	project := s.create("/account/project", token, map[string]any{"intentionId": intention, "title": "p", "key": "abc"})
	assert.Equal(t, "ABC", project["key"])
	projectID := project["id"].(string)

	res := s.do(http.MethodPost, "/account/project", token, map[string]any{"intentionId": intention, "title": "dup", "key": "ABC"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "key_exist", res.fieldErrors()["key"])

	res = s.do(http.MethodPost, "/account/project", token, map[string]any{"intentionId": intention, "title": "bad", "key": "TOOLONG"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "projectkey", res.fieldErrors()["key"])

	sub := s.create("/account/subproject", token, map[string]any{"projectId": projectID, "title": "s"})["id"].(string)

	res = s.do(http.MethodGet, "/account/intention/"+intention, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	projects := res.data()["projects"].([]any)
	require.Len(t, projects, 1)
	assert.Equal(t, "ABC", projects[0].(map[string]any)["key"])

	res = s.do(http.MethodGet, "/account/project/"+projectID, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	subs := res.data()["subprojects"].([]any)
	require.Len(t, subs, 1)
	assert.Equal(t, sub, subs[0].(map[string]any)["id"])

	res = s.do(http.MethodGet, "/account/subproject?projectId="+projectID, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.data()["docs"].([]any), 1)

	res = s.do(http.MethodGet, "/account/project?intentionId="+intention, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.data()["docs"].([]any), 1)
}

func TestIssueKeys(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")
	intention := s.create("/account/intention", token, map[string]any{"title": "i"})["id"].(string)
	project := s.create("/account/project", token, map[string]any{"intentionId": intention, "title": "p", "key": "ABC"})["id"].(string)

	first := s.create("/account/issue", token, map[string]any{"projectId": project, "title": "one"})
	second := s.create("/account/issue", token, map[string]any{"projectId": project, "title": "two", "type": "bug", "priority": 5})
	assert.Equal(t, "ABC-1", first["key"])
	assert.Equal(t, "ABC-2", second["key"])
	assert.Equal(t, "task", first["type"])
	assert.Equal(t, "open", first["status"])
	assert.EqualValues(t, 3, first["priority"])
	assert.Equal(t, "bug", second["type"])

	res := s.do(http.MethodPost, "/account/issue", token, map[string]any{"projectId": project, "title": "x", "priority": 9})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.fieldErrors(), "priority")

	res = s.do(http.MethodPut, "/account/issue/"+first["id"].(string), token, map[string]any{"status": "inprogress"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "inprogress", res.data()["status"])
	assert.Equal(t, "ABC-1", res.data()["key"])

	res = s.do(http.MethodPut, "/account/issue/"+first["id"].(string), token, map[string]any{"status": "sleeping"})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
}

func TestIssueKeysConcurrent(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")
	intention := s.create("/account/intention", token, map[string]any{"title": "i"})["id"].(string)
	project := s.create("/account/project", token, map[string]any{"intentionId": intention, "title": "p", "key": "ABC"})["id"].(string)

	keys := make(chan string, 2)
	var wg sync.WaitGroup
	for n := 0; n < 2; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, _ := json.Marshal(map[string]any{"projectId": project, "title": "c"})
			req := httptest.NewRequest(http.MethodPost, "/account/issue", bytes.NewReader(body))
			req.Header.Set("Authorization", "Bearer "+token)
			rr := httptest.NewRecorder()
			s.h.ServeHTTP(rr, req)
			var out struct {
				Data struct {
					Key string `json:"key"`
				} `json:"data"`
			}
			if rr.Code == http.StatusCreated && json.Unmarshal(rr.Body.Bytes(), &out) == nil {
				keys <- out.Data.Key
			}
		}()
	}
	wg.Wait()
	close(keys)

	got := map[string]bool{}
	for k := range keys {
		got[k] = true
	}
	assert.Equal(t, map[string]bool{"ABC-1": true, "ABC-2": true}, got)
}

func TestDeleteCascades(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")
	intention := s.create("/account/intention", token, map[string]any{"title": "i"})["id"].(string)
	project := s.create("/account/project", token, map[string]any{"intentionId": intention, "title": "p", "key": "CAS"})["id"].(string)
	sub := s.create("/account/subproject", token, map[string]any{"projectId": project, "title": "s"})["id"].(string)
	issue := s.create("/account/issue", token, map[string]any{"projectId": project, "title": "x"})["id"].(string)

	require.Equal(t, http.StatusOK, s.do(http.MethodDelete, "/account/intention/"+intention, token, nil).Code)

	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/account/project/"+project, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/account/subproject/"+sub, token, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodGet, "/account/issue/"+issue, token, nil).Code)

	// the key is free again once its project is gone
	other := s.create("/account/intention", token, map[string]any{"title": "again"})["id"].(string)
	s.create("/account/project", token, map[string]any{"intentionId": other, "title": "p", "key": "CAS"})
}

func TestRateLimitReturns429(t *testing.T) {
	s := newTestServer(t)
	limiter := mw.NewMemoryLimiter(0.001, 1)
	defer limiter.Stop()
	h := mw.RateLimit(limiter, nil)(s.h)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
}

func TestSignupPasswordByteLimit(t *testing.T) {
	s := newTestServer(t)
	long := strings.Repeat("a", 73)

	res := s.do(http.MethodPost, "/signup", "", map[string]string{
		"email": "ada@example.com", "password": long, "confirmPassword": long,
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "maxbytes", res.fieldErrors()["password"])

	res = s.do(http.MethodPost, "/login", "", map[string]string{"email": "ada@example.com", "password": long})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "maxbytes", res.fieldErrors()["password"])

	exact := strings.Repeat("a", 72)
	res = s.do(http.MethodPost, "/signup", "", map[string]string{
		"email": "ada@example.com", "password": exact, "confirmPassword": exact,
	})
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestBlankTitleRejected(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")

	res := s.do(http.MethodPost, "/account/intention", token, map[string]any{"title": "   "})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "notblank", res.fieldErrors()["title"])

	id := s.create("/account/intention", token, map[string]any{"title": "ship"})["id"].(string)
	res = s.do(http.MethodPut, "/account/intention/"+id, token, map[string]any{"title": "\t "})
	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
	assert.Equal(t, "notblank", res.fieldErrors()["title"])
}

func TestIssueAssigneeMustBeAUser(t *testing.T) {
	s := newTestServer(t)
	token := s.login("ada@example.com")
	s.login("bob@example.com")
	var bob models.User
	require.NoError(t, s.db.Where("email = ?", "bob@example.com").First(&bob).Error)

	intention := s.create("/account/intention", token, map[string]any{"title": "i"})["id"].(string)
	project := s.create("/account/project", token, map[string]any{"intentionId": intention, "title": "p", "key": "ASN"})["id"].(string)

	res := s.do(http.MethodPost, "/account/issue", token, map[string]any{"projectId": project, "title": "x", "assignee": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "assignee_not_found", res.fieldErrors()["assignee"])

	issue := s.create("/account/issue", token, map[string]any{"projectId": project, "title": "x", "assignee": bob.ID.String()})
	res = s.do(http.MethodGet, "/account/issue/"+issue["id"].(string), token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, bob.ID.String(), res.data()["assignee"])

	res = s.do(http.MethodPut, "/account/issue/"+issue["id"].(string), token, map[string]any{"assignee": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestCORSPreflightSkipsAuth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/account/intention", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	s.h.ServeHTTP(rr, req)

	assert.Contains(t, []int{http.StatusOK, http.StatusNoContent}, rr.Code)
	assert.Equal(t, "https://app.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))
}
