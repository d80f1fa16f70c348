package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "routes-test-secret"

// --- Stub services ---
//
// The transport tests only exercise auth plumbing and request decoding, so
// the stubs return canned values.

type stubAuthService struct{}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	return &domain.User{Username: username, Provider: domain.ProviderLocal}, nil
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return "stub-token", &domain.User{Username: username, Provider: domain.ProviderLocal}, nil
}

func (s *stubAuthService) OAuthCodeURL(state string) string { return "https://example.com/oauth" }

func (s *stubAuthService) LoginWithOAuthCode(ctx context.Context, code string) (string, *domain.User, error) {
	return "stub-token", &domain.User{Username: "oauth_1", Provider: domain.ProviderOAuth}, nil
}

func (s *stubAuthService) GetJWTSecret() string { return testJWTSecret }

type stubRoutineService struct {
	routines  []domain.Routine
	currentID string
}

func (s *stubRoutineService) List(ctx context.Context, username string) ([]domain.Routine, string, error) {
	return s.routines, s.currentID, nil
}

func (s *stubRoutineService) Create(ctx context.Context, username, title string, weekPlan domain.WeekPlan) (*domain.Routine, error) {
	r := domain.NewRoutine(title)
	r.WeekPlan = weekPlan
	return &r, nil
}

func (s *stubRoutineService) Replace(ctx context.Context, username string, routine domain.Routine) (*domain.Routine, error) {
	return &routine, nil
}

func (s *stubRoutineService) Rename(ctx context.Context, username, routineID, title string) (*domain.Routine, error) {
	return nil, domain.ErrRoutineNotFound
}

func (s *stubRoutineService) Delete(ctx context.Context, username, routineID string) error {
	return domain.ErrRoutineNotFound
}

func (s *stubRoutineService) SetCurrent(ctx context.Context, username, routineID string) error {
	s.currentID = routineID
	return nil
}

func (s *stubRoutineService) AddExercise(ctx context.Context, username, routineID string, day int, item domain.ExerciseItem) (*domain.Routine, error) {
	return nil, domain.ErrRoutineNotFound
}

func (s *stubRoutineService) RemoveExercise(ctx context.Context, username, routineID string, day, index int) (*domain.Routine, error) {
	return nil, domain.ErrRoutineNotFound
}

func (s *stubRoutineService) MoveExercise(ctx context.Context, username, routineID string, day, from, to int) (*domain.Routine, error) {
	return nil, domain.ErrRoutineNotFound
}

type stubPerformService struct{}

func (s *stubPerformService) Today(ctx context.Context, username string) (service.PerformState, error) {
	return service.PerformState{}, nil
}

func (s *stubPerformService) ToggleSet(ctx context.Context, username string, item, set int) (service.PerformState, error) {
	return service.PerformState{}, domain.ErrEmptySession
}

func (s *stubPerformService) CheckAllSets(ctx context.Context, username string, item int) (service.PerformState, error) {
	return service.PerformState{}, domain.ErrEmptySession
}

func (s *stubPerformService) Commit(ctx context.Context, username, memo string) (*domain.CompletionRecord, error) {
	return nil, domain.ErrEmptySession
}

func (s *stubPerformService) Close() {}

type stubLedgerService struct{}

func (s *stubLedgerService) AddCompletion(ctx context.Context, username string, record domain.CompletionRecord) error {
	return record.Validate()
}

func (s *stubLedgerService) RemoveCompletion(ctx context.Context, username, date string) error {
	return service.ErrEntryNotFound
}

func (s *stubLedgerService) ListCompletions(ctx context.Context, username string) ([]domain.CompletionRecord, error) {
	return nil, nil
}

func (s *stubLedgerService) Calendar(ctx context.Context, username string, year int, month time.Month) ([]domain.CalendarCell, error) {
	return domain.MonthGrid(year, month, nil), nil
}

func (s *stubLedgerService) AddProgress(ctx context.Context, username string, entry domain.ProgressEntry) error {
	return entry.Validate()
}

func (s *stubLedgerService) RemoveProgress(ctx context.Context, username, date string) error {
	return service.ErrEntryNotFound
}

func (s *stubLedgerService) Progress(ctx context.Context, username string) (domain.ProgressSeries, error) {
	return domain.SeriesOf(nil), nil
}

type stubProfileService struct{}

func (s *stubProfileService) Get(ctx context.Context, username string) (*domain.User, error) {
	return &domain.User{Username: username, Provider: domain.ProviderLocal}, nil
}

func (s *stubProfileService) UpdateProfile(ctx context.Context, username string, profile domain.Profile) (*domain.User, error) {
	return &domain.User{Username: username, Provider: domain.ProviderLocal, Profile: profile}, nil
}

func (s *stubProfileService) AvatarUploadURL(ctx context.Context, username, contentType string) (string, error) {
	return "https://s3.example.com/put", nil
}

func (s *stubProfileService) AvatarDownloadURL(ctx context.Context, username string) (string, error) {
	return "", service.ErrNoAvatar
}

// --- Helpers ---

func newTestRouter(t *testing.T, routineSvc service.RoutineService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, testJWTSecret,
		&stubAuthService{},
		routineSvc,
		&stubPerformService{},
		&stubLedgerService{},
		&stubProfileService{},
	)
	return router
}

func mintToken(t *testing.T, username, secret string) string {
	t.Helper()
	claims := jwtClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// --- Tests ---

func TestPingIsPublic(t *testing.T) {
	router := newTestRouter(t, &stubRoutineService{})
	w := doRequest(router, http.MethodGet, "/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, &stubRoutineService{})

	w := doRequest(router, http.MethodGet, "/api/v1/routine/list", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/routine/list", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Token signed with the wrong secret.
	bad := mintToken(t, "alice", "some-other-secret")
	w = doRequest(router, http.MethodGet, "/api/v1/routine/list", bad, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutineListWithValidToken(t *testing.T) {
	routine := domain.NewRoutine("push day")
	svc := &stubRoutineService{routines: []domain.Routine{routine}, currentID: routine.ID}
	router := newTestRouter(t, svc)

	token := mintToken(t, "alice", testJWTSecret)
	w := doRequest(router, http.MethodGet, "/api/v1/routine/list", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp RoutineListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Routines, 1)
	assert.Equal(t, "push day", resp.Routines[0].Title)
	assert.Equal(t, routine.ID, resp.CurrentRoutineID)
	assert.Len(t, resp.Routines[0].WeekPlan, domain.DaysPerWeek)
}

func TestOAuthStateIsPerLoginAttempt(t *testing.T) {
	router := newTestRouter(t, &stubRoutineService{})

	stateOf := func(w *httptest.ResponseRecorder) string {
		for _, ck := range w.Result().Cookies() {
			if ck.Name == oauthStateCookie {
				return ck.Value
			}
		}
		return ""
	}

	w := doRequest(router, http.MethodGet, "/api/v1/auth/oauth/login", "", "")
	require.Equal(t, http.StatusFound, w.Code)
	state := stateOf(w)
	require.NotEmpty(t, state)

	// Each login attempt mints its own nonce.
	w = doRequest(router, http.MethodGet, "/api/v1/auth/oauth/login", "", "")
	assert.NotEqual(t, state, stateOf(w))

	// A callback without the cookie is rejected even if the query state is
	// one we handed out: a captured state must not replay.
	w = doRequest(router, http.MethodGet, "/api/v1/auth/oauth/callback?state="+state+"&code=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	callback := func(queryState string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/oauth/callback?state="+queryState+"&code=abc", nil)
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: state})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := callback("forged")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = callback(state)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "stub-token")
}

func TestBodyUsernameMustMatchToken(t *testing.T) {
	router := newTestRouter(t, &stubRoutineService{})
	token := mintToken(t, "alice", testJWTSecret)

	w := doRequest(router, http.MethodPost, "/api/v1/user/curroutine", token,
		`{"username":"mallory","routineId":""}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/user/curroutine", token,
		`{"username":"alice","routineId":""}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddRoutineRejectsShortWeekPlan(t *testing.T) {
	router := newTestRouter(t, &stubRoutineService{})
	token := mintToken(t, "alice", testJWTSecret)

	w := doRequest(router, http.MethodPost, "/api/v1/routine/add", token,
		`{"username":"alice","routine":{"title":"legs","weekPlan":[[],[]]}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCalendarValidatesQuery(t *testing.T) {
	router := newTestRouter(t, &stubRoutineService{})
	token := mintToken(t, "alice", testJWTSecret)

	w := doRequest(router, http.MethodGet, "/api/v1/complete/calendar?year=2026&month=13", token, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/complete/calendar?year=2026&month=2", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cells []domain.CalendarCell `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Cells, 35) // Feb 2026 starts on a Sunday
}

func TestProgressAddRejectsMismatchedDates(t *testing.T) {
	router := newTestRouter(t, &stubRoutineService{})
	token := mintToken(t, "alice", testJWTSecret)

	w := doRequest(router, http.MethodPost, "/api/v1/progress/add", token,
		`{"username":"alice","progress":[{"x":"2026-08-29","y":70.5},{"x":"2026-08-28","y":33.1},{"x":"2026-08-29","y":12.4}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/progress/add", token,
		`{"username":"alice","progress":[{"x":"2026-08-29","y":70.5},{"x":"2026-08-29","y":33.1},{"x":"2026-08-29","y":12.4}]}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAvatarEndpoints(t *testing.T) {
	router := newTestRouter(t, &stubRoutineService{})
	token := mintToken(t, "alice", testJWTSecret)

	w := doRequest(router, http.MethodPost, "/api/v1/user/avatar", token,
		`{"contentType":"application/pdf"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/user/avatar", token,
		`{"contentType":"image/png"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uploadUrl")

	// Stub profile service has no avatar stored.
	w = doRequest(router, http.MethodGet, "/api/v1/user/avatar", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
