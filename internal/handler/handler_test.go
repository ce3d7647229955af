package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/yoga-studio-booking/internal/api"
	"github.com/iliyamo/yoga-studio-booking/internal/cache"
	"github.com/iliyamo/yoga-studio-booking/internal/config"
	"github.com/iliyamo/yoga-studio-booking/internal/middleware"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/service"
	"github.com/iliyamo/yoga-studio-booking/internal/utils"
)

type testServer struct {
	e        *echo.Echo
	store    *memCatalog
	users    *memUsers
	bookings *memBookings
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	store := newMemCatalog()
	courses, instances := memCourses{store}, memInstances{store}
	catalog := service.NewCatalog(courses, instances, cache.NewMemoryCourseCache(16, time.Minute), time.UTC)
	catalogH := NewCatalogHandler(catalog)
	searchH := NewSearchHandler(service.NewSearch(courses, instances, time.UTC), time.UTC)
	users, bookings := &memUsers{}, &memBookings{}
	bookingH := NewBookingHandler(api.NewFacade(catalog, bookings), users)
	auth := NewAuthHandler(config.Config{JWTSecret: testSecret, AccessTTLMin: 5, RefreshTTLDays: 1}, users, &memTokens{})

	e := echo.New()
	e.Validator = NewValidator()
	e.GET("/v1/courses", catalogH.ListCourses)
	e.GET("/v1/courses/:id", catalogH.GetCourse)
	e.POST("/v1/admin/courses", catalogH.CreateCourse)
	e.DELETE("/v1/admin/courses/:id", catalogH.DeleteCourse)
	e.POST("/v1/admin/instances", catalogH.CreateInstance)
	e.GET("/v1/search/instances", searchH.Instances)
	e.GET("/v1/search/courses", searchH.Courses)
	e.POST("/v1/bookings", bookingH.Create, middleware.JWTAuth(testSecret))
	e.GET("/v1/bookings", bookingH.ListByEmail, middleware.JWTAuth(testSecret))
	e.POST("/v1/auth/register", auth.Register)
	e.POST("/v1/auth/login", auth.Login)
	e.POST("/v1/auth/refresh", auth.Refresh)
	return testServer{e: e, store: store, users: users, bookings: bookings}
}

const testSecret = "secret"

func (s testServer) do(method, path, body string) *httptest.ResponseRecorder {
	return s.doAs("", method, path, body)
}

// doAs sends the request with token as the bearer when it is not empty.
func (s testServer) doAs(token, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

const mondayCourse = `{"name":"Morning Flow","dayOfWeek":"monday","time":"07:00","capacity":10,"duration":60,"price":15}`

func TestCourseLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/v1/courses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "empty", decodeBody(t, rec)["state"])

	rec = s.do(http.MethodPost, "/v1/admin/courses", mondayCourse)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, "Monday", created["dayOfWeek"])
	id := created["id"].(string)

	rec = s.do(http.MethodGet, "/v1/courses", "")
	assert.Equal(t, "loaded", decodeBody(t, rec)["state"])

	rec = s.do(http.MethodPost, "/v1/admin/instances",
		`{"courseId":"`+id+`","date":"2024-03-05T07:00:00Z","teacherName":"Sarah"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "2024-03-05 is a Tuesday")
	assert.Contains(t, decodeBody(t, rec)["error"], "does not match")

	rec = s.do(http.MethodPost, "/v1/admin/instances",
		`{"courseId":"`+id+`","date":"2024-03-04T07:00:00Z","teacherName":"Sarah"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodDelete, "/v1/admin/courses/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decodeBody(t, rec)["classInstancesDeleted"])

	rec = s.do(http.MethodGet, "/v1/courses/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCourseValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/v1/admin/courses", `{"name":" ","dayOfWeek":"Funday","capacity":0,"duration":60}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeBody(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "dayOfWeek")
	assert.Contains(t, fields, "capacity")
	assert.Equal(t, "dayOfWeek must be a day of the week, e.g. Monday", fields["dayOfWeek"])
}

func TestListFailureShowsEmptyState(t *testing.T) {
	s := newTestServer(t)
	s.store.err = errors.New("dial tcp 10.0.0.1:3306: connect: connection refused")
	rec := s.do(http.MethodGet, "/v1/courses", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "empty", body["state"])
	assert.Empty(t, body["items"])
}

func TestSearchParams(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/v1/search/instances", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/v1/search/instances?date=04-03-2024", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodGet, "/v1/search/courses?day=Mon", "").Code)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/v1/admin/courses", mondayCourse).Code)
	rec := s.do(http.MethodGet, "/v1/search/courses?day=MONDAY", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["items"], 1)

	rec = s.do(http.MethodGet, "/v1/search/instances?day=Monday", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "empty", decodeBody(t, rec)["state"])
}

// tokenFor creates an account and signs an access token for it.
func (s testServer) tokenFor(t *testing.T, email, role string) string {
	t.Helper()
	u, err := s.users.Create(context.Background(), email, "longenough", role, 4)
	require.NoError(t, err)
	tok, err := utils.NewAccessToken(testSecret, u.ID, role, 5)
	require.NoError(t, err)
	return tok.Token
}

func TestBookingWithoutClasses(t *testing.T) {
	s := newTestServer(t)
	ann := s.tokenFor(t, "ann@example.com", model.RoleCustomer)
	rec := s.doAs(ann, http.MethodPost, "/v1/bookings", `{"email":"ann@example.com","classIds":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No class instances provided", decodeBody(t, rec)["error"])
}

func TestBookingsAreScopedToCaller(t *testing.T) {
	s := newTestServer(t)
	ann := s.tokenFor(t, "ann@example.com", model.RoleCustomer)
	bob := s.tokenFor(t, "bob@example.com", model.RoleCustomer)
	s.bookings.items = []model.Booking{
		{ID: "b1", UserEmail: "ann@example.com", ClassIDs: []string{"c1"}},
		{ID: "b2", UserEmail: "bob@example.com", ClassIDs: []string{"c2"}},
	}

	rec := s.doAs(bob, http.MethodGet, "/v1/bookings?email=ann@example.com", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.doAs(bob, http.MethodPost, "/v1/bookings", `{"email":"ann@example.com","classIds":["c1"]}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, s.bookings.items, 2)

	rec = s.doAs(ann, http.MethodGet, "/v1/bookings", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := decodeBody(t, rec)["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "b1", items[0].(map[string]any)["id"])

	rec = s.doAs(ann, http.MethodGet, "/v1/bookings?email=ANN@example.com", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/v1/bookings", "").Code)
}

func TestAdminReadsAnyBookings(t *testing.T) {
	s := newTestServer(t)
	admin := s.tokenFor(t, "admin@studio.com", model.RoleAdmin)
	s.bookings.items = []model.Booking{{ID: "b1", UserEmail: "ann@example.com"}}

	rec := s.doAs(admin, http.MethodGet, "/v1/bookings?email=ann@example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["items"].([]any), 1)

	rec = s.doAs(admin, http.MethodGet, "/v1/bookings", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterLoginRefresh(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/v1/auth/register", `{"email":"Admin@Studio.com","password":"longenough","role":"ADMIN"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "admin@studio.com", user["email"])
	assert.Equal(t, model.RoleAdmin, user["role"])

	rec = s.do(http.MethodPost, "/v1/auth/register", `{"email":"second@studio.com","password":"longenough","role":"ADMIN"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/v1/auth/register", `{"email":"admin@studio.com","password":"longenough"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/v1/auth/register", `{"email":"nope","password":"short"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := decodeBody(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	rec = s.do(http.MethodPost, "/v1/auth/login", `{"email":"admin@studio.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/v1/auth/login", `{"email":"admin@studio.com","password":"longenough"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	refresh := decodeBody(t, rec)["refresh"].(map[string]any)["token"].(string)

	rec = s.do(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+refresh+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	// the old token was rotated away
	rec = s.do(http.MethodPost, "/v1/auth/refresh", `{"refresh_token":"`+refresh+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrCourseNotFound, http.StatusNotFound},
		{service.ErrWeekdayMismatch, http.StatusUnprocessableEntity},
		{service.ErrClassFull, http.StatusConflict},
		{service.ErrAlreadyEnrolled, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
