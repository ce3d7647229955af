package handler

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/repository"
	"github.com/iliyamo/yoga-studio-booking/internal/utils"
)

// memCatalog implements both service.CourseStore and
// service.ClassInstanceStore over two maps.
type memCatalog struct {
	mu        sync.Mutex
	seq       int
	courses   map[string]model.Course
	instances map[string]model.ClassInstance
	err       error
}

func newMemCatalog() *memCatalog {
	return &memCatalog{courses: map[string]model.Course{}, instances: map[string]model.ClassInstance{}}
}

func (m *memCatalog) nextID() string {
	m.seq++
	return strconv.Itoa(m.seq)
}

type memCourses struct{ *memCatalog }
type memInstances struct{ *memCatalog }

func (m memCourses) Create(_ context.Context, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = m.nextID()
	c.ClassInstanceIDs = []string{}
	m.courses[c.ID] = *c
	return nil
}

func (m memCourses) GetByID(_ context.Context, id string) (*model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.courses[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	return &c, nil
}

func (m memCourses) ListAll(context.Context) ([]model.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []model.Course{}
	for i := 1; i <= m.seq; i++ {
		if c, ok := m.courses[strconv.Itoa(i)]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memCourses) ListByDay(ctx context.Context, day string) ([]model.Course, error) {
	all, err := m.ListAll(ctx)
	out := []model.Course{}
	for _, c := range all {
		if strings.EqualFold(c.DayOfWeek, day) {
			out = append(out, c)
		}
	}
	return out, err
}

func (m memCourses) Count(context.Context) (int, error) { return len(m.courses), nil }

func (m memCourses) Update(_ context.Context, c *model.Course) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.courses[c.ID]
	if !ok {
		return repository.ErrCourseNotFound
	}
	c.ClassInstanceIDs = old.ClassInstanceIDs
	m.courses[c.ID] = *c
	return nil
}

func (m memCourses) Delete(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return 0, repository.ErrCourseNotFound
	}
	delete(m.courses, id)
	n := 0
	for k, ci := range m.instances {
		if ci.CourseID == id {
			delete(m.instances, k)
			n++
		}
	}
	return n, nil
}

func (m memCourses) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = map[string]model.Course{}
	m.instances = map[string]model.ClassInstance{}
	return nil
}

func (m memInstances) Create(_ context.Context, ci *model.ClassInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[ci.CourseID]
	if !ok {
		return repository.ErrCourseNotFound
	}
	ci.ID = "ci" + m.nextID()
	c.AddClassInstanceID(ci.ID)
	m.courses[c.ID] = c
	m.instances[ci.ID] = *ci
	return nil
}

func (m memInstances) Update(_ context.Context, ci *model.ClassInstance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instances[ci.ID]; !ok {
		return repository.ErrClassInstanceNotFound
	}
	m.instances[ci.ID] = *ci
	return nil
}

func (m memInstances) GetByID(_ context.Context, id string) (*model.ClassInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ci, ok := m.instances[id]
	if !ok {
		return nil, repository.ErrClassInstanceNotFound
	}
	return &ci, nil
}

func (m memInstances) filter(keep func(model.ClassInstance) bool) []model.ClassInstance {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.ClassInstance{}
	for _, ci := range m.instances {
		if keep(ci) {
			out = append(out, ci)
		}
	}
	return out
}

func (m memInstances) ListByCourse(_ context.Context, courseID string) ([]model.ClassInstance, error) {
	return m.filter(func(ci model.ClassInstance) bool { return ci.CourseID == courseID }), nil
}

func (m memInstances) ListUpcomingByCourse(_ context.Context, courseID string, from time.Time) ([]model.ClassInstance, error) {
	return m.filter(func(ci model.ClassInstance) bool { return ci.CourseID == courseID && !ci.Date.Before(from) }), nil
}

func (m memInstances) SearchByTeacherPrefix(_ context.Context, prefix string) ([]model.ClassInstance, error) {
	return m.filter(func(ci model.ClassInstance) bool { return strings.HasPrefix(ci.TeacherName, prefix) }), nil
}

func (m memInstances) ListBetween(_ context.Context, from, to time.Time) ([]model.ClassInstance, error) {
	return m.filter(func(ci model.ClassInstance) bool { return !ci.Date.Before(from) && !ci.Date.After(to) }), nil
}

func (m memInstances) Delete(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ci, ok := m.instances[id]
	if !ok {
		return "", repository.ErrClassInstanceNotFound
	}
	delete(m.instances, id)
	return ci.CourseID, nil
}

// memUsers is a UserStore; passwords are hashed at bcrypt's minimum cost.
type memUsers struct {
	mu    sync.Mutex
	users []model.User
}

func (m *memUsers) Create(_ context.Context, email, password, role string, _ int) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, 4)
	if err != nil {
		return nil, err
	}
	u := model.User{ID: uint64(len(m.users) + 1), Email: email, PasswordHash: hash, Role: role, IsActive: true}
	m.users = append(m.users, u)
	return &u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memUsers) CountByRole(_ context.Context, role string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

type memToken struct {
	userID  uint64
	revoked bool
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]*memToken
}

func (m *memTokens) StoreRefresh(_ context.Context, userID uint64, hash string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		m.tokens = map[string]*memToken{}
	}
	m.tokens[hash] = &memToken{userID: userID}
	return nil
}

func (m *memTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[hash]
	if !ok || t.revoked {
		return 0, repository.ErrInvalidRefresh
	}
	return t.userID, nil
}

func (m *memTokens) Rotate(ctx context.Context, oldHash, newHash string, exp time.Time) (uint64, error) {
	uid, err := m.ValidateRefresh(ctx, oldHash)
	if err != nil {
		return 0, err
	}
	_ = m.RevokeByHash(ctx, oldHash)
	return uid, m.StoreRefresh(ctx, uid, newHash, exp)
}

func (m *memTokens) RevokeByHash(_ context.Context, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tokens[hash]; ok {
		t.revoked = true
	}
	return nil
}

func (m *memTokens) RevokeAllForUser(_ context.Context, userID uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

// memBookings is an api.Bookings keyed by nothing more than email.
type memBookings struct {
	mu    sync.Mutex
	items []model.Booking
}

func (m *memBookings) Create(_ context.Context, email string, classIDs []string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := model.Booking{
		ID:          "b" + strconv.Itoa(len(m.items)+1),
		UserEmail:   email,
		ClassIDs:    classIDs,
		BookingDate: time.Now().UTC(),
	}
	m.items = append(m.items, b)
	return &b, nil
}

func (m *memBookings) ListByEmail(_ context.Context, email string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Booking{}
	for _, b := range m.items {
		if b.UserEmail == email {
			out = append(out, b)
		}
	}
	return out, nil
}
