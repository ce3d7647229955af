package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/queue"
	"github.com/iliyamo/yoga-studio-booking/internal/repository"
)

// fakeCourses is an in-memory CourseStore that counts reads.
type fakeCourses struct {
	mu    sync.Mutex
	items map[string]model.Course
	reads int
	err   error
	inst  *fakeInstances
}

func newFakeCourses() *fakeCourses { return &fakeCourses{items: map[string]model.Course{}} }

func (f *fakeCourses) Create(_ context.Context, c *model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ClassInstanceIDs == nil {
		c.ClassInstanceIDs = []string{}
	}
	c.CreatedAt = time.Now().Add(time.Duration(len(f.items)) * time.Millisecond)
	f.items[c.ID] = *c
	return nil
}

func (f *fakeCourses) GetByID(_ context.Context, id string) (*model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.items[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	return &c, nil
}

func (f *fakeCourses) ListAll(_ context.Context) ([]model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	out := []model.Course{}
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeCourses) ListByDay(_ context.Context, day string) ([]model.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Course{}
	for _, c := range f.items {
		if strings.EqualFold(c.DayOfWeek, day) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCourses) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items), nil
}

func (f *fakeCourses) Update(_ context.Context, c *model.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	old, ok := f.items[c.ID]
	if !ok {
		return repository.ErrCourseNotFound
	}
	c.ClassInstanceIDs = old.ClassInstanceIDs
	f.items[c.ID] = *c
	return nil
}

func (f *fakeCourses) Delete(ctx context.Context, id string) (int, error) {
	f.mu.Lock()
	if _, ok := f.items[id]; !ok {
		f.mu.Unlock()
		return 0, repository.ErrCourseNotFound
	}
	delete(f.items, id)
	f.mu.Unlock()
	n := 0
	if f.inst != nil {
		n = f.inst.deleteCourse(id)
	}
	return n, nil
}

func (f *fakeCourses) DeleteAll(_ context.Context) error {
	f.mu.Lock()
	f.items = map[string]model.Course{}
	f.mu.Unlock()
	if f.inst != nil {
		f.inst.mu.Lock()
		f.inst.items = map[string]model.ClassInstance{}
		f.inst.mu.Unlock()
	}
	return nil
}

func (f *fakeCourses) link(courseID, id string, add bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.items[courseID]
	if !ok {
		return repository.ErrCourseNotFound
	}
	if add {
		c.AddClassInstanceID(id)
	} else {
		c.RemoveClassInstanceID(id)
	}
	f.items[courseID] = c
	return nil
}

// fakeInstances is an in-memory ClassInstanceStore. failFor makes
// ListByCourse fail for the named courses.
type fakeInstances struct {
	mu      sync.Mutex
	items   map[string]model.ClassInstance
	courses *fakeCourses
	failFor map[string]bool
	writes  int
}

func newFakeStores() (*fakeCourses, *fakeInstances) {
	courses := newFakeCourses()
	inst := &fakeInstances{items: map[string]model.ClassInstance{}, courses: courses, failFor: map[string]bool{}}
	courses.inst = inst
	return courses, inst
}

func (f *fakeInstances) Create(_ context.Context, ci *model.ClassInstance) error {
	if ci.ID == "" {
		ci.ID = uuid.NewString()
	}
	if err := f.courses.link(ci.CourseID, ci.ID, true); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.items[ci.ID] = *ci
	return nil
}

func (f *fakeInstances) Update(_ context.Context, ci *model.ClassInstance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[ci.ID]; !ok {
		return repository.ErrClassInstanceNotFound
	}
	f.writes++
	f.items[ci.ID] = *ci
	return nil
}

func (f *fakeInstances) GetByID(_ context.Context, id string) (*model.ClassInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ci, ok := f.items[id]
	if !ok {
		return nil, repository.ErrClassInstanceNotFound
	}
	return &ci, nil
}

func (f *fakeInstances) filter(keep func(model.ClassInstance) bool) []model.ClassInstance {
	out := []model.ClassInstance{}
	for _, ci := range f.items {
		if keep(ci) {
			out = append(out, ci)
		}
	}
	sortInstances(out)
	return out
}

func (f *fakeInstances) ListByCourse(_ context.Context, courseID string) ([]model.ClassInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[courseID] {
		return nil, errors.New("backend unavailable")
	}
	return f.filter(func(ci model.ClassInstance) bool { return ci.CourseID == courseID }), nil
}

func (f *fakeInstances) ListUpcomingByCourse(_ context.Context, courseID string, from time.Time) ([]model.ClassInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(ci model.ClassInstance) bool {
		return ci.CourseID == courseID && !ci.Date.Before(from)
	}), nil
}

func (f *fakeInstances) SearchByTeacherPrefix(_ context.Context, prefix string) ([]model.ClassInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(ci model.ClassInstance) bool { return strings.HasPrefix(ci.TeacherName, prefix) }), nil
}

func (f *fakeInstances) ListBetween(_ context.Context, from, to time.Time) ([]model.ClassInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(func(ci model.ClassInstance) bool {
		return !ci.Date.Before(from) && !ci.Date.After(to)
	}), nil
}

func (f *fakeInstances) Delete(_ context.Context, id string) (string, error) {
	f.mu.Lock()
	ci, ok := f.items[id]
	if !ok {
		f.mu.Unlock()
		return "", repository.ErrClassInstanceNotFound
	}
	delete(f.items, id)
	f.mu.Unlock()
	_ = f.courses.link(ci.CourseID, id, false)
	return ci.CourseID, nil
}

func (f *fakeInstances) deleteCourse(courseID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, ci := range f.items {
		if ci.CourseID == courseID {
			delete(f.items, id)
			n++
		}
	}
	return n
}

type fakeNotifications struct {
	mu    sync.Mutex
	saved []model.Notification
}

func (f *fakeNotifications) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.NewString()
	n.Timestamp = time.Now().UTC()
	f.saved = append(f.saved, *n)
	return nil
}

func (f *fakeNotifications) ListByCourse(_ context.Context, courseID string) ([]model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.Notification{}
	for _, n := range f.saved {
		if n.CourseID == courseID {
			out = append(out, n)
		}
	}
	return out, nil
}

type fakeSubs struct {
	mu   sync.Mutex
	subs map[uint64]map[string]bool
	err  error
}

func (f *fakeSubs) Subscribe(_ context.Context, userID uint64, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs == nil {
		f.subs = map[uint64]map[string]bool{}
	}
	if f.subs[userID] == nil {
		f.subs[userID] = map[string]bool{}
	}
	f.subs[userID][topic] = true
	return nil
}

func (f *fakeSubs) Unsubscribe(_ context.Context, userID uint64, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	delete(f.subs[userID], topic)
	return nil
}

func (f *fakeSubs) ListByUser(_ context.Context, userID uint64) ([]model.TopicSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []model.TopicSubscription{}
	for topic := range f.subs[userID] {
		out = append(out, model.TopicSubscription{UserID: userID, Topic: topic})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []queue.PushMessage
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, msg queue.PushMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeBookings struct {
	saved []model.Booking
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	b.ID = uuid.NewString()
	f.saved = append(f.saved, *b)
	return nil
}

func (f *fakeBookings) ListByEmail(_ context.Context, email string) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range f.saved {
		if b.UserEmail == strings.ToLower(email) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeInstructors struct {
	items []model.Instructor
}

func (f *fakeInstructors) Create(_ context.Context, in *model.Instructor) error {
	in.ID = uuid.NewString()
	f.items = append(f.items, *in)
	return nil
}

func (f *fakeInstructors) GetByID(_ context.Context, id string) (*model.Instructor, error) {
	for _, in := range f.items {
		if in.ID == id {
			return &in, nil
		}
	}
	return nil, repository.ErrInstructorNotFound
}

func (f *fakeInstructors) ListAll(context.Context) ([]model.Instructor, error) { return f.items, nil }
func (f *fakeInstructors) Count(context.Context) (int, error)                 { return len(f.items), nil }

func (f *fakeInstructors) Update(_ context.Context, in *model.Instructor) error {
	for i := range f.items {
		if f.items[i].ID == in.ID {
			f.items[i] = *in
			return nil
		}
	}
	return repository.ErrInstructorNotFound
}

func (f *fakeInstructors) Delete(_ context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrInstructorNotFound
}
