package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// Instructors manages the teacher directory. Class instances store teacher
// names, so nothing else changes when an instructor is edited or removed.
type Instructors struct {
	store InstructorStore
}

func NewInstructors(store InstructorStore) *Instructors { return &Instructors{store: store} }

func validateInstructor(in *model.Instructor) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	return nil
}

func (s *Instructors) Create(ctx context.Context, in *model.Instructor) error {
	if err := validateInstructor(in); err != nil {
		return err
	}
	return s.store.Create(ctx, in)
}

func (s *Instructors) Get(ctx context.Context, id string) (*model.Instructor, error) {
	in, err := s.store.GetByID(ctx, id)
	return in, translate(err)
}

func (s *Instructors) List(ctx context.Context) ([]model.Instructor, error) {
	return s.store.ListAll(ctx)
}

func (s *Instructors) Update(ctx context.Context, in *model.Instructor) error {
	if err := validateInstructor(in); err != nil {
		return err
	}
	return translate(s.store.Update(ctx, in))
}

func (s *Instructors) Delete(ctx context.Context, id string) error {
	return translate(s.store.Delete(ctx, id))
}
