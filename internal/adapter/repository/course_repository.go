package repository

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	apperrors "github.com/ientropic/ClassCodex/errors"
	"github.com/ientropic/ClassCodex/internal/domain/entities"
)

// CourseRepository reads the course schedule store. The store is maintained
// by the course management surface and is read-only here.
type CourseRepository struct {
	path     string
	validate *validator.Validate
}

// NewCourseRepository creates a course repository over a YAML store file.
func NewCourseRepository(path string) *CourseRepository {
	return &CourseRepository{
		path:     path,
		validate: validator.New(),
	}
}

type courseStore struct {
	Courses []entities.Course `yaml:"courses"`
}

// LoadCourses reads and validates all courses. A missing store file yields
// an empty course list, not an error: every recording then lands in the
// Unknown Course collection.
func (r *CourseRepository) LoadCourses() ([]entities.Course, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.ErrCourseStore(r.path, err)
	}

	var store courseStore
	if err := yaml.Unmarshal(data, &store); err != nil {
		return nil, apperrors.ErrCourseStore(r.path, err)
	}

	for _, course := range store.Courses {
		if err := r.validate.Struct(course); err != nil {
			return nil, apperrors.ErrCourseStore(r.path, err).WithDetail("course", course.Name)
		}
		for _, s := range course.Schedules {
			if err := s.Validate(); err != nil {
				return nil, apperrors.ErrCourseStore(r.path, err).WithDetail("course", course.Name)
			}
		}
	}

	return store.Courses, nil
}
