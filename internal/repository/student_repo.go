package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/shalemacademy/fees-api/internal/models"
)

// StudentRepository provides access to the branch roster.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByCode(ctx context.Context, branch, code string) (models.Student, error)
	ListActive(ctx context.Context, branch string) ([]models.Student, error)
	SetLifecycle(ctx context.Context, branch, code, status string) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByCode(ctx context.Context, branch, code string) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Where("branch = ? AND code = ?", branch, code).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListActive(ctx context.Context, branch string) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Where("branch = ? AND lifecycle_status = ?", branch, models.StudentStatusActive).
		Order("code ASC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) SetLifecycle(ctx context.Context, branch, code, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("branch = ? AND code = ?", branch, code).
		Update("lifecycle_status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
