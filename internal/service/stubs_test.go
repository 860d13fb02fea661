package service

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/shalemacademy/fees-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func studentKey(branch, code string) string {
	return branch + "|" + code
}

type memoryStudentRepo struct {
	students map[string]models.Student
}

func newMemoryStudentRepo() *memoryStudentRepo {
	return &memoryStudentRepo{students: make(map[string]models.Student)}
}

func (m *memoryStudentRepo) add(student models.Student) {
	if student.LifecycleStatus == "" {
		student.LifecycleStatus = models.StudentStatusActive
	}
	m.students[studentKey(student.Branch, student.Code)] = student
}

func (m *memoryStudentRepo) Create(ctx context.Context, student *models.Student) error {
	student.ID = uint(len(m.students) + 1)
	student.CreatedAt = time.Now()
	m.students[studentKey(student.Branch, student.Code)] = *student
	return nil
}

func (m *memoryStudentRepo) GetByCode(ctx context.Context, branch, code string) (models.Student, error) {
	student, ok := m.students[studentKey(branch, code)]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (m *memoryStudentRepo) ListActive(ctx context.Context, branch string) ([]models.Student, error) {
	var students []models.Student
	for _, student := range m.students {
		if student.Branch == branch && student.LifecycleStatus == models.StudentStatusActive {
			students = append(students, student)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].Code < students[j].Code })
	return students, nil
}

func (m *memoryStudentRepo) SetLifecycle(ctx context.Context, branch, code, status string) error {
	student, ok := m.students[studentKey(branch, code)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	student.LifecycleStatus = status
	m.students[studentKey(branch, code)] = student
	return nil
}

type memoryFeeRecordRepo struct {
	records map[uint]models.FeeRecord
	nextID  uint
	saveErr error
}

func newMemoryFeeRecordRepo() *memoryFeeRecordRepo {
	return &memoryFeeRecordRepo{records: make(map[uint]models.FeeRecord), nextID: 1}
}

func (m *memoryFeeRecordRepo) add(record models.FeeRecord) {
	record.ID = m.nextID
	m.records[m.nextID] = record
	m.nextID++
}

func (m *memoryFeeRecordRepo) Get(ctx context.Context, branch, code string, month int) (models.FeeRecord, error) {
	for _, record := range m.records {
		if record.Branch == branch && record.StudentCode == code && record.Month == month {
			return record, nil
		}
	}
	return models.FeeRecord{}, gorm.ErrRecordNotFound
}

func (m *memoryFeeRecordRepo) ListByMonth(ctx context.Context, branch string, month int) ([]models.FeeRecord, error) {
	var records []models.FeeRecord
	for _, record := range m.records {
		if record.Branch == branch && record.Month == month {
			records = append(records, record)
		}
	}
	return records, nil
}

func (m *memoryFeeRecordRepo) ListByBranch(ctx context.Context, branch string) ([]models.FeeRecord, error) {
	var records []models.FeeRecord
	for _, record := range m.records {
		if record.Branch == branch {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Month < records[j].Month })
	return records, nil
}

func (m *memoryFeeRecordRepo) Save(ctx context.Context, record *models.FeeRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if record.ID == 0 {
		record.ID = m.nextID
		m.nextID++
	} else {
		record.Version++
	}
	m.records[record.ID] = *record
	return nil
}

func (m *memoryFeeRecordRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.records, id)
	return nil
}

type memoryCreditRepo struct {
	credits map[uint]models.ReferralCredit
	nextID  uint
}

func newMemoryCreditRepo() *memoryCreditRepo {
	return &memoryCreditRepo{credits: make(map[uint]models.ReferralCredit), nextID: 1}
}

func (m *memoryCreditRepo) add(credit models.ReferralCredit) uint {
	credit.ID = m.nextID
	m.credits[m.nextID] = credit
	m.nextID++
	return credit.ID
}

func (m *memoryCreditRepo) Create(ctx context.Context, credit *models.ReferralCredit) error {
	credit.ID = m.nextID
	credit.CreatedAt = time.Now()
	m.credits[m.nextID] = *credit
	m.nextID++
	return nil
}

func (m *memoryCreditRepo) GetByID(ctx context.Context, id uint) (models.ReferralCredit, error) {
	credit, ok := m.credits[id]
	if !ok {
		return models.ReferralCredit{}, gorm.ErrRecordNotFound
	}
	return credit, nil
}

func (m *memoryCreditRepo) ListUnused(ctx context.Context, branch, code string) ([]models.ReferralCredit, error) {
	var credits []models.ReferralCredit
	for _, credit := range m.credits {
		if credit.Branch == branch && credit.StudentCode == code && !credit.IsUsed {
			credits = append(credits, credit)
		}
	}
	sort.Slice(credits, func(i, j int) bool { return credits[i].ID < credits[j].ID })
	return credits, nil
}

func (m *memoryCreditRepo) ListByBranch(ctx context.Context, branch string) ([]models.ReferralCredit, error) {
	var credits []models.ReferralCredit
	for _, credit := range m.credits {
		if credit.Branch == branch {
			credits = append(credits, credit)
		}
	}
	sort.Slice(credits, func(i, j int) bool { return credits[i].ID > credits[j].ID })
	return credits, nil
}

func (m *memoryCreditRepo) ListRedeemedInMonth(ctx context.Context, branch string, month int) ([]models.ReferralCredit, error) {
	var credits []models.ReferralCredit
	for _, credit := range m.credits {
		if credit.Branch == branch && credit.IsUsed && credit.UsedInMonth != nil && *credit.UsedInMonth == month {
			credits = append(credits, credit)
		}
	}
	return credits, nil
}

func (m *memoryCreditRepo) Redeem(ctx context.Context, id uint, month int, usedAt time.Time) (bool, error) {
	credit, ok := m.credits[id]
	if !ok || credit.IsUsed {
		return false, nil
	}
	credit.IsUsed = true
	credit.UsedInMonth = &month
	credit.UsedDate = &usedAt
	m.credits[id] = credit
	return true, nil
}

func (m *memoryCreditRepo) Release(ctx context.Context, id uint) error {
	credit, ok := m.credits[id]
	if !ok || !credit.IsUsed {
		return gorm.ErrRecordNotFound
	}
	credit.IsUsed = false
	credit.UsedInMonth = nil
	credit.UsedDate = nil
	m.credits[id] = credit
	return nil
}

type memoryExpenseRepo struct {
	expenses []models.DevExpense
	nextID   uint
}

func newMemoryExpenseRepo() *memoryExpenseRepo {
	return &memoryExpenseRepo{nextID: 1}
}

func (m *memoryExpenseRepo) Create(ctx context.Context, expense *models.DevExpense) error {
	expense.ID = m.nextID
	expense.CreatedAt = time.Now()
	m.nextID++
	m.expenses = append(m.expenses, *expense)
	return nil
}

func (m *memoryExpenseRepo) List(ctx context.Context, branch string, month *int) ([]models.DevExpense, error) {
	var expenses []models.DevExpense
	for _, expense := range m.expenses {
		if expense.Branch != branch {
			continue
		}
		if month != nil && expense.Month != *month {
			continue
		}
		expenses = append(expenses, expense)
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ID > expenses[j].ID })
	return expenses, nil
}
