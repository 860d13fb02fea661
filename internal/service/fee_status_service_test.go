package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shalemacademy/fees-api/internal/models"
)

func newFeeStatusFixture() (*memoryStudentRepo, *memoryFeeRecordRepo, *memoryCreditRepo, FeeStatusService) {
	students := newMemoryStudentRepo()
	records := newMemoryFeeRecordRepo()
	credits := newMemoryCreditRepo()
	svc := NewFeeStatusService(students, records, credits, testLogger())
	return students, records, credits, svc
}

func TestGetStatusSynthesizesNABeforeJoinMonth(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 3})

	status, err := svc.GetStatus(context.Background(), "north", "S01", 1)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusNA, status.Status)
}

func TestGetStatusDefaultsPendingForActiveMonth(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 3})

	status, err := svc.GetStatus(context.Background(), "north", "S01", 5)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPending, status.Status)
	require.Zero(t, status.AmountCollected)
}

func TestGetStatusRejectsInvalidMonth(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500})

	_, err := svc.GetStatus(context.Background(), "north", "S01", 12)
	require.ErrorIs(t, err, ErrInvalidMonth)
}

func TestGetStatusUnknownStudent(t *testing.T) {
	_, _, _, svc := newFeeStatusFixture()

	_, err := svc.GetStatus(context.Background(), "north", "missing", 3)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestMarkPaidRecordsFullFee(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})

	status, err := svc.MarkPaid(context.Background(), "north", "S01", 4)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPaid, status.Status)
	require.Equal(t, 500, status.AmountCollected)
	require.NotEmpty(t, status.ReceiptNumber)
	require.NotNil(t, status.PaidAt)
}

func TestMarkPaidTwiceIsInvalidTransition(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})

	_, err := svc.MarkPaid(context.Background(), "north", "S01", 4)
	require.NoError(t, err)

	_, err = svc.MarkPaid(context.Background(), "north", "S01", 4)
	require.ErrorIs(t, err, ErrInvalidTransition)

	status, err := svc.GetStatus(context.Background(), "north", "S01", 4)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPaid, status.Status)
}

func TestMarkPaidBeforeJoinMonthRejected(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 6})

	_, err := svc.MarkPaid(context.Background(), "north", "S01", 2)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMarkPaidMonthsAreIndependent(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})

	_, err := svc.MarkPaid(context.Background(), "north", "S01", 5)
	require.NoError(t, err)

	earlier, err := svc.GetStatus(context.Background(), "north", "S01", 3)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPending, earlier.Status, "paying a later month must not settle earlier ones")
}

func TestMarkPaidWithCreditCoversFullFee(t *testing.T) {
	students, _, credits, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})
	creditID := credits.add(models.ReferralCredit{Branch: "north", StudentCode: "S01", Amount: 500, Reason: "referred S09"})

	status, err := svc.MarkPaidWithCredit(context.Background(), "north", "S01", 4, creditID)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPaid, status.Status)
	require.Zero(t, status.AmountCollected)
	require.NotNil(t, status.CreditID)

	credit, err := credits.GetByID(context.Background(), creditID)
	require.NoError(t, err)
	require.True(t, credit.IsUsed)
	require.NotNil(t, credit.UsedInMonth)
	require.Equal(t, 4, *credit.UsedInMonth)
	require.NotNil(t, credit.UsedDate)
}

func TestMarkPaidWithCreditPartial(t *testing.T) {
	students, _, credits, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})
	creditID := credits.add(models.ReferralCredit{Branch: "north", StudentCode: "S01", Amount: 200, Reason: "referred S09"})

	status, err := svc.MarkPaidWithCredit(context.Background(), "north", "S01", 4, creditID)
	require.NoError(t, err)
	require.Equal(t, 300, status.AmountCollected)
}

func TestMarkPaidWithCreditRejectsUsedCredit(t *testing.T) {
	students, _, credits, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})
	creditID := credits.add(models.ReferralCredit{Branch: "north", StudentCode: "S01", Amount: 500, Reason: "referred S09"})

	_, err := svc.MarkPaidWithCredit(context.Background(), "north", "S01", 4, creditID)
	require.NoError(t, err)

	_, err = svc.MarkPaidWithCredit(context.Background(), "north", "S01", 5, creditID)
	require.ErrorIs(t, err, ErrCreditAlreadyUsed)

	later, err := svc.GetStatus(context.Background(), "north", "S01", 5)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPending, later.Status, "failed redemption must not settle the month")
}

func TestMarkPaidWithCreditOfAnotherStudent(t *testing.T) {
	students, _, credits, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})
	students.add(models.Student{Code: "S02", Branch: "north", MonthlyFee: 500, JoinMonth: 0})
	creditID := credits.add(models.ReferralCredit{Branch: "north", StudentCode: "S02", Amount: 500, Reason: "referred S09"})

	_, err := svc.MarkPaidWithCredit(context.Background(), "north", "S01", 4, creditID)
	require.ErrorIs(t, err, ErrCreditNotFound)

	credit, err := credits.GetByID(context.Background(), creditID)
	require.NoError(t, err)
	require.False(t, credit.IsUsed)
}

func TestMarkPaidWithCreditReleasesCreditWhenSaveFails(t *testing.T) {
	students, records, credits, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})
	creditID := credits.add(models.ReferralCredit{Branch: "north", StudentCode: "S01", Amount: 500, Reason: "referred S09"})

	records.saveErr = errors.New("storage failure")

	_, err := svc.MarkPaidWithCredit(context.Background(), "north", "S01", 4, creditID)
	require.Error(t, err)

	credit, err := credits.GetByID(context.Background(), creditID)
	require.NoError(t, err)
	require.False(t, credit.IsUsed, "credit must be released when the payment does not apply")
	require.Nil(t, credit.UsedInMonth)
}

func TestMarkBreakExcludesMonth(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})

	status, err := svc.MarkBreak(context.Background(), "north", "S01", 4)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusBreak, status.Status)
	require.Zero(t, status.AmountCollected)

	_, err = svc.MarkPaid(context.Background(), "north", "S01", 4)
	require.ErrorIs(t, err, ErrInvalidTransition, "no transition leads out of break")
}

func TestMarkDiscontinuedFlipsLifecycleAndShadowsLaterMonths(t *testing.T) {
	students, _, _, svc := newFeeStatusFixture()
	students.add(models.Student{Code: "S01", Branch: "north", MonthlyFee: 500, JoinMonth: 0})

	_, err := svc.MarkPaid(context.Background(), "north", "S01", 2)
	require.NoError(t, err)

	status, err := svc.MarkDiscontinued(context.Background(), "north", "S01", 5)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusDiscontinued, status.Status)

	student, err := students.GetByCode(context.Background(), "north", "S01")
	require.NoError(t, err)
	require.Equal(t, models.StudentStatusDiscontinued, student.LifecycleStatus)

	later, err := svc.GetStatus(context.Background(), "north", "S01", 8)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusDiscontinued, later.Status)

	// Settled history is preserved, pending months are shadowed. The
	// retroactive shadowing of earlier pending months mirrors the
	// aggregator's retroactive exclusion policy.
	paid, err := svc.GetStatus(context.Background(), "north", "S01", 2)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusPaid, paid.Status)

	earlierPending, err := svc.GetStatus(context.Background(), "north", "S01", 3)
	require.NoError(t, err)
	require.Equal(t, models.FeeStatusDiscontinued, earlierPending.Status)

	_, err = svc.MarkPaid(context.Background(), "north", "S01", 6)
	require.ErrorIs(t, err, ErrInvalidTransition, "discontinued students accept no further actions")
}
