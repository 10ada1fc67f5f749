package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

func failureKinds(failed []BulkFailure) map[string]ErrorKind {
	kinds := make(map[string]ErrorKind, len(failed))
	for _, f := range failed {
		kinds[f.Date] = f.Kind
	}
	return kinds
}

func TestBulkMixedOutcome(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "dewi")
	shift := seedShift(t, db, "Day", "08:00", "16:00")

	svc := NewOrderService(db, clockAt(t, "2025-01-09T09:00"))

	// Tanggal 10 sudah terpakai, tanggal 13 libur
	_, _, err := svc.CreateOrder(CreateOrderInput{UserID: user.ID, ShiftID: shift.ID, Date: "2025-01-10"})
	require.NoError(t, err)

	holidayDate, _ := utils.ParseLocalDate("2025-01-13", testLoc)
	require.NoError(t, db.Create(&models.Holiday{
		Name: "Company Day", Date: holidayDate, IsActive: true,
	}).Error)

	result, err := svc.CreateBulkOrders(user.ID, []BulkCandidate{
		{Date: "2025-01-10", ShiftID: shift.ID},
		{Date: "2025-01-13", ShiftID: shift.ID},
		{Date: "2025-01-14", ShiftID: shift.ID},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 2, result.FailedCount)
	require.Len(t, result.Created, 1)
	assert.Equal(t, "2025-01-14", result.Created[0].OrderDate.Format(utils.DateFormat))

	kinds := failureKinds(result.Failed)
	assert.Equal(t, KindDuplicateOrder, kinds["2025-01-10"])
	assert.Equal(t, KindHolidayBlocked, kinds["2025-01-13"])
}

func TestBulkAllSuccess(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "eka")
	shift := seedShift(t, db, "Day", "08:00", "16:00")

	svc := NewOrderService(db, clockAt(t, "2025-01-09T09:00"))
	result, err := svc.CreateBulkOrders(user.ID, []BulkCandidate{
		{Date: "2025-01-10", ShiftID: shift.ID},
		{Date: "2025-01-11", ShiftID: shift.ID},
		{Date: "2025-01-12", ShiftID: shift.ID},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.SuccessCount)
	assert.Equal(t, 0, result.FailedCount)
	for _, order := range result.Created {
		assert.Equal(t, models.OrderStatusOrdered, order.Status)
		assert.NotEmpty(t, order.QRToken)
	}
}

func TestBulkInBatchDuplicate(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "fajar")
	day := seedShift(t, db, "Day", "08:00", "16:00")
	night := seedShift(t, db, "Night", "22:00", "06:00")

	svc := NewOrderService(db, clockAt(t, "2025-01-09T09:00"))
	result, err := svc.CreateBulkOrders(user.ID, []BulkCandidate{
		{Date: "2025-01-10", ShiftID: day.ID},
		{Date: "2025-01-10", ShiftID: night.ID},
	}, nil)
	require.NoError(t, err)

	// Kandidat pertama menang, yang kedua duplikat di dalam batch itu sendiri
	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, KindDuplicateOrder, result.Failed[0].Kind)
	assert.Equal(t, night.ID, result.Failed[0].ShiftID)
}

func TestBulkPerCandidateKinds(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "gita")
	shift := seedShift(t, db, "Day", "08:00", "16:00")
	inactive := seedShift(t, db, "Closed", "10:00", "18:00")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)

	svc := NewOrderService(db, clockAt(t, "2025-01-09T09:00"))
	result, err := svc.CreateBulkOrders(user.ID, []BulkCandidate{
		{Date: "not-a-date", ShiftID: shift.ID},
		{Date: "2025-01-08", ShiftID: shift.ID},
		{Date: "2025-02-10", ShiftID: shift.ID},
		{Date: "2025-01-10", ShiftID: 999},
		{Date: "2025-01-11", ShiftID: inactive.ID},
		{Date: "2025-01-09", ShiftID: shift.ID},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.SuccessCount)
	require.Len(t, result.Failed, 6)

	kinds := failureKinds(result.Failed)
	assert.Equal(t, KindInvalidDate, kinds["not-a-date"])
	assert.Equal(t, KindPastDate, kinds["2025-01-08"])
	assert.Equal(t, KindWindowExceeded, kinds["2025-02-10"])
	assert.Equal(t, KindShiftNotFound, kinds["2025-01-10"])
	assert.Equal(t, KindShiftInactive, kinds["2025-01-11"])
	assert.Equal(t, KindCutoffPassed, kinds["2025-01-09"])
}

func TestBulkRequestGuards(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "hadi")
	shift := seedShift(t, db, "Day", "08:00", "16:00")

	svc := NewOrderService(db, clockAt(t, "2025-01-09T09:00"))

	_, err := svc.CreateBulkOrders(user.ID, nil, nil)
	assert.Equal(t, KindInvalidDate, KindOf(err))

	oversized := make([]BulkCandidate, MaxBulkCandidates+1)
	for i := range oversized {
		oversized[i] = BulkCandidate{Date: fmt.Sprintf("2025-01-%02d", i%28+1), ShiftID: shift.ID}
	}
	_, err = svc.CreateBulkOrders(user.ID, oversized, nil)
	assert.Equal(t, KindInvalidDate, KindOf(err))

	_, err = svc.CreateBulkOrders(9999, []BulkCandidate{{Date: "2025-01-10", ShiftID: shift.ID}}, nil)
	assert.Equal(t, KindOrderNotFound, KindOf(err))
}

func TestBulkBlacklistedUser(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "indra")
	shift := seedShift(t, db, "Day", "08:00", "16:00")

	clock := clockAt(t, "2025-01-09T09:00")
	endDate := clock.Now().AddDate(0, 0, 7)
	activeKey := models.ActiveBlacklistKey(user.ID)
	require.NoError(t, db.Create(&models.Blacklist{
		UserID: user.ID, Reason: "3 unclaimed meal reservations",
		StartDate: clock.Now(), EndDate: &endDate, IsActive: true, ActiveKey: &activeKey,
	}).Error)

	svc := NewOrderService(db, clock)
	_, err := svc.CreateBulkOrders(user.ID, []BulkCandidate{
		{Date: "2025-01-10", ShiftID: shift.ID},
	}, nil)
	assert.Equal(t, KindForbidden, KindOf(err))
}
