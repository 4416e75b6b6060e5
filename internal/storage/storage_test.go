package storage

import (
	"path/filepath"
	"testing"
	"time"

	"doctor-manager-backend/internal/database"
	"doctor-manager-backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return New(db)
}

func createDashboard(t *testing.T, store *Store, name string) *models.Dashboard {
	t.Helper()
	dashboard := &models.Dashboard{Name: name, Color: "bg-blue-600"}
	require.NoError(t, store.CreateDashboard(dashboard))
	return dashboard
}

func createShift(t *testing.T, store *Store, dashboardID uint, doctor string) *models.Shift {
	t.Helper()
	shift := &models.Shift{DashboardID: dashboardID, DoctorName: doctor, ShiftTime: "8:00 AM - 4:00 PM"}
	require.NoError(t, store.CreateShift(shift))
	return shift
}

func intPtr(v int) *int { return &v }

func TestCreateShiftInitializesZeroCounts(t *testing.T) {
	store := setupStore(t)
	dashboard := createDashboard(t, store, "ER")

	shift := createShift(t, store, dashboard.ID, "Dr. Smith")
	require.NotNil(t, shift.Counts)
	assert.Equal(t, shift.ID, shift.Counts.ShiftID)
	assert.Zero(t, shift.Counts.Member1)
	assert.Zero(t, shift.Counts.Member2)
	assert.Zero(t, shift.Counts.Member3)
	assert.Zero(t, shift.Counts.PrivateCount)

	// Fetching right after creation returns the same zeros.
	shifts, err := store.ShiftsByDashboardID(dashboard.ID)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	require.NotNil(t, shifts[0].Counts)
	assert.Zero(t, shifts[0].Counts.Member1)
	assert.Zero(t, shifts[0].Counts.PrivateCount)
}

func TestCreateShiftMissingDashboard(t *testing.T) {
	store := setupStore(t)

	err := store.CreateShift(&models.Shift{DashboardID: 999, DoctorName: "Dr. Smith", ShiftTime: "night"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateShiftCountsPartial(t *testing.T) {
	store := setupStore(t)
	dashboard := createDashboard(t, store, "ER")
	shift := createShift(t, store, dashboard.ID, "Dr. Smith")

	counts, err := store.UpdateShiftCounts(shift.ID, CountUpdates{Member1: intPtr(3)})
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Member1)
	assert.Zero(t, counts.Member2)
	assert.Zero(t, counts.Member3)
	assert.Zero(t, counts.PrivateCount)

	// Only the named field moves.
	counts, err = store.UpdateShiftCounts(shift.ID, CountUpdates{PrivateCount: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 3, counts.Member1)
	assert.Equal(t, 7, counts.PrivateCount)
}

func TestUpdateShiftCountsZeroIsIdempotent(t *testing.T) {
	store := setupStore(t)
	dashboard := createDashboard(t, store, "ER")
	shift := createShift(t, store, dashboard.ID, "Dr. Smith")

	_, err := store.UpdateShiftCounts(shift.ID, CountUpdates{Member2: intPtr(5)})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		counts, err := store.UpdateShiftCounts(shift.ID, CountUpdates{Member2: intPtr(0)})
		require.NoError(t, err)
		assert.Zero(t, counts.Member2)
	}
}

func TestUpdateShiftCountsNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.UpdateShiftCounts(42, CountUpdates{Member1: intPtr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteDashboardCascades(t *testing.T) {
	store := setupStore(t)
	dashboard := createDashboard(t, store, "ER")
	other := createDashboard(t, store, "ICU")

	first := createShift(t, store, dashboard.ID, "Dr. Smith")
	second := createShift(t, store, dashboard.ID, "Dr. Jones")
	kept := createShift(t, store, other.ID, "Dr. Brown")

	require.NoError(t, store.DeleteDashboard(dashboard.ID))

	// No shift or counter rows may survive their dashboard.
	db := store.db
	var shiftCount, countsCount int64
	require.NoError(t, db.Model(&models.Shift{}).Where("dashboard_id = ?", dashboard.ID).Count(&shiftCount).Error)
	assert.Zero(t, shiftCount)
	require.NoError(t, db.Model(&models.ShiftCount{}).Where("shift_id IN ?", []uint{first.ID, second.ID}).Count(&countsCount).Error)
	assert.Zero(t, countsCount)

	// The other dashboard is untouched.
	shifts, err := store.ShiftsByDashboardID(other.ID)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, kept.ID, shifts[0].ID)
	require.NotNil(t, shifts[0].Counts)
}

func TestDeleteDashboardNotFound(t *testing.T) {
	store := setupStore(t)
	assert.ErrorIs(t, store.DeleteDashboard(99), ErrNotFound)
}

func TestDeleteShiftRemovesCounts(t *testing.T) {
	store := setupStore(t)
	dashboard := createDashboard(t, store, "ER")
	shift := createShift(t, store, dashboard.ID, "Dr. Smith")

	require.NoError(t, store.DeleteShift(shift.ID))

	var countsCount int64
	require.NoError(t, store.db.Model(&models.ShiftCount{}).Where("shift_id = ?", shift.ID).Count(&countsCount).Error)
	assert.Zero(t, countsCount)

	assert.ErrorIs(t, store.DeleteShift(shift.ID), ErrNotFound)
}

func TestDashboardsNewestFirst(t *testing.T) {
	store := setupStore(t)

	older := &models.Dashboard{Name: "Old", Color: "bg-gray-600", CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, store.CreateDashboard(older))
	newer := &models.Dashboard{Name: "New", Color: "bg-blue-600", CreatedAt: time.Now()}
	require.NoError(t, store.CreateDashboard(newer))

	dashboards, err := store.Dashboards()
	require.NoError(t, err)
	require.Len(t, dashboards, 2)
	assert.Equal(t, "New", dashboards[0].Name)
	assert.Equal(t, "Old", dashboards[1].Name)
}

func TestDashboardTotals(t *testing.T) {
	store := setupStore(t)
	dashboard := createDashboard(t, store, "ER")

	first := createShift(t, store, dashboard.ID, "Dr. Smith")
	second := createShift(t, store, dashboard.ID, "Dr. Jones")

	_, err := store.UpdateShiftCounts(first.ID, CountUpdates{
		Member1: intPtr(3), Member2: intPtr(1), PrivateCount: intPtr(2),
	})
	require.NoError(t, err)
	_, err = store.UpdateShiftCounts(second.ID, CountUpdates{
		Member1: intPtr(4), Member3: intPtr(5),
	})
	require.NoError(t, err)

	totals, err := store.DashboardTotals(dashboard.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, totals.Member1)
	assert.Equal(t, 1, totals.Member2)
	assert.Equal(t, 5, totals.Member3)
	assert.Equal(t, 2, totals.PrivateCount)
	assert.Equal(t, 15, totals.GrandTotal)
}

func TestDashboardTotalsEmptyDashboard(t *testing.T) {
	store := setupStore(t)
	dashboard := createDashboard(t, store, "Empty")

	totals, err := store.DashboardTotals(dashboard.ID)
	require.NoError(t, err)
	assert.Zero(t, totals.GrandTotal)

	_, err = store.DashboardTotals(dashboard.ID + 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	store := setupStore(t)

	user := &models.User{Email: "a@b.c", PasswordHash: "x", Name: "a", Role: models.RoleViewer, Theme: models.ThemeLight, Language: models.LanguageArabic}
	require.NoError(t, store.CreateUser(user))

	dup := &models.User{Email: "a@b.c", PasswordHash: "y", Name: "a2", Role: models.RoleViewer, Theme: models.ThemeLight, Language: models.LanguageArabic}
	assert.ErrorIs(t, store.CreateUser(dup), ErrDuplicateEmail)
}

func TestUpdateUser(t *testing.T) {
	store := setupStore(t)

	user := &models.User{Email: "a@b.c", PasswordHash: "x", Name: "a", Role: models.RoleViewer, Theme: models.ThemeLight, Language: models.LanguageArabic}
	require.NoError(t, store.CreateUser(user))

	name := "Doctor A"
	theme := models.ThemeDark
	updated, err := store.UpdateUser(user.ID, AccountUpdates{Name: &name, Theme: &theme})
	require.NoError(t, err)
	assert.Equal(t, "Doctor A", updated.Name)
	assert.Equal(t, models.ThemeDark, updated.Theme)
	assert.Equal(t, "a@b.c", updated.Email)

	_, err = store.UpdateUser(user.ID+1, AccountUpdates{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}
