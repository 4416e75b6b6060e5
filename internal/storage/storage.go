package storage

import (
	"errors"

	"doctor-manager-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("storage: record not found")
	ErrDuplicateEmail = errors.New("storage: email already registered")
)

// Store owns all query construction. Handlers never touch gorm directly.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AccountUpdates is a partial patch, nil fields are left untouched.
type AccountUpdates struct {
	Name         *string
	Email        *string
	PasswordHash *string
	AvatarURL    *string
	Theme        *models.Theme
	Language     *models.Language
}

// CountUpdates carries absolute counter values, not deltas. Nil fields are
// left untouched.
type CountUpdates struct {
	Member1      *int
	Member2      *int
	Member3      *int
	PrivateCount *int
}

// DashboardTotals aggregates every counter across a dashboard's shifts.
type DashboardTotals struct {
	Member1      int
	Member2      int
	Member3      int
	PrivateCount int
	GrandTotal   int
}

// -------------------------
// Users
// -------------------------

func (s *Store) UserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) CreateUser(user *models.User) error {
	err := s.db.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) UpdateUser(id uint, updates AccountUpdates) (*models.User, error) {
	fields := map[string]any{}
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Email != nil {
		fields["email"] = *updates.Email
	}
	if updates.PasswordHash != nil {
		fields["password_hash"] = *updates.PasswordHash
	}
	if updates.AvatarURL != nil {
		fields["avatar_url"] = *updates.AvatarURL
	}
	if updates.Theme != nil {
		fields["theme"] = *updates.Theme
	}
	if updates.Language != nil {
		fields["language"] = *updates.Language
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(fields) > 0 {
		err := s.db.Model(&user).Updates(fields).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		if err != nil {
			return nil, err
		}
		if err := s.db.First(&user, id).Error; err != nil {
			return nil, err
		}
	}

	return &user, nil
}

// SetUserRole is used when a viewer-enrolled account later appears on the
// configured editor list.
func (s *Store) SetUserRole(id uint, role models.UserRole) error {
	result := s.db.Model(&models.User{}).Where("id = ?", id).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// -------------------------
// Dashboards
// -------------------------

func (s *Store) Dashboards() ([]models.Dashboard, error) {
	var dashboards []models.Dashboard
	if err := s.db.Order("created_at desc").Find(&dashboards).Error; err != nil {
		return nil, err
	}
	return dashboards, nil
}

func (s *Store) CreateDashboard(dashboard *models.Dashboard) error {
	return s.db.Create(dashboard).Error
}

// DeleteDashboard removes the dashboard together with all of its shifts and
// their counter rows. Counts go first, then shifts, then the dashboard, all
// in one transaction so a failure cannot leave orphaned rows behind.
func (s *Store) DeleteDashboard(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var dashboard models.Dashboard
		if err := tx.First(&dashboard, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var shiftIDs []uint
		if err := tx.Model(&models.Shift{}).
			Where("dashboard_id = ?", id).
			Pluck("id", &shiftIDs).Error; err != nil {
			return err
		}

		if len(shiftIDs) > 0 {
			if err := tx.Where("shift_id IN ?", shiftIDs).Delete(&models.ShiftCount{}).Error; err != nil {
				return err
			}
			if err := tx.Where("dashboard_id = ?", id).Delete(&models.Shift{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&dashboard).Error
	})
}

func (s *Store) DashboardTotals(id uint) (*DashboardTotals, error) {
	var dashboard models.Dashboard
	if err := s.db.First(&dashboard, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var totals DashboardTotals
	err := s.db.Model(&models.ShiftCount{}).
		Select("COALESCE(SUM(member1),0) AS member1, COALESCE(SUM(member2),0) AS member2, COALESCE(SUM(member3),0) AS member3, COALESCE(SUM(private_count),0) AS private_count").
		Joins("JOIN doctor_shifts ON doctor_shifts.id = shift_counts.shift_id").
		Where("doctor_shifts.dashboard_id = ?", id).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	totals.GrandTotal = totals.Member1 + totals.Member2 + totals.Member3 + totals.PrivateCount
	return &totals, nil
}

// -------------------------
// Shifts
// -------------------------

func (s *Store) ShiftsByDashboardID(dashboardID uint) ([]models.Shift, error) {
	var shifts []models.Shift
	err := s.db.Preload("Counts").
		Where("dashboard_id = ?", dashboardID).
		Order("created_at asc").
		Find(&shifts).Error
	if err != nil {
		return nil, err
	}
	return shifts, nil
}

// CreateShift inserts the shift and its all-zero counter row as one
// transaction. Every shift has exactly one counter row, no exceptions, and a
// shift can never point at a dashboard that does not exist.
func (s *Store) CreateShift(shift *models.Shift) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var dashboard models.Dashboard
		if err := tx.First(&dashboard, shift.DashboardID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Create(shift).Error; err != nil {
			return err
		}
		counts := models.ShiftCount{ShiftID: shift.ID}
		if err := tx.Create(&counts).Error; err != nil {
			return err
		}
		shift.Counts = &counts
		return nil
	})
}

func (s *Store) DeleteShift(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var shift models.Shift
		if err := tx.First(&shift, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Where("shift_id = ?", id).Delete(&models.ShiftCount{}).Error; err != nil {
			return err
		}
		return tx.Delete(&shift).Error
	})
}

// -------------------------
// Counts
// -------------------------

func (s *Store) UpdateShiftCounts(shiftID uint, updates CountUpdates) (*models.ShiftCount, error) {
	var counts models.ShiftCount
	if err := s.db.Where("shift_id = ?", shiftID).First(&counts).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := map[string]any{}
	if updates.Member1 != nil {
		fields["member1"] = *updates.Member1
	}
	if updates.Member2 != nil {
		fields["member2"] = *updates.Member2
	}
	if updates.Member3 != nil {
		fields["member3"] = *updates.Member3
	}
	if updates.PrivateCount != nil {
		fields["private_count"] = *updates.PrivateCount
	}

	if len(fields) > 0 {
		if err := s.db.Model(&counts).Updates(fields).Error; err != nil {
			return nil, err
		}
		if err := s.db.Where("shift_id = ?", shiftID).First(&counts).Error; err != nil {
			return nil, err
		}
	}

	return &counts, nil
}
