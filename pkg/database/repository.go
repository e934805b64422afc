package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ReceptionRepository stores and queries decoded receptions.
type ReceptionRepository struct {
	db *gorm.DB
}

// NewReceptionRepository creates a repository over an open database.
func NewReceptionRepository(db *gorm.DB) *ReceptionRepository {
	return &ReceptionRepository{db: db}
}

// Create inserts a new reception record.
func (r *ReceptionRepository) Create(rec *Reception) error {
	if err := r.db.Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create reception: %w", err)
	}
	return nil
}

// SetSignatureResult records the signature verdict on an existing reception.
func (r *ReceptionRepository) SetSignatureResult(id uint, valid bool) error {
	if err := r.db.Model(&Reception{}).Where("id = ?", id).
		Update("sig_valid", valid).Error; err != nil {
		return fmt.Errorf("failed to update signature result: %w", err)
	}
	return nil
}

// Recent returns the latest receptions, newest first.
func (r *ReceptionRepository) Recent(limit int) ([]Reception, error) {
	var recs []Reception
	if err := r.db.Order("heard_at desc").Limit(limit).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query receptions: %w", err)
	}
	return recs, nil
}

// HeardSince returns receptions heard after the given time.
func (r *ReceptionRepository) HeardSince(t time.Time) ([]Reception, error) {
	var recs []Reception
	if err := r.db.Where("heard_at > ?", t).Order("heard_at desc").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to query receptions: %w", err)
	}
	return recs, nil
}

// CountBySource returns the number of receptions from one source callsign.
func (r *ReceptionRepository) CountBySource(src string) (int64, error) {
	var n int64
	if err := r.db.Model(&Reception{}).Where("src = ?", src).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count receptions: %w", err)
	}
	return n, nil
}
