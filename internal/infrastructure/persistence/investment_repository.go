package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvestmentRepository implements investment.InvestmentRepository using GORM
type GormInvestmentRepository struct {
	db *gorm.DB
}

// NewGormInvestmentRepository creates a new GormInvestmentRepository
func NewGormInvestmentRepository(db *gorm.DB) *GormInvestmentRepository {
	return &GormInvestmentRepository{db: db}
}

// FindByID loads an investment with all four parties
func (r *GormInvestmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	var m models.InvestmentModel
	err := r.db.WithContext(ctx).
		Preload("Founder").
		Preload("Investor").
		Preload("Company").
		Preload("Fund").
		First(&m, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByCreator lists a creator's investments with their companies, plus the total count
func (r *GormInvestmentRepository) FindByCreator(ctx context.Context, creatorID uuid.UUID, filter shared.Filter) ([]investment.Investment, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.InvestmentModel{}).
		Where("creator_id = ?", creatorID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvestmentModel
	err := query.
		Preload("Company").
		Scopes(paginate(filter, investmentSortColumns)).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]investment.Investment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates an investment without touching its parties
func (r *GormInvestmentRepository) Save(ctx context.Context, inv *investment.Investment) error {
	m := models.InvestmentModelFromDomain(inv)
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(m).Error)
}

// Delete removes an investment
func (r *GormInvestmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[models.InvestmentModel](ctx, r.db, id)
}

// UpdateDocument writes back the stored document location, summary and status
func (r *GormInvestmentRepository) UpdateDocument(ctx context.Context, id uuid.UUID, url, summary string, status investment.Status) error {
	return r.updateColumns(ctx, id, map[string]any{
		"url":        url,
		"summary":    summary,
		"status":     status,
		"updated_at": time.Now(),
	})
}

// UpdateStatus changes the status, and the envelope id when one is given
func (r *GormInvestmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status investment.Status, envelopeID string) error {
	cols := map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	}
	if envelopeID != "" {
		cols["envelope_id"] = envelopeID
	}
	return r.updateColumns(ctx, id, cols)
}

func (r *GormInvestmentRepository) updateColumns(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.InvestmentModel{}).
		Where("id = ?", id).
		Updates(cols)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ investment.InvestmentRepository = (*GormInvestmentRepository)(nil)
