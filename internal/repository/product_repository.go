package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Leganyst/production-board/internal/model"
)

type ProductRepository interface {
	// Weight per unit in kg; ok is false for unknown products.
	GetWeight(ctx context.Context, name string) (weight float64, ok bool, err error)
	List(ctx context.Context) ([]model.Product, error)
	// Seed inserts products that are not yet known.
	Seed(ctx context.Context, products []model.Product) (int64, error)
}

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) GetWeight(ctx context.Context, name string) (float64, bool, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&p).Error
	if isNotFound(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return p.WeightKg, true, nil
}

func (r *GormProductRepository) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) Seed(ctx context.Context, products []model.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}
	rows := make([]model.Product, len(products))
	copy(rows, products)
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows)
	return res.RowsAffected, res.Error
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
