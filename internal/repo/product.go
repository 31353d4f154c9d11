package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/product_management/internal/models"
)

// ErrRestricted marks ids that may never be deleted, regardless of role.
var ErrRestricted = errors.New("product id is restricted")

type GormRepo struct {
	DB            *gorm.DB
	RestrictedIDs []int
}

func (r *GormRepo) restricted(id int) bool {
	for _, rid := range r.RestrictedIDs {
		if rid == id {
			return true
		}
	}
	return false
}

func (r *GormRepo) SearchAll(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SearchByID stamps last_accessed_at/last_accessed_by on a hit before
// returning the row.
func (r *GormRepo) SearchByID(ctx context.Context, id int, accessedBy string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	product.LastAccessedAt = &now
	product.LastAccessedBy = accessedBy
	if err := r.DB.WithContext(ctx).Model(&product).
		Updates(map[string]any{"last_accessed_at": now, "last_accessed_by": accessedBy}).Error; err != nil {
		return nil, err
	}

	return &product, nil
}

// Insert assigns max(id)+1 and creates the row inside one transaction, so
// two concurrent inserts cannot claim the same id. An empty table starts
// the sequence at 1.
func (r *GormRepo) Insert(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int
		if err := tx.Model(&models.Product{}).
			Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		product.ID = maxID + 1
		return tx.Create(product).Error
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *GormRepo) DeleteByID(ctx context.Context, id int) error {
	if r.restricted(id) {
		return ErrRestricted
	}

	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SearchLike is the fallback used when Elasticsearch is not configured.
func (r *GormRepo) SearchLike(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + q + "%"

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Product, 0, limit)
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("name LIKE ? OR description LIKE ?", pattern, pattern).
		Order("id ASC").Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}
