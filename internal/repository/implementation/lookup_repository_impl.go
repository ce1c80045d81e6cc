package implementation

import (
	"context"
	"errors"

	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/mapper"
	"ai-autoparts-be/internal/model"
	"ai-autoparts-be/internal/repository/contract"
	"ai-autoparts-be/internal/repository/specification"

	"gorm.io/gorm"
)

type LookupRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.LookupMapper
}

func NewLookupRepository(db *gorm.DB) contract.LookupRepository {
	return &LookupRepositoryImpl{
		db:     db,
		mapper: mapper.NewLookupMapper(),
	}
}

func (r *LookupRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LookupRepositoryImpl) Create(ctx context.Context, lookup *entity.Lookup) error {
	m := r.mapper.ToModel(lookup)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*lookup = *r.mapper.ToEntity(m)
	return nil
}

func (r *LookupRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lookup, error) {
	var m model.Lookup
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *LookupRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lookup, error) {
	var models []*model.Lookup
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *LookupRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Lookup{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
