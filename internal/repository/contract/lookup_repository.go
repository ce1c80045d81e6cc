package contract

import (
	"context"

	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/repository/specification"
)

type LookupRepository interface {
	Create(ctx context.Context, lookup *entity.Lookup) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Lookup, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Lookup, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
