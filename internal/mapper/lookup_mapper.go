package mapper

import (
	"encoding/json"

	"ai-autoparts-be/internal/entity"
	"ai-autoparts-be/internal/model"

	"gorm.io/datatypes"
)

type LookupMapper struct{}

func NewLookupMapper() *LookupMapper {
	return &LookupMapper{}
}

func (m *LookupMapper) ToEntity(l *model.Lookup) *entity.Lookup {
	if l == nil {
		return nil
	}

	var result json.RawMessage
	if len(l.Result) > 0 {
		result = json.RawMessage(l.Result)
	}

	return &entity.Lookup{
		Id:         l.Id,
		Kind:       l.Kind,
		Query:      l.Query,
		VehicleId:  l.VehicleId,
		Status:     l.Status,
		RetryCount: l.RetryCount,
		Result:     result,
		CreatedAt:  l.CreatedAt,
	}
}

func (m *LookupMapper) ToModel(l *entity.Lookup) *model.Lookup {
	if l == nil {
		return nil
	}

	var result datatypes.JSON
	if len(l.Result) > 0 {
		result = datatypes.JSON(l.Result)
	}

	return &model.Lookup{
		Id:         l.Id,
		Kind:       l.Kind,
		Query:      l.Query,
		VehicleId:  l.VehicleId,
		Status:     l.Status,
		RetryCount: l.RetryCount,
		Result:     result,
		CreatedAt:  l.CreatedAt,
	}
}

func (m *LookupMapper) ToEntities(lookups []*model.Lookup) []*entity.Lookup {
	entities := make([]*entity.Lookup, len(lookups))
	for i, l := range lookups {
		entities[i] = m.ToEntity(l)
	}
	return entities
}
