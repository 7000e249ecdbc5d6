package rest

import "ingestion-service/internal/core/domain"

// RunRequestDTO - тело запроса POST /api/v1/runs
type RunRequestDTO struct {
	Location      string   `json:"location"`
	PropertyTypes []string `json:"property_types"`
	MinPrice      float64  `json:"min_price"`
	MaxPrice      float64  `json:"max_price"`
}

func (dto RunRequestDTO) toDomainCriteria() domain.SearchCriteria {
	return domain.SearchCriteria{
		Location:      dto.Location,
		PropertyTypes: dto.PropertyTypes,
		MinPrice:      dto.MinPrice,
		MaxPrice:      dto.MaxPrice,
	}
}
