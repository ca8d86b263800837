package rest

import (
	"estatemap/internal/core/port/usecases_port"
)

// requestValidator - проверка тела запроса по JSON-схеме (contracts.Registry).
type requestValidator interface {
	Validate(name, version string, body []byte) error
}

// EstateMapHandlers собирает обработчики всех маршрутов API.
type EstateMapHandlers struct {
	findUC      usecases_port.FindListingsUseCase
	dashboardUC usecases_port.LoadDashboardUseCase
	markersUC   usecases_port.ListMarkersUseCase
	getUC       usecases_port.GetListingUseCase
	enquiryUC   usecases_port.SubmitEnquiryUseCase
	seedUC      usecases_port.SeedListingsUseCase
	healthUC    usecases_port.CheckHealthUseCase
	validator   requestValidator
}

func NewEstateMapHandlers(
	findUC usecases_port.FindListingsUseCase,
	dashboardUC usecases_port.LoadDashboardUseCase,
	markersUC usecases_port.ListMarkersUseCase,
	getUC usecases_port.GetListingUseCase,
	enquiryUC usecases_port.SubmitEnquiryUseCase,
	seedUC usecases_port.SeedListingsUseCase,
	healthUC usecases_port.CheckHealthUseCase,
	validator requestValidator,
) *EstateMapHandlers {
	return &EstateMapHandlers{
		findUC:      findUC,
		dashboardUC: dashboardUC,
		markersUC:   markersUC,
		getUC:       getUC,
		enquiryUC:   enquiryUC,
		seedUC:      seedUC,
		healthUC:    healthUC,
		validator:   validator,
	}
}
