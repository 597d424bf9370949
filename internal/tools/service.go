package tools

import (
	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/upstream"
)

// Service owns the tool executors and their shared dependencies: the
// upstream client and the per-dataset cache tiers.
type Service struct {
	api    *upstream.Client
	caches *cache.Tiers
}

// NewService creates the executor set.
func NewService(api *upstream.Client, caches *cache.Tiers) *Service {
	return &Service{api: api, caches: caches}
}

// RegisterAll adds every tool to the registry.
func (s *Service) RegisterAll(r *Registry) error {
	entries := []struct {
		def Definition
		h   Handler
	}{
		{searchClientsDefinition(), s.searchClients},
		{getClientDefinition(), s.getClient},
		{createClientDefinition(), s.createClient},
		{updateClientDefinition(), s.updateClient},
		{listPetsDefinition(), s.listPets},
		{createPetDefinition(), s.createPet},
		{getScheduleDefinition(), s.getSchedule},
		{createAppointmentDefinition(), s.createAppointment},
		{cancelAppointmentDefinition(), s.cancelAppointment},
		{recordVaccinationDefinition(), s.recordVaccination},
		{vaccinationHistoryDefinition(), s.vaccinationHistory},
		{listServicesDefinition(), s.listServices},
		{getInvoiceDefinition(), s.getInvoice},
		{createInvoiceDefinition(), s.createInvoice},
		{recordPaymentDefinition(), s.recordPayment},
		{recordSaleDefinition(), s.recordSale},
		{clinicDashboardDefinition(), s.clinicDashboard},
		{onboardClientDefinition(), s.onboardClient},
	}
	for _, e := range entries {
		if err := r.Register(e.def, e.h); err != nil {
			return err
		}
	}
	return nil
}
