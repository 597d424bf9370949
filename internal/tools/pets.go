package tools

import (
	"context"
	"net/url"

	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/validate"
)

var speciesValues = []string{"dog", "cat", "bird", "rabbit", "reptile", "other"}

func (s *Service) listPets(ctx context.Context, args map[string]any) (*Result, error) {
	clientID, err := requireString(args, "client_id")
	if err != nil {
		return nil, err
	}

	key := cache.PetListKey(clientID)
	if hit, found := s.caches.Pets.Get(key); found {
		return cached(hit.Value, hit.Age), nil
	}

	data, err := s.api.Get(ctx, "/clients/"+url.PathEscape(clientID)+"/pets")
	if err != nil {
		return nil, err
	}

	s.caches.Pets.Set(key, data)
	return ok(data), nil
}

func (s *Service) createPet(ctx context.Context, args map[string]any) (*Result, error) {
	clientID, err := requireString(args, "client_id")
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	rawSpecies, err := requireString(args, "species")
	if err != nil {
		return nil, err
	}
	species, err := validate.Enum("species", rawSpecies, speciesValues...)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"client_id": clientID, "name": name, "species": species}
	if breed := optString(args, "breed"); breed != "" {
		body["breed"] = breed
	}
	if birth := optString(args, "birth_date"); birth != "" {
		date, err := validate.Date("birth_date", birth)
		if err != nil {
			return nil, err
		}
		body["birth_date"] = date
	}

	data, err := s.api.Post(ctx, "/pets", body)
	if err != nil {
		return nil, err
	}

	s.caches.Pets.Delete(cache.PetListKey(clientID))
	return ok(data), nil
}

func (s *Service) recordVaccination(ctx context.Context, args map[string]any) (*Result, error) {
	petID, err := requireString(args, "pet_id")
	if err != nil {
		return nil, err
	}
	vaccine, err := requireString(args, "vaccine")
	if err != nil {
		return nil, err
	}
	rawApplied, err := requireString(args, "applied_at")
	if err != nil {
		return nil, err
	}
	applied, err := validate.Date("applied_at", rawApplied)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"pet_id": petID, "vaccine": vaccine, "applied_at": applied}
	if next := optString(args, "next_due"); next != "" {
		due, err := validate.Date("next_due", next)
		if err != nil {
			return nil, err
		}
		body["next_due"] = due
	}

	data, err := s.api.Post(ctx, "/vaccinations", body)
	if err != nil {
		return nil, err
	}

	s.caches.Pets.Delete(cache.VaccineKey(petID))
	return ok(data), nil
}

func (s *Service) vaccinationHistory(ctx context.Context, args map[string]any) (*Result, error) {
	petID, err := requireString(args, "pet_id")
	if err != nil {
		return nil, err
	}

	key := cache.VaccineKey(petID)
	if hit, found := s.caches.Pets.Get(key); found {
		return cached(hit.Value, hit.Age), nil
	}

	data, err := s.api.Get(ctx, "/pets/"+url.PathEscape(petID)+"/vaccinations")
	if err != nil {
		return nil, err
	}

	s.caches.Pets.Set(key, data)
	return ok(data), nil
}
