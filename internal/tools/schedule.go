package tools

import (
	"context"
	"net/url"

	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/validate"
)

func (s *Service) getSchedule(ctx context.Context, args map[string]any) (*Result, error) {
	rawDate, err := requireString(args, "date")
	if err != nil {
		return nil, err
	}
	date, err := validate.Date("date", rawDate)
	if err != nil {
		return nil, err
	}

	key := cache.ScheduleKey(date)
	if hit, found := s.caches.Schedule.Get(key); found {
		return cached(hit.Value, hit.Age), nil
	}

	data, err := s.api.Get(ctx, "/appointments?date="+url.QueryEscape(date))
	if err != nil {
		return nil, err
	}

	s.caches.Schedule.Set(key, data)
	return ok(data), nil
}

func (s *Service) createAppointment(ctx context.Context, args map[string]any) (*Result, error) {
	clientID, err := requireString(args, "client_id")
	if err != nil {
		return nil, err
	}
	petID, err := requireString(args, "pet_id")
	if err != nil {
		return nil, err
	}
	serviceID, err := requireString(args, "service_id")
	if err != nil {
		return nil, err
	}
	rawStarts, err := requireString(args, "starts_at")
	if err != nil {
		return nil, err
	}
	startsAt, err := validate.DateTime("starts_at", rawStarts)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"client_id":  clientID,
		"pet_id":     petID,
		"service_id": serviceID,
		"starts_at":  startsAt,
	}
	if notes := optString(args, "notes"); notes != "" {
		body["notes"] = notes
	}

	data, err := s.api.Post(ctx, "/appointments", body)
	if err != nil {
		return nil, err
	}

	// The booking lands on some day's schedule; drop them all rather
	// than parse the date out of the response.
	s.caches.Schedule.DeletePrefix(cache.SchedulePrefix)
	return ok(data), nil
}

func (s *Service) cancelAppointment(ctx context.Context, args map[string]any) (*Result, error) {
	id, err := requireString(args, "appointment_id")
	if err != nil {
		return nil, err
	}

	body := map[string]any{"status": "cancelled"}
	if reason := optString(args, "reason"); reason != "" {
		body["cancel_reason"] = reason
	}

	data, err := s.api.Put(ctx, "/appointments/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}

	s.caches.Schedule.DeletePrefix(cache.SchedulePrefix)
	return ok(data), nil
}

func (s *Service) listServices(ctx context.Context, _ map[string]any) (*Result, error) {
	if hit, found := s.caches.Reference.Get(cache.ServicesKey); found {
		return cached(hit.Value, hit.Age), nil
	}

	data, err := s.api.Get(ctx, "/services")
	if err != nil {
		return nil, err
	}

	s.caches.Reference.Set(cache.ServicesKey, data)
	return ok(data), nil
}
