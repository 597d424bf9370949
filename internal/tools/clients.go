package tools

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/validate"
)

// Search guards: an unbounded client search could retrieve the whole
// table, so a qualifying term and a result ceiling are mandatory.
const (
	minSearchTermLen = 3
	maxSearchResults = 20
)

func (s *Service) searchClients(ctx context.Context, args map[string]any) (*Result, error) {
	term, err := requireString(args, "term")
	if err != nil {
		return nil, err
	}
	if len([]rune(term)) < minSearchTermLen {
		return nil, &validate.Error{
			Field:  "term",
			Reason: fmt.Sprintf("must have at least %d characters", minSearchTermLen),
		}
	}
	limit := optInt(args, "limit", maxSearchResults, maxSearchResults)

	key := cache.ClientSearchKey(term, limit)
	if hit, found := s.caches.Clients.Get(key); found {
		return cached(hit.Value, hit.Age), nil
	}

	path := fmt.Sprintf("/clients?search=%s&limit=%d", url.QueryEscape(term), limit)
	data, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	s.caches.Clients.Set(key, data)
	return okMeta(data, map[string]any{"limited": true, "limit": limit}), nil
}

func (s *Service) getClient(ctx context.Context, args map[string]any) (*Result, error) {
	id, err := requireString(args, "client_id")
	if err != nil {
		return nil, err
	}

	key := cache.ClientKey(id)
	if hit, found := s.caches.Clients.Get(key); found {
		return cached(hit.Value, hit.Age), nil
	}

	data, err := s.api.Get(ctx, "/clients/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	s.caches.Clients.Set(key, data)
	return ok(data), nil
}

func (s *Service) createClient(ctx context.Context, args map[string]any) (*Result, error) {
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}
	rawCPF, err := requireString(args, "cpf")
	if err != nil {
		return nil, err
	}
	cpf, err := validate.CPF("cpf", rawCPF)
	if err != nil {
		return nil, err
	}
	rawPhone, err := requireString(args, "phone")
	if err != nil {
		return nil, err
	}
	phone, err := validate.Phone("phone", rawPhone)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"name": name, "cpf": cpf, "phone": phone}
	if email := optString(args, "email"); email != "" {
		body["email"] = email
	}

	data, err := s.api.Post(ctx, "/clients", body)
	if err != nil {
		return nil, err
	}

	// A new client can appear in any cached search result set.
	s.caches.Clients.DeletePrefix(cache.ClientSearchPre)
	return ok(data), nil
}

func (s *Service) updateClient(ctx context.Context, args map[string]any) (*Result, error) {
	id, err := requireString(args, "client_id")
	if err != nil {
		return nil, err
	}

	body := map[string]any{}
	if name := optString(args, "name"); name != "" {
		body["name"] = name
	}
	if rawPhone := optString(args, "phone"); rawPhone != "" {
		phone, err := validate.Phone("phone", rawPhone)
		if err != nil {
			return nil, err
		}
		body["phone"] = phone
	}
	if email := optString(args, "email"); email != "" {
		body["email"] = email
	}
	if len(body) == 0 {
		return nil, &validate.Error{Field: "client_id", Reason: "no fields to update"}
	}

	data, err := s.api.Put(ctx, "/clients/"+url.PathEscape(id), body)
	if err != nil {
		return nil, err
	}

	s.caches.Clients.Delete(cache.ClientKey(id))
	s.caches.Clients.DeletePrefix(cache.ClientSearchPre)
	return ok(data), nil
}
