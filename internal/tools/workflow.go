package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vetgate/vetgate/internal/validate"
)

// onboardClient runs the create-client → create-pet → create-appointment
// workflow sequentially. Earlier steps are committed upstream the moment
// they succeed; there is no compensating rollback. On failure the result
// names the failed step and preserves the identifiers already created so
// the caller can repair the partial onboarding.
func (s *Service) onboardClient(ctx context.Context, args map[string]any) (*Result, error) {
	// Validate everything up front so a bad appointment field doesn't
	// surface only after the client and pet already exist.
	if _, err := requireString(args, "name"); err != nil {
		return nil, err
	}
	if _, err := requireString(args, "pet_name"); err != nil {
		return nil, err
	}
	rawCPF, err := requireString(args, "cpf")
	if err != nil {
		return nil, err
	}
	if _, err := validate.CPF("cpf", rawCPF); err != nil {
		return nil, err
	}
	rawPhone, err := requireString(args, "phone")
	if err != nil {
		return nil, err
	}
	if _, err := validate.Phone("phone", rawPhone); err != nil {
		return nil, err
	}
	rawSpecies, err := requireString(args, "species")
	if err != nil {
		return nil, err
	}
	if _, err := validate.Enum("species", rawSpecies, speciesValues...); err != nil {
		return nil, err
	}

	wantAppointment := optString(args, "service_id") != "" || optString(args, "starts_at") != ""
	if wantAppointment {
		if _, err := requireString(args, "service_id"); err != nil {
			return nil, err
		}
		rawStarts, err := requireString(args, "starts_at")
		if err != nil {
			return nil, err
		}
		if _, err := validate.DateTime("starts_at", rawStarts); err != nil {
			return nil, err
		}
	}

	created := map[string]any{}

	// Step 1: client.
	clientRes, err := s.createClient(ctx, map[string]any{
		"name":  args["name"],
		"cpf":   args["cpf"],
		"phone": args["phone"],
		"email": args["email"],
	})
	if err != nil {
		return stepFailed("create_client", err, created), nil
	}
	clientID, err := extractID(clientRes.Data)
	if err != nil {
		return stepFailed("create_client", err, created), nil
	}
	created["client_id"] = clientID

	// Step 2: pet.
	petRes, err := s.createPet(ctx, map[string]any{
		"client_id": clientID,
		"name":      args["pet_name"],
		"species":   args["species"],
	})
	if err != nil {
		return stepFailed("create_pet", err, created), nil
	}
	petID, err := extractID(petRes.Data)
	if err != nil {
		return stepFailed("create_pet", err, created), nil
	}
	created["pet_id"] = petID

	// Step 3: appointment, only when requested.
	if wantAppointment {
		apptRes, err := s.createAppointment(ctx, map[string]any{
			"client_id":  clientID,
			"pet_id":     petID,
			"service_id": args["service_id"],
			"starts_at":  args["starts_at"],
		})
		if err != nil {
			return stepFailed("create_appointment", err, created), nil
		}
		if apptID, err := extractID(apptRes.Data); err == nil {
			created["appointment_id"] = apptID
		}
	}

	return &Result{Success: true, Data: created}, nil
}

// stepFailed shapes a partial-workflow failure: which step broke and
// which identifiers were already committed.
func stepFailed(step string, err error, created map[string]any) *Result {
	meta := map[string]any{"failed_step": step}
	for k, v := range created {
		meta[k] = v
	}
	return &Result{
		Success: false,
		Error:   fmt.Sprintf("step %s failed: %v", step, err),
		Meta:    meta,
	}
}

// extractID pulls the id field from a created-resource payload.
func extractID(data any) (string, error) {
	raw, ok := data.(json.RawMessage)
	if !ok {
		return "", fmt.Errorf("unexpected payload shape")
	}
	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("parse created resource: %w", err)
	}
	if body.ID == "" {
		return "", fmt.Errorf("created resource has no id")
	}
	return body.ID, nil
}
