package tools

import "encoding/json"

// Tool definitions. Schemas follow JSON Schema draft-07 object form,
// kept minimal so clients spend as little context as possible on them.

func searchClientsDefinition() Definition {
	return Definition{
		Name:        "search_clients",
		Description: "Search clients by name, CPF or phone. Requires a search term of at least 3 characters.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"term": {"type": "string", "minLength": 3},
				"limit": {"type": "integer", "minimum": 1, "maximum": 20}
			},
			"required": ["term"]
		}`),
	}
}

func getClientDefinition() Definition {
	return Definition{
		Name:        "get_client",
		Description: "Fetch a single client record by ID.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"client_id": {"type": "string"}},
			"required": ["client_id"]
		}`),
	}
}

func createClientDefinition() Definition {
	return Definition{
		Name:        "create_client",
		Description: "Register a new client. CPF and phone are validated and normalized.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"cpf": {"type": "string"},
				"phone": {"type": "string"},
				"email": {"type": "string"}
			},
			"required": ["name", "cpf", "phone"]
		}`),
	}
}

func updateClientDefinition() Definition {
	return Definition{
		Name:        "update_client",
		Description: "Update a client's contact details.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"client_id": {"type": "string"},
				"name": {"type": "string"},
				"phone": {"type": "string"},
				"email": {"type": "string"}
			},
			"required": ["client_id"]
		}`),
	}
}

func listPetsDefinition() Definition {
	return Definition{
		Name:        "list_pets",
		Description: "List all pets registered to a client.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"client_id": {"type": "string"}},
			"required": ["client_id"]
		}`),
	}
}

func createPetDefinition() Definition {
	return Definition{
		Name:        "create_pet",
		Description: "Register a new pet for a client.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"client_id": {"type": "string"},
				"name": {"type": "string"},
				"species": {"type": "string", "enum": ["dog", "cat", "bird", "rabbit", "reptile", "other"]},
				"breed": {"type": "string"},
				"birth_date": {"type": "string"}
			},
			"required": ["client_id", "name", "species"]
		}`),
	}
}

func getScheduleDefinition() Definition {
	return Definition{
		Name:        "get_schedule",
		Description: "List appointments for a given date (YYYY-MM-DD).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"date": {"type": "string"}},
			"required": ["date"]
		}`),
	}
}

func createAppointmentDefinition() Definition {
	return Definition{
		Name:        "create_appointment",
		Description: "Book an appointment for a pet (starts_at in YYYY-MM-DD HH:MM form).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"client_id": {"type": "string"},
				"pet_id": {"type": "string"},
				"service_id": {"type": "string"},
				"starts_at": {"type": "string"},
				"notes": {"type": "string"}
			},
			"required": ["client_id", "pet_id", "service_id", "starts_at"]
		}`),
	}
}

func cancelAppointmentDefinition() Definition {
	return Definition{
		Name:        "cancel_appointment",
		Description: "Cancel a booked appointment.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"appointment_id": {"type": "string"},
				"reason": {"type": "string"}
			},
			"required": ["appointment_id"]
		}`),
	}
}

func recordVaccinationDefinition() Definition {
	return Definition{
		Name:        "record_vaccination",
		Description: "Record a vaccine application for a pet (applied_at in YYYY-MM-DD form).",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"pet_id": {"type": "string"},
				"vaccine": {"type": "string"},
				"applied_at": {"type": "string"},
				"next_due": {"type": "string"}
			},
			"required": ["pet_id", "vaccine", "applied_at"]
		}`),
	}
}

func vaccinationHistoryDefinition() Definition {
	return Definition{
		Name:        "vaccination_history",
		Description: "List a pet's vaccination records.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"pet_id": {"type": "string"}},
			"required": ["pet_id"]
		}`),
	}
}

func listServicesDefinition() Definition {
	return Definition{
		Name:        "list_services",
		Description: "List the clinic's service catalog with prices.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}
}

func getInvoiceDefinition() Definition {
	return Definition{
		Name:        "get_invoice",
		Description: "Fetch an invoice by ID.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"invoice_id": {"type": "string"}},
			"required": ["invoice_id"]
		}`),
	}
}

func createInvoiceDefinition() Definition {
	return Definition{
		Name:        "create_invoice",
		Description: "Create an invoice for a client with a total amount.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"client_id": {"type": "string"},
				"amount": {"type": "number", "minimum": 0},
				"description": {"type": "string"}
			},
			"required": ["client_id", "amount"]
		}`),
	}
}

func recordPaymentDefinition() Definition {
	return Definition{
		Name:        "record_payment",
		Description: "Register a payment against an invoice.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"invoice_id": {"type": "string"},
				"client_id": {"type": "string"},
				"amount": {"type": "number", "minimum": 0},
				"method": {"type": "string", "enum": ["cash", "card", "pix", "transfer"]}
			},
			"required": ["invoice_id", "client_id", "amount", "method"]
		}`),
	}
}

func recordSaleDefinition() Definition {
	return Definition{
		Name:        "record_sale",
		Description: "Register a counter sale in the current cash-register session.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"description": {"type": "string"},
				"amount": {"type": "number", "minimum": 0},
				"method": {"type": "string", "enum": ["cash", "card", "pix", "transfer"]},
				"client_id": {"type": "string"}
			},
			"required": ["description", "amount", "method"]
		}`),
	}
}

func clinicDashboardDefinition() Definition {
	return Definition{
		Name:        "clinic_dashboard",
		Description: "Aggregate the day's appointments, sales and client activity in one view.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"date": {"type": "string"}},
			"required": ["date"]
		}`),
	}
}

func onboardClientDefinition() Definition {
	return Definition{
		Name:        "onboard_client",
		Description: "Create a client, their first pet, and optionally a first appointment in one call. Steps run in order; on failure the response names the failed step and the IDs already created.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"cpf": {"type": "string"},
				"phone": {"type": "string"},
				"email": {"type": "string"},
				"pet_name": {"type": "string"},
				"species": {"type": "string", "enum": ["dog", "cat", "bird", "rabbit", "reptile", "other"]},
				"service_id": {"type": "string"},
				"starts_at": {"type": "string"}
			},
			"required": ["name", "cpf", "phone", "pet_name", "species"]
		}`),
	}
}
