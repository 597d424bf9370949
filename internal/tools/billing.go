package tools

import (
	"context"
	"net/url"

	"github.com/vetgate/vetgate/internal/cache"
	"github.com/vetgate/vetgate/internal/validate"
)

var paymentMethods = []string{"cash", "card", "pix", "transfer"}

func (s *Service) getInvoice(ctx context.Context, args map[string]any) (*Result, error) {
	id, err := requireString(args, "invoice_id")
	if err != nil {
		return nil, err
	}

	key := cache.InvoiceKey(id)
	if hit, found := s.caches.Billing.Get(key); found {
		return cached(hit.Value, hit.Age), nil
	}

	data, err := s.api.Get(ctx, "/invoices/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	s.caches.Billing.Set(key, data)
	return ok(data), nil
}

func (s *Service) createInvoice(ctx context.Context, args map[string]any) (*Result, error) {
	clientID, err := requireString(args, "client_id")
	if err != nil {
		return nil, err
	}
	amount, err := validate.Currency("amount", args["amount"])
	if err != nil {
		return nil, err
	}

	body := map[string]any{"client_id": clientID, "amount": amount}
	if desc := optString(args, "description"); desc != "" {
		body["description"] = desc
	}

	data, err := s.api.Post(ctx, "/invoices", body)
	if err != nil {
		return nil, err
	}

	s.caches.Billing.DeletePrefix(cache.BillingPrefix + clientID)
	return ok(data), nil
}

func (s *Service) recordPayment(ctx context.Context, args map[string]any) (*Result, error) {
	invoiceID, err := requireString(args, "invoice_id")
	if err != nil {
		return nil, err
	}
	clientID, err := requireString(args, "client_id")
	if err != nil {
		return nil, err
	}
	amount, err := validate.Currency("amount", args["amount"])
	if err != nil {
		return nil, err
	}
	rawMethod, err := requireString(args, "method")
	if err != nil {
		return nil, err
	}
	method, err := validate.Enum("method", rawMethod, paymentMethods...)
	if err != nil {
		return nil, err
	}

	data, err := s.api.Post(ctx, "/payments", map[string]any{
		"invoice_id": invoiceID,
		"amount":     amount,
		"method":     method,
	})
	if err != nil {
		return nil, err
	}

	// Payment changes the invoice and the client's account standing.
	s.caches.Billing.Delete(cache.InvoiceKey(invoiceID))
	s.caches.Billing.DeletePrefix(cache.BillingPrefix + clientID)
	return ok(data), nil
}

func (s *Service) recordSale(ctx context.Context, args map[string]any) (*Result, error) {
	description, err := requireString(args, "description")
	if err != nil {
		return nil, err
	}
	amount, err := validate.Currency("amount", args["amount"])
	if err != nil {
		return nil, err
	}
	rawMethod, err := requireString(args, "method")
	if err != nil {
		return nil, err
	}
	method, err := validate.Enum("method", rawMethod, paymentMethods...)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"description": description, "amount": amount, "method": method}
	clientID := optString(args, "client_id")
	if clientID != "" {
		body["client_id"] = clientID
	}

	data, err := s.api.Post(ctx, "/sales", body)
	if err != nil {
		return nil, err
	}

	s.caches.Dashboard.DeletePrefix(cache.DashboardPrefix)
	if clientID != "" {
		s.caches.Billing.DeletePrefix(cache.BillingPrefix + clientID)
	}
	return ok(data), nil
}
