package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Structured cache keys. Every read key lives under a namespace prefix,
// and every write operation invalidates by those prefixes instead of
// matching key patterns, so invalidation scope is an explicit contract.

// Namespace prefixes for invalidation.
const (
	ClientPrefix    = "client:"
	ClientSearchPre = "clients:search:"
	PetListPrefix   = "pets:client:"
	SchedulePrefix  = "schedule:"
	VaccinePrefix   = "vaccines:pet:"
	ServicesKey     = "services:all"
	InvoicePrefix   = "invoice:"
	BillingPrefix   = "billing:client:"
	DashboardPrefix = "dashboard:"
)

// ClientKey returns the key for a single client record.
func ClientKey(clientID string) string {
	return ClientPrefix + clientID
}

// ClientSearchKey returns the key for a client search result set.
func ClientSearchKey(term string, limit int) string {
	return fmt.Sprintf("%s%s:%d", ClientSearchPre, HashArgs([]byte(term)), limit)
}

// PetListKey returns the key for a client's pet list.
func PetListKey(clientID string) string {
	return PetListPrefix + clientID
}

// ScheduleKey returns the key for one day's appointment schedule.
func ScheduleKey(date string) string {
	return SchedulePrefix + date
}

// VaccineKey returns the key for a pet's vaccination history.
func VaccineKey(petID string) string {
	return VaccinePrefix + petID
}

// InvoiceKey returns the key for a single invoice.
func InvoiceKey(invoiceID string) string {
	return InvoicePrefix + invoiceID
}

// DashboardKey returns the key for the clinic dashboard on a date.
func DashboardKey(date string) string {
	return DashboardPrefix + date
}

// NegativeKey identifies a failed upstream resolution. It is scoped per
// endpoint (method + path + body hash) rather than per tool, so
// unrelated operations never false-share failure suppression.
func NegativeKey(method, path string, body []byte) string {
	return fmt.Sprintf("neg:%s:%s:%s", method, path, HashArgs(body))
}

// HashArgs returns a short stable hash of an argument payload, used to
// keep key material bounded and free of caller-supplied secrets.
func HashArgs(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:8])
}
