package validate

import (
	"errors"
	"testing"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+55 11 98888-7777", "11988887777", false},
		{"(11) 98888-7777", "11988887777", false},
		{"11 3333-4444", "1133334444", false}, // landline, 10 digits
		{"5511988887777", "11988887777", false},
		{"8888-777", "", true}, // 7 digits
		{"", "", true},
		{"123456", "", true},
	}
	for _, tt := range tests {
		got, err := Phone("phone", tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Phone(%q) = %q; want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Phone(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Phone(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestCPF(t *testing.T) {
	// 123.456.789-09 carries correctly computed check digits for the
	// 9-digit base 123456789.
	got, err := CPF("cpf", "123.456.789-09")
	if err != nil {
		t.Fatalf("CPF: %v", err)
	}
	if got != "12345678909" {
		t.Fatalf("CPF = %q; want bare digits", got)
	}

	for _, bad := range []string{
		"111.111.111-11", // repeated digits
		"123.456.789-00", // wrong check digits
		"123.456.789",    // too short
		"",
	} {
		if _, err := CPF("cpf", bad); err == nil {
			t.Errorf("CPF(%q) accepted; want rejection", bad)
		}
	}
}

func TestDate(t *testing.T) {
	if _, err := Date("date", "2026-03-15"); err != nil {
		t.Fatalf("Date: %v", err)
	}
	for _, bad := range []string{"2026-02-30", "15/03/2026", "2026-3-5", "soon"} {
		if _, err := Date("date", bad); err == nil {
			t.Errorf("Date(%q) accepted; want rejection", bad)
		}
	}
}

func TestDateTime(t *testing.T) {
	if _, err := DateTime("starts_at", "2026-03-15 14:30"); err != nil {
		t.Fatalf("DateTime: %v", err)
	}
	if _, err := DateTime("starts_at", "2026-03-15T14:30"); err == nil {
		t.Error("DateTime accepted wrong separator")
	}
	if _, err := DateTime("starts_at", "2026-03-15 25:00"); err == nil {
		t.Error("DateTime accepted impossible hour")
	}
}

func TestEnum(t *testing.T) {
	if _, err := Enum("species", "dog", "dog", "cat", "bird"); err != nil {
		t.Fatalf("Enum: %v", err)
	}
	if _, err := Enum("species", "ferret", "dog", "cat", "bird"); err == nil {
		t.Error("Enum accepted value outside the set")
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		in      any
		want    float64
		wantErr bool
	}{
		{float64(19.999), 20.00, false},
		{float64(10), 10.00, false},
		{"7.25", 7.25, false},
		{3.14159, 3.14, false},
		{0.0, 0.00, false},
		{-1.0, 0, true},
		{"abc", 0, true},
		{true, 0, true},
		{nil, 0, true},
	}
	for _, tt := range tests {
		got, err := Currency("amount", tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Currency(%v) = %v; want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Currency(%v): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Currency(%v) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestErrorClass(t *testing.T) {
	_, err := CPF("cpf", "nope")
	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("err = %T; want *validate.Error", err)
	}
	if vErr.Field != "cpf" {
		t.Fatalf("Field = %q; want cpf", vErr.Field)
	}
}
