package validator

import "testing"

func TestSeatCodeValidation(t *testing.T) {
	v := NewValidator()

	type input struct {
		Code string `validate:"seat_code"`
	}

	tests := []struct {
		code  string
		valid bool
	}{
		{"A1", true},
		{"A12", true},
		{"AA100", true},
		{"a1", false},
		{"1A", false},
		{"A", false},
		{"A1234", false},
		{"", false},
	}

	for _, tt := range tests {
		err := v.Struct(input{Code: tt.code})

		if tt.valid && err != nil {
			t.Errorf("seat code %q rejected: %v", tt.code, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("seat code %q accepted, want rejection", tt.code)
		}
	}
}

func TestShowDateValidation(t *testing.T) {
	v := NewValidator()

	type input struct {
		Date string `validate:"show_date"`
	}

	tests := []struct {
		date  string
		valid bool
	}{
		{"2026-09-01", true},
		{"2026-2-30", false},
		{"01-09-2026", false},
		{"2026-13-01", false},
		{"today", false},
	}

	for _, tt := range tests {
		err := v.Struct(input{Date: tt.date})

		if tt.valid && err != nil {
			t.Errorf("date %q rejected: %v", tt.date, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("date %q accepted, want rejection", tt.date)
		}
	}
}

func TestPhoneValidation(t *testing.T) {
	v := NewValidator()

	type input struct {
		Phone string `validate:"phone"`
	}

	tests := []struct {
		phone string
		valid bool
	}{
		{"081234567890", true},
		{"+6281234567890", true},
		{"1234567", false},
		{"08-1234-5678", false},
		{"notaphone", false},
	}

	for _, tt := range tests {
		err := v.Struct(input{Phone: tt.phone})

		if tt.valid && err != nil {
			t.Errorf("phone %q rejected: %v", tt.phone, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("phone %q accepted, want rejection", tt.phone)
		}
	}
}
