package types

import "testing"

func TestQuantityUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Quantity
		wantErr bool
	}{
		{name: "whole number", input: "24", want: NewQuantityFromInt(24)},
		{name: "fractional", input: "1.5", want: NewQuantityFromInt64Scaled(15000)},
		{name: "four digits", input: "0.0001", want: NewQuantityFromInt64Scaled(1)},
		{name: "extra digits truncated", input: "1.23456", want: NewQuantityFromInt64Scaled(12345)},
		{name: "negative", input: "-3.25", want: NewQuantityFromInt64Scaled(-32500)},
		{name: "quoted string", input: `"7.5"`, want: NewQuantityFromInt64Scaled(75000)},
		{name: "null is zero", input: "null", want: 0},
		{name: "exponent form rejected", input: "1e3", wantErr: true},
		{name: "quoted exponent rejected", input: `"2.5E2"`, wantErr: true},
		{name: "garbage rejected", input: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quantity
			err := q.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("UnmarshalJSON(%s) = %s, want error", tt.input, q)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalJSON(%s) failed: %v", tt.input, err)
			}
			if q != tt.want {
				t.Errorf("UnmarshalJSON(%s) = %s, want %s", tt.input, q, tt.want)
			}
		})
	}
}

func TestQuantityString(t *testing.T) {
	tests := []struct {
		q    Quantity
		want string
	}{
		{NewQuantityFromInt(24), "24.0000"},
		{NewQuantityFromInt64Scaled(15000), "1.5000"},
		{NewQuantityFromInt64Scaled(-32500), "-3.2500"},
		{0, "0.0000"},
	}

	for _, tt := range tests {
		if got := tt.q.String(); got != tt.want {
			t.Errorf("String() = %s, want %s", got, tt.want)
		}
	}
}
