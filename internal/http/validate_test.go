package httpapi

import "testing"

func TestValidators(t *testing.T) {
	cases := []struct {
		name  string
		fn    func(string) bool
		input string
		want  bool
	}{
		{"email ok", validEmail, "jay@example.com", true},
		{"email missing domain", validEmail, "jay@", false},
		{"email spaces", validEmail, "jay panchal@example.com", false},
		{"phone ok", validPhone, "9876543210", true},
		{"phone starts below 6", validPhone, "5876543210", false},
		{"phone too short", validPhone, "98765", false},
		{"pincode ok", validPincode, "380001", true},
		{"pincode leading zero", validPincode, "038001", false},
		{"pincode too long", validPincode, "3800011", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.input); got != tc.want {
				t.Fatalf("got %v, want %v for %q", got, tc.want, tc.input)
			}
		})
	}
}
