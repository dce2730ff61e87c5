package models

import "testing"

func TestNormalizeAddress(t *testing.T) {
	cases := map[string]string{
		"0xAbCdEf0123456789AbCdEf0123456789AbCdEf01": "0xabcdef0123456789abcdef0123456789abcdef01",
		"0xabcdef0123456789abcdef0123456789abcdef01": "0xabcdef0123456789abcdef0123456789abcdef01",
		// base58 is case-sensitive and must pass through untouched
		"7Np41oeYqPefeNQEHSv1UDhYrehxin3NStELsSKCT4K2": "7Np41oeYqPefeNQEHSv1UDhYrehxin3NStELsSKCT4K2",
		"": "",
	}
	for in, want := range cases {
		if got := NormalizeAddress(in); got != want {
			t.Errorf("NormalizeAddress(%q) = %q, want %q", in, got, want)
		}
	}
}
