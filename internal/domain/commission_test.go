package domain

import "testing"

func TestCommission(t *testing.T) {
	cases := []struct {
		name   string
		amount int64
		rate   RateBps
		want   int64
	}{
		{"thirty percent of 100", 10000, 3000, 3000},
		{"fifteen percent of 50", 5000, 1500, 750},
		{"truncates toward zero", 999, 3333, 332},
		{"full rate", 5000, 10000, 5000},
		{"zero rate", 5000, 0, 0},
		{"zero amount", 0, 3000, 0},
		{"negative amount", -100, 3000, 0},
		{"sub-unit remainder kept by platform", 1, 3000, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Commission(tc.amount, tc.rate); got != tc.want {
				t.Fatalf("Commission(%d, %d) = %d, want %d", tc.amount, tc.rate, got, tc.want)
			}
		})
	}
}

func TestParseRate(t *testing.T) {
	cases := []struct {
		raw     string
		want    RateBps
		wantErr bool
	}{
		{"30", 3000, false},
		{"30.00", 3000, false},
		{"12.5", 1250, false},
		{"7.25", 725, false},
		{"0", 0, false},
		{"100", 10000, false},
		{"100.01", 0, true},
		{"-5", 0, true},
		{"7.255", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseRate(tc.raw)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseRate(%q): expected error, got %d", tc.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRate(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRate(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestRateRendering(t *testing.T) {
	rate := RateBps(1550)
	if got := rate.String(); got != "1550" {
		t.Fatalf("String() = %q, want %q", got, "1550")
	}
	if got := rate.Percent(); got != "15.50" {
		t.Fatalf("Percent() = %q, want %q", got, "15.50")
	}
}
