package l10n

import "testing"

func TestT(t *testing.T) {
	tests := []struct {
		name string
		in   string
		vars []interface{}
		want string
	}{
		{name: "plain", in: "file empty", want: "file empty"},
		{name: "no vars keeps verbs", in: "%s is empty", want: "%s is empty"},
		{name: "formats vars", in: "%s has %d settings", vars: []interface{}{"logger", 3}, want: "logger has 3 settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := T(tt.in, tt.vars...); got != tt.want {
				t.Errorf("T() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTN(t *testing.T) {
	if got := TN("%d setting", "%d settings", 1, 1); got != "1 setting" {
		t.Errorf("TN(1) = %q", got)
	}
	if got := TN("%d setting", "%d settings", 2, 2); got != "2 settings" {
		t.Errorf("TN(2) = %q", got)
	}
}
