package format

import "testing"

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		name string
		in   int64
		want string
	}{
		{"zero", 0, "0 B"},
		{"small", 512, "512 B"},
		{"one kb", 1024, "1.0 KB"},
		{"pdf sized", 2048, "2.0 KB"},
		{"fractional", 1536, "1.5 KB"},
		{"mb", 1024 * 1024, "1.0 MB"},
		{"gb", 1024 * 1024 * 1024, "1.0 GB"},
		{"tb", 1024 * 1024 * 1024 * 1024, "1.0 TB"},
		{"capped at tb", 5 * 1024 * 1024 * 1024 * 1024, "5.0 TB"},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBytes(tt.in); got != tt.want {
				t.Fatalf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
