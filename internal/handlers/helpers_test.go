package handlers

import "testing"

func TestParseIndexParam(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"0", 0, false},
		{"12", 12, false},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"3.14", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseIndexParam(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseIndexParam(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseIndexParam(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
