package util

import (
	"reflect"
	"testing"
)

func TestCapitalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"tomato", "Tomato"},
		{"Tomato", "Tomato"},
		{"green beans", "Green beans"},
		{"élan", "Élan"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Capitalize(tt.in); got != tt.want {
			t.Errorf("Capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSqueezeSpaces(t *testing.T) {
	if got := SqueezeSpaces("  2   cloves  Garlic "); got != "2 cloves Garlic" {
		t.Errorf("SqueezeSpaces = %q", got)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList("eggs and  and milk ", " and ")
	want := []string{"eggs", "milk"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitList = %v, want %v", got, want)
	}
	if got := SplitList("   ", " and "); got != nil {
		t.Errorf("SplitList(blank) = %v, want nil", got)
	}
}
