package domain

import "testing"

func TestValidHexColor(t *testing.T) {
	valid := []string{"#6366f1", "#000000", "#FFFFFF", "#AbCdEf"}
	for _, s := range valid {
		if !ValidHexColor(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	invalid := []string{"", "6366f1", "#666", "#6366f1ff", "#6366g1", "red", "#6366F1 "}
	for _, s := range invalid {
		if ValidHexColor(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}
