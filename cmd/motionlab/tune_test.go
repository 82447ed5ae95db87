package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"stanley.kt=2, 4,8", "ramsete.beta=1", "stanley.kt=16"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ramsete.beta", "stanley.kt"}, names); diff != "" {
		t.Errorf("names (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]float64{{1}, {2, 4, 8, 16}}, ranges); diff != "" {
		t.Errorf("ranges (-want +got):\n%s", diff)
	}

	for _, bad := range []string{"ramsete.beta", "ramsete.beta=a"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
