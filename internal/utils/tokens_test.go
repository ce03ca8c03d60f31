package utils_test

import (
	"strings"
	"testing"

	"github.com/omega-x/kgprep/internal/utils"
)

func TestCountTokens(t *testing.T) {
	cases := []struct {
		name string
		in   string
		min  int
	}{
		{"empty", "", 0},
		{"simple", "hello world", 2},
		{"long", strings.Repeat("a", 4000), 900},
	}
	for _, c := range cases {
		if got := utils.CountTokens(c.in); got < c.min {
			t.Errorf("%s: got %d < min %d", c.name, got, c.min)
		}
	}
}

func TestTokenBreakdown(t *testing.T) {
	got := utils.TokenBreakdown(map[string]string{"input": "abcdabcd", "output": ""})
	if got["input"] != 2 || got["output"] != 0 {
		t.Fatalf("unexpected breakdown: %v", got)
	}
}
