package protocol

import (
	"reflect"
	"testing"
)

func TestSuggest(t *testing.T) {
	islands := []string{"portRoyal", "tortuga", "nassau", "havana", "kingston", "barbados", "cartagena"}
	cases := []struct {
		in   string
		want []string
	}{
		{"tortuga", []string{"tortuga"}},
		{"Tortuga", []string{"tortuga"}},
		{"tortuag", []string{"tortuga"}},
		{"nasau", []string{"nassau"}},
		{"port", []string{"portRoyal"}},
		{"havanna", []string{"havana"}},
		{"zzzzzz", []string{}},
		{"", nil},
	}
	for _, tc := range cases {
		got := Suggest(tc.in, islands, 3)
		if len(got) == 0 && len(tc.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Suggest(%q)=%v want %v", tc.in, got, tc.want)
		}
	}
	goods := []string{"rum", "gold", "iron", "silk", "tea"}
	if got := Suggest("rom", goods, 1); !reflect.DeepEqual(got, []string{"rum"}) {
		t.Fatalf("limit 1: %v", got)
	}
}
