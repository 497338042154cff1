package directory_test

import (
	"lemmony/internal/directory"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilter_Allows(t *testing.T) {
	cases := []struct {
		name     string
		include  []string
		exclude  []string
		instance string
		allowed  bool
	}{
		{name: "empty lists allow all", instance: "lemmy.ml", allowed: true},
		{name: "include restricts", include: []string{"lemmy.ml"}, instance: "beehaw.org", allowed: false},
		{name: "included host passes", include: []string{"lemmy.ml"}, instance: "lemmy.ml", allowed: true},
		{name: "excluded host rejected", exclude: []string{"lemmy.ml"}, instance: "lemmy.ml", allowed: false},
		{
			name:     "exclude wins over include",
			include:  []string{"lemmy.ml"},
			exclude:  []string{"lemmy.ml"},
			instance: "lemmy.ml",
			allowed:  false,
		},
		{name: "entries are normalized", include: []string{"https://Lemmy.ML/"}, instance: "lemmy.ml", allowed: true},
		{name: "blank include entries ignored", include: []string{" ", ""}, instance: "lemmy.ml", allowed: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := directory.NewFilter(tc.include, tc.exclude)
			require.Equal(t, tc.allowed, f.Allows(tc.instance))
		})
	}
}
