package core

import "testing"

func TestCleanNarrationText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "markdown emphasis",
			in:   "The **sun** is a _star_ and #important#.",
			want: "The sun is a star and important.",
		},
		{
			name: "stage directions",
			in:   "Once upon a time [sound of thunder] it rained.",
			want: "Once upon a time it rained.",
		},
		{
			name: "section labels",
			in:   "Introduction: Plants need light.\nConclusion: That is why leaves are green.",
			want: "Plants need light.\nThat is why leaves are green.",
		},
		{
			name: "french labels",
			in:   "Titre: La pluie\nChapitre 1: Le début",
			want: "La pluie\nLe début",
		},
		{
			name: "labels inside a sentence survive",
			in:   "We call this step the Introduction: it opens the lesson.",
			want: "We call this step the Introduction: it opens the lesson.",
		},
		{
			name: "plain text untouched",
			in:   "Water flows downhill.",
			want: "Water flows downhill.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanNarrationText(tc.in); got != tc.want {
				t.Fatalf("CleanNarrationText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
