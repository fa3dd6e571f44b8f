package annotate

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashtags(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{"two tags", "hi #a #b", []string{"#a", "#b"}},
		{"no tags", "no tags", nil},
		{"stops at punctuation", "#1a_b!", []string{"#1a_b"}},
		{"bare hash", "# and #", nil},
		{"adjacent tags", "#tag#tag2", []string{"#tag", "#tag2"}},
		{"duplicates kept", "#Go #go #Go", []string{"#Go", "#go", "#Go"}},
		{"inside url", "see http://x.io/#frag", []string{"#frag"}},
		{"non ascii ends token", "#café", []string{"#caf"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := slices.Collect(Hashtags(tc.text))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMentions(t *testing.T) {
	got := slices.Collect(Mentions("ping @alice and @bob_2, mail a@b.c"))
	assert.Equal(t, []string{"@alice", "@bob_2", "@b"}, got)

	assert.Empty(t, slices.Collect(Mentions("@ alone")))
}

func TestSequencesAreRestartable(t *testing.T) {
	seq := Hashtags("#one #two #three")

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	// early stop does not break later iterations
	for tag := range seq {
		assert.Equal(t, "#one", tag)
		break
	}
	assert.Len(t, slices.Collect(seq), 3)
}

func TestHashtagNames(t *testing.T) {
	assert.Equal(t, []string{"world"}, HashtagNames("Hello #world #world"))
	assert.Equal(t, []string{"Go", "go"}, HashtagNames("#Go #go #Go"))
	assert.Empty(t, HashtagNames("nothing here"))
}
