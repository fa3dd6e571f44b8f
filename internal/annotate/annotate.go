// Package annotate extracts hashtag and mention tokens from post text.
package annotate

import (
	"iter"
	"regexp"
)

var (
	hashtagPattern = regexp.MustCompile(`#\w+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// Hashtags yields every `#word` token in text, left to right, case preserved.
// Duplicates are kept. Word characters are ASCII letters, digits and underscore.
func Hashtags(text string) iter.Seq[string] {
	return tokens(hashtagPattern, text)
}

// Mentions yields every `@word` token in text, left to right, case preserved.
func Mentions(text string) iter.Seq[string] {
	return tokens(mentionPattern, text)
}

// HashtagNames returns the distinct hashtag names in text without the leading
// '#', in order of first occurrence. Names are not case-folded.
func HashtagNames(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for tag := range Hashtags(text) {
		name := tag[1:]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// tokens scans text lazily; every range over the returned sequence starts over.
func tokens(re *regexp.Regexp, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		pos := 0
		for pos < len(text) {
			loc := re.FindStringIndex(text[pos:])
			if loc == nil {
				return
			}
			if !yield(text[pos+loc[0] : pos+loc[1]]) {
				return
			}
			pos += loc[1]
		}
	}
}
