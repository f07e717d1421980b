package differ

import "strings"

// WordDelta counts distinct words present only in newText (added) and only
// in oldText (removed). Position and frequency are ignored.
func WordDelta(oldText, newText string) (added, removed int) {
	oldWords := wordSet(oldText)
	newWords := wordSet(newText)

	for w := range newWords {
		if _, ok := oldWords[w]; !ok {
			added++
		}
	}
	for w := range oldWords {
		if _, ok := newWords[w]; !ok {
			removed++
		}
	}
	return added, removed
}

func wordSet(text string) map[string]struct{} {
	fields := strings.Fields(text)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
