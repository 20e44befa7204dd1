package metrics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hearthline/rekindle/internal/chatlog"
)

var wordPattern = regexp.MustCompile(`\b[a-z]{4,}\b`)

// stopWords are common English function words excluded from topic
// extraction.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "as", "is", "was", "are", "were", "been",
		"be", "have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "must", "can", "this", "that",
		"these", "those", "i", "you", "he", "she", "it", "we", "they", "what",
		"which", "who", "when", "where", "why", "how", "all", "each", "every",
		"both", "few", "more", "most", "other", "some", "such", "no", "nor",
		"not", "only", "own", "same", "so", "than", "too", "very", "just",
	} {
		stopWords[w] = struct{}{}
	}
}

// Topics extracts the n most frequent keywords across message content:
// lowercase alphabetic tokens of length >=4, stop words removed, ties
// broken by first appearance.
func Topics(msgs []chatlog.Message, n int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0

	for _, msg := range msgs {
		for _, w := range wordPattern.FindAllString(strings.ToLower(msg.Content), -1) {
			if _, skip := stopWords[w]; skip {
				continue
			}
			if _, seen := counts[w]; !seen {
				firstSeen[w] = order
				order++
			}
			counts[w]++
		}
	}

	if len(counts) == 0 {
		return nil
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}
