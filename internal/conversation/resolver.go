package conversation

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hearthline/rekindle/internal/chatlog"
)

// groupTitlePatterns reject sender values that are really the chat's
// own title rather than a person (group system lines are attributed to
// the group name in some export versions).
var groupTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bboard\b.*\b\d{4}\b`),
	regexp.MustCompile(`(?i)\bgroup\b`),
	regexp.MustCompile(`(?i)\bchat\b`),
	regexp.MustCompile(`(?i)\bteam\b`),
}

// Partners resolves the distinct conversation partners in a message
// sequence: every sender except the user, cleaned of export artifacts
// and group-title pseudo-senders. An empty result means the file yields
// no conversations; more than one name means a group chat that needs
// per-partner splitting. Output is sorted for determinism.
func Partners(msgs []chatlog.Message, userDisplayName string) []string {
	seen := make(map[string]struct{})
	var partners []string

	for _, msg := range msgs {
		name := cleanSender(msg.Sender)
		if name == "" || name == userDisplayName {
			continue
		}
		if strings.EqualFold(name, "you") {
			continue
		}
		if isGroupTitle(name) {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		partners = append(partners, name)
	}

	sort.Strings(partners)
	return partners
}

// cleanSender strips the WhatsApp group-admin tilde prefix and
// non-breaking-space artifacts from an exported sender name.
func cleanSender(s string) string {
	s = strings.TrimPrefix(s, "~")
	s = strings.ReplaceAll(s, " ", " ")
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(s)
}

func isGroupTitle(name string) bool {
	for _, re := range groupTitlePatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
