package conversation

import (
	"sort"
	"strings"
	"time"

	"github.com/hearthline/rekindle/internal/chatlog"
	"github.com/hearthline/rekindle/internal/metrics"
)

// Build packages one partner's exchange with the user into a
// Conversation. The input may be a whole group transcript: messages
// from other partners are filtered out, so each resulting aggregate
// sees only its own 1:1 exchange. Sender names are normalized to the
// cleaned partner name so the aggregate holds exactly two identities.
func Build(userID string, msgs []chatlog.Message, userDisplayName, partnerName string, now time.Time) Conversation {
	var filtered []chatlog.Message
	for _, msg := range msgs {
		switch {
		case msg.Sender == userDisplayName:
			filtered = append(filtered, msg)
		case cleanSender(msg.Sender) == partnerName:
			msg.Sender = partnerName
			filtered = append(filtered, msg)
		}
	}

	return Conversation{
		UserID:      userID,
		PartnerName: partnerName,
		PartnerID:   PartnerID(userID, partnerName),
		Messages:    filtered,
		Metrics:     metrics.Compute(filtered, userDisplayName, now),
		Category:    CategoryFriends,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// BuildAll splits a transcript into one Conversation per resolved
// partner. A transcript with no resolvable partners yields an empty
// slice, not an error.
func BuildAll(userID string, msgs []chatlog.Message, userDisplayName string, now time.Time) []Conversation {
	partners := Partners(msgs, userDisplayName)
	convs := make([]Conversation, 0, len(partners))
	for _, p := range partners {
		convs = append(convs, Build(userID, msgs, userDisplayName, p, now))
	}
	return convs
}

// PartnerID derives the deterministic partner identifier from the user
// id and the normalized partner name.
func PartnerID(userID, partnerName string) string {
	normalized := strings.ReplaceAll(strings.ToLower(partnerName), " ", "_")
	return userID + "_" + normalized
}

func sortByTimestamp(msgs []chatlog.Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
}
