package metrics

// Status is the inactivity-based relationship health tier.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusAttention Status = "attention"
	StatusDormant   Status = "dormant"
	StatusWilted    Status = "wilted"
)

// ClassifyHealth maps days since contact to a status tier. The 14/30/60
// boundaries are the single canonical table; apply it everywhere health
// is surfaced. Unknown recency reads as healthy, not as a problem.
func ClassifyHealth(daysSinceContact *int) Status {
	if daysSinceContact == nil {
		return StatusHealthy
	}
	switch d := *daysSinceContact; {
	case d > 60:
		return StatusWilted
	case d > 30:
		return StatusDormant
	case d > 14:
		return StatusAttention
	default:
		return StatusHealthy
	}
}
