// Package queue defines message payloads exchanged over the message broker.
package queue

// HighRiskQueue is the durable queue high-risk alerts are published to.
const HighRiskQueue = "biosecurity.high_risk"

// HighRiskAlertEvent is published when a risk assessment lands in the High
// band.  It carries enough context for a notifier (SMS, email, pager) to
// act without querying the primary database.
type HighRiskAlertEvent struct {
    EventID      string `json:"event_id"`
    AssessmentID uint64 `json:"assessment_id"`
    FarmID       uint64 `json:"farm_id"`
    FarmName     string `json:"farm_name"`
    Location     string `json:"location"`
    AuthorID     uint64 `json:"author_id"`
    AuthorRole   string `json:"author_role"`
    Score        int    `json:"score"`
    Level        string `json:"level"`
    Notes        string `json:"notes,omitempty"`
    AssessedAt   string `json:"assessed_at"`
}
