// Package waitlist maintains per-organ-type, per-region queues of waiting
// recipients. Entries are append-only: an entry leaves the queue by
// deactivation and never comes back; re-joining means a fresh entry.
package waitlist

import (
	"time"

	"lifelink/pkg/domain"
	dErrors "lifelink/pkg/domain-errors"
)

// Priority is the coarse allocation band a coordinator assigns to an entry.
// It dominates urgency in queue ordering.
type Priority string

const (
	PriorityLow       Priority = "low"
	PriorityMedium    Priority = "medium"
	PriorityHigh      Priority = "high"
	PriorityCritical  Priority = "critical"
	PriorityEmergency Priority = "emergency"
)

// priorityRank is the single source of truth for priority ordering.
var priorityRank = map[Priority]int{
	PriorityLow:       1,
	PriorityMedium:    2,
	PriorityHigh:      3,
	PriorityCritical:  4,
	PriorityEmergency: 5,
}

// ParsePriority constructs a Priority from external input.
func ParsePriority(s string) (Priority, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "priority cannot be empty")
	}
	p := Priority(s)
	if !p.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unsupported priority: "+s)
	}
	return p, nil
}

// IsValid reports whether the priority is one of the supported bands.
func (p Priority) IsValid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank returns the numeric ordering weight; higher outranks lower.
func (p Priority) Rank() int { return priorityRank[p] }

func (p Priority) String() string { return string(p) }

// Entry is one recipient's registered need for one organ type.
//
// Invariants:
//   - At most one active entry per (recipient, organ type); the store
//     enforces this at insert.
//   - Seq is assigned by the store, strictly increasing in insertion order,
//     and never reused. It is the final tie-break that makes every queue
//     ordering a total order.
//   - Active never flips back to true; a deactivated entry is history.
type Entry struct {
	Recipient    domain.RecipientID
	OrganType    domain.OrganType
	UrgencyLevel int
	Region       domain.Region
	Priority     Priority
	AddedAt      time.Time
	Seq          uint64
	Active       bool
}
