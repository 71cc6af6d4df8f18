// Package scorer computes weighted compatibility scores between an organ and
// a candidate recipient. Scoring is pure: given the same facts, policy, and
// reference time it always produces the same MatchScore, which keeps the
// allocation engine's ranking reproducible.
package scorer

import (
	"time"

	"lifelink/pkg/domain"
)

// OrganFacts is the slice of organ state scoring needs. The engine resolves
// entity references; the scorer never touches stores.
type OrganFacts struct {
	OrganType        domain.OrganType
	BloodType        domain.BloodType
	Region           domain.Region
	MedicalValidated bool
}

// RecipientFacts is the slice of recipient and waiting-list state scoring needs.
type RecipientFacts struct {
	BloodType    domain.BloodType
	Region       domain.Region
	UrgencyLevel int
	WaitingSince time.Time
}

// MatchScore is the composite compatibility metric for one (organ, recipient)
// pair. Invariant: Total equals the sum of the five components and never
// exceeds 100. IsCompatible requires blood compatibility regardless of the
// other components.
type MatchScore struct {
	Total        int  `json:"total_score"`
	Blood        int  `json:"blood_compatibility"`
	Urgency      int  `json:"urgency_score"`
	WaitingTime  int  `json:"waiting_time_score"`
	Geographic   int  `json:"geographic_score"`
	Medical      int  `json:"medical_score"`
	IsCompatible bool `json:"is_compatible"`
}

// Score evaluates one pair under the given policy. It never fails: missing or
// degenerate inputs produce low scores, and incompatible blood forces
// IsCompatible false no matter what the components add up to.
func Score(organ OrganFacts, rec RecipientFacts, p Policy, now time.Time) MatchScore {
	bloodOK := organ.BloodType.CanDonateTo(rec.BloodType)

	s := MatchScore{
		Blood:       bloodScore(bloodOK, p),
		Urgency:     urgencyScore(rec.UrgencyLevel, p),
		WaitingTime: waitingTimeScore(rec.WaitingSince, now, p),
		Geographic:  geographicScore(organ.Region, rec.Region, p),
		Medical:     medicalScore(organ.MedicalValidated, p),
	}

	s.Total = s.Blood + s.Urgency + s.WaitingTime + s.Geographic + s.Medical
	if s.Total > maxTotal {
		s.Total = maxTotal
	}
	s.IsCompatible = bloodOK && s.Total >= p.MinimumScore
	return s
}

const maxTotal = 100

func bloodScore(compatible bool, p Policy) int {
	if compatible {
		return p.Weights.Blood
	}
	return 0
}

// urgencyScore maps the declared 1..10 urgency linearly onto [0, weight].
// Out-of-range levels are clamped rather than rejected; validation belongs to
// the waiting list, and scoring must always produce a score.
func urgencyScore(level int, p Policy) int {
	if level < domain.UrgencyMin {
		level = domain.UrgencyMin
	}
	if level > domain.UrgencyMax {
		level = domain.UrgencyMax
	}
	return p.Weights.Urgency * level / domain.UrgencyMax
}

// waitingTimeScore grows linearly with time on the list and saturates at the
// full weight once MaxWait has elapsed. Longest-waiting recipients earn the
// ceiling, never more.
func waitingTimeScore(since time.Time, now time.Time, p Policy) int {
	if since.IsZero() || !now.After(since) {
		return 0
	}
	waited := now.Sub(since)
	if p.MaxWait <= 0 || waited >= p.MaxWait {
		return p.Weights.WaitingTime
	}
	return int(int64(p.Weights.WaitingTime) * int64(waited) / int64(p.MaxWait))
}

// geographicScore awards the full weight for same-region pairs and decays
// linearly with zone distance, reaching zero at MaxGeoDistance.
func geographicScore(organRegion, recRegion domain.Region, p Policy) int {
	d := p.Distance(organRegion, recRegion)
	if d <= 0 {
		return p.Weights.Geographic
	}
	if p.MaxGeoDistance <= 0 || d >= p.MaxGeoDistance {
		return 0
	}
	return p.Weights.Geographic * (p.MaxGeoDistance - d) / p.MaxGeoDistance
}

// medicalScore awards the full weight when the organ's quality data has been
// validated, half otherwise. Unvalidated organs are scorable but rank lower.
func medicalScore(validated bool, p Policy) int {
	if validated {
		return p.Weights.Medical
	}
	return p.Weights.Medical / 2
}
