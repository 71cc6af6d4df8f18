package scorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifelink/pkg/domain"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testPolicy() Policy {
	p := DefaultPolicy()
	p.RegionZones = map[domain.Region]int{
		"north": 0,
		"east":  1,
		"south": 3,
	}
	return p
}

func organ(bt domain.BloodType, region domain.Region, validated bool) OrganFacts {
	return OrganFacts{
		OrganType:        domain.OrganLiver,
		BloodType:        bt,
		Region:           region,
		MedicalValidated: validated,
	}
}

func recipient(bt domain.BloodType, region domain.Region, urgency int, waited time.Duration) RecipientFacts {
	return RecipientFacts{
		BloodType:    bt,
		Region:       region,
		UrgencyLevel: urgency,
		WaitingSince: now.Add(-waited),
	}
}

func TestScoreDeterminism(t *testing.T) {
	p := testPolicy()
	o := organ(domain.BloodONeg, "north", true)
	r := recipient(domain.BloodAPos, "north", 7, 90*24*time.Hour)

	first := Score(o, r, p, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(o, r, p, now))
	}
}

func TestTotalIsComponentSumCappedAt100(t *testing.T) {
	p := testPolicy()
	cases := []struct {
		name string
		o    OrganFacts
		r    RecipientFacts
	}{
		{"perfect match", organ(domain.BloodONeg, "north", true), recipient(domain.BloodONeg, "north", 10, 2*365*24*time.Hour)},
		{"incompatible blood", organ(domain.BloodAPos, "north", true), recipient(domain.BloodONeg, "north", 10, time.Hour)},
		{"fresh entry", organ(domain.BloodOPos, "east", false), recipient(domain.BloodABPos, "south", 1, 0)},
		{"unknown region", organ(domain.BloodONeg, "west", true), recipient(domain.BloodAPos, "north", 5, time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Score(tc.o, tc.r, p, now)
			assert.Equal(t, s.Blood+s.Urgency+s.WaitingTime+s.Geographic+s.Medical, s.Total)
			assert.LessOrEqual(t, s.Total, 100)
			assert.GreaterOrEqual(t, s.Total, 0)
		})
	}
}

func TestIncompatibleBloodForcesIncompatible(t *testing.T) {
	p := testPolicy()
	// Everything else is maximal: same region, top urgency, saturated wait,
	// validated organ. Blood incompatibility must still veto.
	o := organ(domain.BloodABPos, "north", true)
	r := recipient(domain.BloodONeg, "north", 10, 2*365*24*time.Hour)

	s := Score(o, r, p, now)
	assert.False(t, s.IsCompatible)
	assert.Zero(t, s.Blood)
	assert.Equal(t, 70, s.Total, "non-blood components still score")
}

func TestCompatibilityThreshold(t *testing.T) {
	p := testPolicy()

	t.Run("blood-compatible pair below threshold is incompatible", func(t *testing.T) {
		// Blood 30 + urgency 2 + wait 0 + geo 6 + medical 5 = 43 < 50.
		o := organ(domain.BloodONeg, "north", false)
		r := recipient(domain.BloodAPos, "south", 1, 0)
		s := Score(o, r, p, now)
		assert.Less(t, s.Total, p.MinimumScore)
		assert.False(t, s.IsCompatible)
	})

	t.Run("pair at or above threshold is compatible", func(t *testing.T) {
		o := organ(domain.BloodONeg, "north", true)
		r := recipient(domain.BloodAPos, "north", 8, 200*24*time.Hour)
		s := Score(o, r, p, now)
		assert.GreaterOrEqual(t, s.Total, p.MinimumScore)
		assert.True(t, s.IsCompatible)
	})
}

func TestUrgencyScaling(t *testing.T) {
	p := testPolicy()
	o := organ(domain.BloodONeg, "north", true)

	low := Score(o, recipient(domain.BloodONeg, "north", 1, time.Hour), p, now)
	mid := Score(o, recipient(domain.BloodONeg, "north", 5, time.Hour), p, now)
	top := Score(o, recipient(domain.BloodONeg, "north", 10, time.Hour), p, now)

	assert.Less(t, low.Urgency, mid.Urgency)
	assert.Less(t, mid.Urgency, top.Urgency)
	assert.Equal(t, p.Weights.Urgency, top.Urgency, "level 10 earns the full weight")
}

func TestWaitingTimeSaturates(t *testing.T) {
	p := testPolicy()
	o := organ(domain.BloodONeg, "north", true)

	fresh := Score(o, recipient(domain.BloodONeg, "north", 5, 0), p, now)
	partial := Score(o, recipient(domain.BloodONeg, "north", 5, p.MaxWait/2), p, now)
	saturated := Score(o, recipient(domain.BloodONeg, "north", 5, p.MaxWait), p, now)
	beyond := Score(o, recipient(domain.BloodONeg, "north", 5, 3*p.MaxWait), p, now)

	assert.Zero(t, fresh.WaitingTime)
	assert.Equal(t, p.Weights.WaitingTime/2, partial.WaitingTime)
	assert.Equal(t, p.Weights.WaitingTime, saturated.WaitingTime)
	assert.Equal(t, p.Weights.WaitingTime, beyond.WaitingTime, "saturates, never exceeds")
}

func TestGeographicDecay(t *testing.T) {
	p := testPolicy()
	o := organ(domain.BloodONeg, "north", true)
	r := recipient(domain.BloodONeg, "", 5, time.Hour)

	score := func(region domain.Region) int {
		r.Region = region
		return Score(o, r, p, now).Geographic
	}

	assert.Equal(t, p.Weights.Geographic, score("north"), "same region earns full weight")
	assert.Greater(t, score("east"), score("south"), "nearer zone scores higher")
	assert.Zero(t, score("faraway"), "unknown region is maximally distant")
}

func TestMedicalValidation(t *testing.T) {
	p := testPolicy()
	r := recipient(domain.BloodONeg, "north", 5, time.Hour)

	validated := Score(organ(domain.BloodONeg, "north", true), r, p, now)
	unvalidated := Score(organ(domain.BloodONeg, "north", false), r, p, now)

	assert.Equal(t, p.Weights.Medical, validated.Medical)
	assert.Equal(t, p.Weights.Medical/2, unvalidated.Medical)
}

func TestPolicyValidate(t *testing.T) {
	t.Run("default policy is valid", func(t *testing.T) {
		require.NoError(t, DefaultPolicy().Validate())
	})

	t.Run("negative weight rejected", func(t *testing.T) {
		p := DefaultPolicy()
		p.Weights.Geographic = -1
		require.Error(t, p.Validate())
	})

	t.Run("all-zero weights rejected", func(t *testing.T) {
		p := DefaultPolicy()
		p.Weights = Weights{}
		require.Error(t, p.Validate())
	})

	t.Run("out-of-range minimum score rejected", func(t *testing.T) {
		p := DefaultPolicy()
		p.MinimumScore = 101
		require.Error(t, p.Validate())
	})
}
