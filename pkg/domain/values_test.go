package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lifelink/pkg/domain-errors"
)

func TestParseOrganType(t *testing.T) {
	t.Run("accepts supported types case-insensitively", func(t *testing.T) {
		for _, in := range []string{"heart", "Liver", "KIDNEY", " kidney "} {
			got, err := ParseOrganType(in)
			require.NoError(t, err, in)
			assert.True(t, got.IsValid())
		}
	})

	t.Run("rejects unknown and empty", func(t *testing.T) {
		for _, in := range []string{"", "lung", "pancreas"} {
			_, err := ParseOrganType(in)
			require.Error(t, err, in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}

func TestBloodCompatibility(t *testing.T) {
	t.Run("O- donates to every group", func(t *testing.T) {
		for rec := range donorCompatibility {
			assert.True(t, BloodONeg.CanDonateTo(rec), "O- -> %s", rec)
		}
	})

	t.Run("AB+ receives from every group", func(t *testing.T) {
		for donor := range donorCompatibility {
			assert.True(t, donor.CanDonateTo(BloodABPos), "%s -> AB+", donor)
		}
	})

	t.Run("Rh positive never donates to Rh negative", func(t *testing.T) {
		positives := []BloodType{BloodOPos, BloodAPos, BloodBPos, BloodABPos}
		negatives := []BloodType{BloodONeg, BloodANeg, BloodBNeg, BloodABNeg}
		for _, d := range positives {
			for _, r := range negatives {
				assert.False(t, d.CanDonateTo(r), "%s -> %s", d, r)
			}
		}
	})

	t.Run("exact group is always compatible", func(t *testing.T) {
		for g := range donorCompatibility {
			assert.True(t, g.CanDonateTo(g), "%s -> %s", g, g)
		}
	})

	t.Run("parse normalizes case and whitespace", func(t *testing.T) {
		got, err := ParseBloodType(" ab+ ")
		require.NoError(t, err)
		assert.Equal(t, BloodABPos, got)
	})
}

func TestParseUrgency(t *testing.T) {
	for _, level := range []int{0, -1, 11, 100} {
		_, err := ParseUrgency(level)
		require.Error(t, err, level)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	}
	for _, level := range []int{1, 5, 10} {
		got, err := ParseUrgency(level)
		require.NoError(t, err)
		assert.Equal(t, level, got)
	}
}
