package run

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knockoffbench/domain/core"
)

func TestNewManifest_FingerprintIsDeterministic(t *testing.T) {
	a := NewManifest(500, 1000, 0.4, 50, 10, 10, 2022, 123)
	b := NewManifest(500, 1000, 0.4, 50, 10, 10, 2022, 123)

	assert.NotEqual(t, a.RunID, b.RunID, "run IDs must be unique")
	assert.Equal(t, a.Fingerprint, b.Fingerprint, "same parameters must fingerprint identically")

	c := NewManifest(500, 1000, 0.4, 50, 10, 10, 2023, 123)
	assert.NotEqual(t, a.Fingerprint, c.Fingerprint, "seed change must change the fingerprint")
}

func TestManifest_Validate(t *testing.T) {
	m := NewManifest(500, 1000, 0.4, 50, 10, 10, 2022, 123)
	require.NoError(t, m.Validate())

	tests := []struct {
		name   string
		mutate func(*Manifest)
	}{
		{"k exceeds p", func(m *Manifest) { m.SignalCount = m.Covariates + 1 }},
		{"zero samples", func(m *Manifest) { m.Samples = 0 }},
		{"zero covariates", func(m *Manifest) { m.Covariates = 0 }},
		{"rho at 1", func(m *Manifest) { m.Correlation = 1.0 }},
		{"no trials", func(m *Manifest) { m.Trials = 0 }},
		{"empty run id", func(m *Manifest) { m.RunID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := NewManifest(500, 1000, 0.4, 50, 10, 10, 2022, 123)
			tt.mutate(bad)
			assert.Error(t, bad.Validate())
		})
	}
}

func TestManifest_Validate_RejectsSharedSeed(t *testing.T) {
	m := NewManifest(500, 1000, 0.4, 50, 10, 10, 2022, 2022)
	assert.ErrorIs(t, m.Validate(), core.ErrSeedMismatch,
		"covariate and coefficient streams must be seeded independently")
}

func TestManifest_CheckFingerprint(t *testing.T) {
	m := NewManifest(500, 1000, 0.4, 50, 10, 10, 2022, 123)

	require.NoError(t, m.CheckFingerprint(""), "empty pin skips the check")
	require.NoError(t, m.CheckFingerprint(core.Hash(m.Fingerprint)), "pin from the same parameters passes")

	drifted := NewManifest(500, 1000, 0.4, 50, 10, 10, 2023, 123)
	assert.ErrorIs(t, m.CheckFingerprint(core.Hash(drifted.Fingerprint)), core.ErrHashMismatch)
}
