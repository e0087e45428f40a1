package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCaseFiles(t *testing.T) {
	f, err := LoadCaseFile("../cases/coaxial.yaml")
	require.NoError(t, err)
	require.NotNil(t, f.Coaxial)
	assert.Nil(t, f.MultiCircuit)
	assert.Equal(t, "R290", f.Coaxial.Refrigerant)
	assert.Equal(t, 0.045, f.Coaxial.Geometry.AnnulusID)
	assert.Equal(t, 1, f.Coaxial.Geometry.Passes)
	assert.Equal(t, 0.38, f.Coaxial.SecondaryMassFlow)

	f, err = LoadCaseFile("../cases/multicircuit.yaml")
	require.NoError(t, err)
	require.NotNil(t, f.MultiCircuit)
	mc := f.MultiCircuit
	assert.Equal(t, 5, mc.Circuits)
	assert.Equal(t, 32, mc.TubesPerBank)
	assert.Equal(t, []float64{1.28}, mc.MassFlow)
	assert.Len(t, mc.MassFlowCoeffs, 5)
	assert.Equal(t, "five circuits", mc.TestName)
	assert.Equal(t, 50.0, mc.Template.Geometry.Length)
}

func TestParseCaseFileErrors(t *testing.T) {
	tests := []struct {
		name, doc string
	}{
		{"empty", "{}\n"},
		{"both", "coaxial: {name: a}\nmulticircuit: {circuits: 2}\n"},
		{"unknown key", "coaxial: {name: a, mdot: 1}\n"},
		{"bad yaml", "coaxial: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCaseFile([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestZoneKindString(t *testing.T) {
	assert.Equal(t, "Two-Phase", TwoPhase.String())
	assert.Equal(t, "ZoneKind(7)", ZoneKind(7).String())
}
