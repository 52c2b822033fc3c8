package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInterventionType(t *testing.T) {
	tests := []struct {
		label string
		want  InterventionType
	}{
		{"Canales: Limpieza", InterventionCanal},
		{"Rehabilitación de Caminos", InterventionRoad},
		{"Asfaltado", InterventionRoad},
		{"Bacheo de carretera", InterventionRoad},
		{"Drenaje pluvial", InterventionDrain},
		{"PUENTES", InterventionBridge},
		{"Presas: mantenimiento", InterventionDam},
		{"Señalización", InterventionOther},
		{"", InterventionOther},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseInterventionType(tc.label), tc.label)
	}
}

func TestParseMetrics(t *testing.T) {
	raw := map[string]string{
		"longitud_drenaje": "420.5",
		"diametro_tuberia": "0.6",
		"otro":             "n/a",
	}
	m := ParseMetrics(InterventionDrain, raw)
	assert.Equal(t, DrainMetrics{LengthM: 420.5, PipeDiameterM: 0.6}, m)

	length, ok := m.LengthMeters()
	assert.True(t, ok)
	assert.Equal(t, 420.5, length)

	dam := ParseMetrics(InterventionDam, map[string]string{"longitud_cresta": "300"})
	_, ok = dam.LengthMeters()
	assert.False(t, ok)

	other := ParseMetrics(InterventionOther, map[string]string{"longitud_m": "75", "cantidad": "x"})
	length, ok = other.LengthMeters()
	assert.True(t, ok)
	assert.Equal(t, 75.0, length)
	assert.Equal(t, map[string]string{"longitud_m": "75"}, other.Values())

	inf := ParseMetrics(InterventionRoad, map[string]string{"longitud_camino": "Inf"})
	_, ok = inf.LengthMeters()
	assert.False(t, ok)
}

func TestMetricsValuesSkipZero(t *testing.T) {
	assert.Equal(t, map[string]string{"longitud_camino": "1200"}, RoadMetrics{LengthM: 1200}.Values())
}
