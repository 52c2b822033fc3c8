package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportDecodesCurrentShape(t *testing.T) {
	input := `{
		"id": "intervencion_1718000000123",
		"reportNumber": "DCR-2024-000123",
		"createdBy": "jperez",
		"date": "2024-06-10",
		"region": " Región Cibao Norte ",
		"province": "Santiago",
		"district": "",
		"municipality": "Tamboril",
		"sector": "Canca",
		"interventionType": "Canales: Limpieza de canal",
		"status": "pendiente",
		"metricData": {"longitud_limpiada": "1250", "ancho_canal": "3.5", "notas": "x"},
		"gpsData": {"startPoint": {"lat": 19.48, "lng": -70.61}, "endPoint": "19.49, -70.60"}
	}`

	var r Report
	require.NoError(t, json.Unmarshal([]byte(input), &r))

	assert.Equal(t, "Región Cibao Norte", r.Region)
	assert.Equal(t, "Tamboril", r.DistrictOrMunicipality())
	assert.Equal(t, InterventionCanal, r.InterventionType)
	assert.Equal(t, StatusPending, r.Status)
	require.IsType(t, CanalMetrics{}, r.Metrics)
	m, ok := r.Metrics.LengthMeters()
	assert.True(t, ok)
	assert.Equal(t, 1250.0, m)
	assert.True(t, r.GPS.Complete())
}

func TestReportDecodesLegacyKeys(t *testing.T) {
	input := `{
		"id": "intervencion_42",
		"numeroReporte": "DCR-2023-000042",
		"usuario": "mrosa",
		"fecha": "2023-11-02",
		"region": "ozama",
		"provincia": "Santo Domingo",
		"distrito": "Boca Chica",
		"tipoIntervencion": "Rehabilitación de camino vecinal",
		"plantilla": {
			"longitud_camino": "abc",
			"punto_inicial": "18.45, -69.60",
			"punto_alcanzado": "18.46, -69.58"
		},
		"observaciones": "ok"
	}`

	var r Report
	require.NoError(t, json.Unmarshal([]byte(input), &r))

	assert.Equal(t, "DCR-2023-000042", r.ReportNumber)
	assert.Equal(t, "mrosa", r.CreatedBy)
	assert.Equal(t, "Santo Domingo", r.Province)
	assert.Equal(t, "Boca Chica", r.District)
	assert.Equal(t, InterventionRoad, r.InterventionType)
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, "ok", r.Observations)

	_, ok := r.Metrics.LengthMeters()
	assert.False(t, ok, "non numeric length must not count")
	require.NotNil(t, r.GPS)
	assert.True(t, r.GPS.Complete())

	day, ok := r.ParsedDate()
	assert.True(t, ok)
	assert.Equal(t, time.November, day.Month())
}

func TestReportDecodesNumericTemplateValues(t *testing.T) {
	input := `{
		"tipoIntervencion": "Canales",
		"metricData": {
			"longitud_limpiada": 1200,
			"ancho_canal": "3.5",
			"profundidad_canal": null,
			"punto_inicial": {"lat": 18.45, "lng": -69.60},
			"punto_alcanzado": [18.46, -69.58]
		}
	}`

	var r Report
	require.NoError(t, json.Unmarshal([]byte(input), &r))
	assert.Equal(t, CanalMetrics{LengthCleanedM: 1200, WidthM: 3.5}, r.Metrics)
	require.NotNil(t, r.GPS)
	assert.True(t, r.GPS.Complete())
	assert.InDelta(t, 18.46, r.GPS.End.Lat, 1e-9)
}

func TestReportEncoding(t *testing.T) {
	r := Report{
		ID:                "intervencion_1",
		Region:            "Región Yuma",
		InterventionLabel: "Puentes: Reparación",
		InterventionType:  InterventionBridge,
		Status:            StatusInProgress,
		Metrics:           BridgeMetrics{LengthM: 30, Spans: 2},
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)

	var back Report
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, r.Region, back.Region)
	assert.Equal(t, r.InterventionLabel, back.InterventionLabel)
	assert.Equal(t, StatusInProgress, back.Status)
	assert.Equal(t, BridgeMetrics{LengthM: 30, Spans: 2}, back.Metrics)
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusPending, ParseStatus("Pendiente"))
	assert.Equal(t, StatusInProgress, ParseStatus("en progreso"))
	assert.Equal(t, StatusInProgress, ParseStatus("en_progreso"))
	assert.Equal(t, StatusCompleted, ParseStatus(""))
	assert.Equal(t, StatusCompleted, ParseStatus("completado"))
}
