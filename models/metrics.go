package models

import (
	"math"
	"strconv"
	"strings"
)

// InterventionType is the kind of work a report records.
type InterventionType string

const (
	InterventionCanal  InterventionType = "canales"
	InterventionRoad   InterventionType = "caminos"
	InterventionDrain  InterventionType = "drenajes"
	InterventionBridge InterventionType = "puentes"
	InterventionDam    InterventionType = "presas"
	InterventionOther  InterventionType = "otro"
)

var interventionKeywords = []struct {
	keyword string
	typ     InterventionType
}{
	{"canal", InterventionCanal},
	{"camino", InterventionRoad},
	{"carretera", InterventionRoad},
	{"asfalt", InterventionRoad},
	{"bacheo", InterventionRoad},
	{"drenaj", InterventionDrain},
	{"puente", InterventionBridge},
	{"presa", InterventionDam},
}

// ParseInterventionType maps a free-form label such as "Canales: Limpieza"
// to its type.
func ParseInterventionType(label string) InterventionType {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, k := range interventionKeywords {
		if strings.Contains(l, k.keyword) {
			return k.typ
		}
	}
	return InterventionOther
}

// Metrics is the typed measurement set of a report. Each intervention type
// has its own variant.
type Metrics interface {
	Type() InterventionType
	// LengthMeters returns the directly measured worked length, if any.
	LengthMeters() (float64, bool)
	// Values returns the wire form.
	Values() map[string]string
}

type CanalMetrics struct {
	LengthCleanedM    float64 `json:"longitud_limpiada"`
	WidthM            float64 `json:"ancho_canal"`
	DepthM            float64 `json:"profundidad_canal"`
	ExcavatedVolumeM3 float64 `json:"volumen_excavado"`
}

func (m CanalMetrics) Type() InterventionType { return InterventionCanal }

func (m CanalMetrics) LengthMeters() (float64, bool) { return positive(m.LengthCleanedM) }

func (m CanalMetrics) Values() map[string]string {
	return values(
		"longitud_limpiada", m.LengthCleanedM,
		"ancho_canal", m.WidthM,
		"profundidad_canal", m.DepthM,
		"volumen_excavado", m.ExcavatedVolumeM3,
	)
}

type RoadMetrics struct {
	LengthM         float64 `json:"longitud_camino"`
	WidthM          float64 `json:"ancho_camino"`
	LayerThicknessM float64 `json:"espesor_capa"`
}

func (m RoadMetrics) Type() InterventionType { return InterventionRoad }

func (m RoadMetrics) LengthMeters() (float64, bool) { return positive(m.LengthM) }

func (m RoadMetrics) Values() map[string]string {
	return values(
		"longitud_camino", m.LengthM,
		"ancho_camino", m.WidthM,
		"espesor_capa", m.LayerThicknessM,
	)
}

type DrainMetrics struct {
	LengthM       float64 `json:"longitud_drenaje"`
	PipeDiameterM float64 `json:"diametro_tuberia"`
}

func (m DrainMetrics) Type() InterventionType { return InterventionDrain }

func (m DrainMetrics) LengthMeters() (float64, bool) { return positive(m.LengthM) }

func (m DrainMetrics) Values() map[string]string {
	return values(
		"longitud_drenaje", m.LengthM,
		"diametro_tuberia", m.PipeDiameterM,
	)
}

type BridgeMetrics struct {
	LengthM float64 `json:"longitud_puente"`
	WidthM  float64 `json:"ancho_puente"`
	Spans   int     `json:"numero_vanos"`
}

func (m BridgeMetrics) Type() InterventionType { return InterventionBridge }

func (m BridgeMetrics) LengthMeters() (float64, bool) { return positive(m.LengthM) }

func (m BridgeMetrics) Values() map[string]string {
	return values(
		"longitud_puente", m.LengthM,
		"ancho_puente", m.WidthM,
		"numero_vanos", float64(m.Spans),
	)
}

// DamMetrics has no worked length: the crest length is a structural
// dimension, so dam reports fall back to their GPS track.
type DamMetrics struct {
	HeightM           float64 `json:"altura_presa"`
	CrestLengthM      float64 `json:"longitud_cresta"`
	StorageCapacityM3 float64 `json:"capacidad_almacenamiento"`
}

func (m DamMetrics) Type() InterventionType { return InterventionDam }

func (m DamMetrics) LengthMeters() (float64, bool) { return 0, false }

func (m DamMetrics) Values() map[string]string {
	return values(
		"altura_presa", m.HeightM,
		"longitud_cresta", m.CrestLengthM,
		"capacidad_almacenamiento", m.StorageCapacityM3,
	)
}

// OtherMetrics keeps the numeric values of intervention types without a
// dedicated variant. A "longitud_m" or "longitud" key is the worked length.
type OtherMetrics struct {
	Measurements map[string]float64 `json:"values"`
}

func (m OtherMetrics) Type() InterventionType { return InterventionOther }

func (m OtherMetrics) LengthMeters() (float64, bool) {
	for _, k := range []string{"longitud_m", "longitud", "length_m"} {
		if v, ok := m.Measurements[k]; ok {
			return positive(v)
		}
	}
	return 0, false
}

func (m OtherMetrics) Values() map[string]string {
	out := make(map[string]string, len(m.Measurements))
	for k, v := range m.Measurements {
		out[k] = formatFloat(v)
	}
	return out
}

// ParseMetrics converts the legacy string map into the variant for t.
// Keys that are missing or not numeric are left at zero.
func ParseMetrics(t InterventionType, raw map[string]string) Metrics {
	num := func(key string) float64 {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw[key]), 64)
		if err != nil {
			return 0
		}
		return v
	}

	switch t {
	case InterventionCanal:
		return CanalMetrics{
			LengthCleanedM:    num("longitud_limpiada"),
			WidthM:            num("ancho_canal"),
			DepthM:            num("profundidad_canal"),
			ExcavatedVolumeM3: num("volumen_excavado"),
		}
	case InterventionRoad:
		return RoadMetrics{
			LengthM:         num("longitud_camino"),
			WidthM:          num("ancho_camino"),
			LayerThicknessM: num("espesor_capa"),
		}
	case InterventionDrain:
		return DrainMetrics{
			LengthM:       num("longitud_drenaje"),
			PipeDiameterM: num("diametro_tuberia"),
		}
	case InterventionBridge:
		return BridgeMetrics{
			LengthM: num("longitud_puente"),
			WidthM:  num("ancho_puente"),
			Spans:   int(num("numero_vanos")),
		}
	case InterventionDam:
		return DamMetrics{
			HeightM:           num("altura_presa"),
			CrestLengthM:      num("longitud_cresta"),
			StorageCapacityM3: num("capacidad_almacenamiento"),
		}
	}

	other := OtherMetrics{Measurements: map[string]float64{}}
	for k, v := range raw {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			other.Measurements[k] = f
		}
	}
	return other
}

func positive(v float64) (float64, bool) {
	if v > 0 && !math.IsInf(v, 1) {
		return v, true
	}
	return 0, false
}

func values(kv ...interface{}) map[string]string {
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if v := kv[i+1].(float64); v != 0 {
			out[kv[i].(string)] = formatFloat(v)
		}
	}
	return out
}
