package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Status is the workflow state of an intervention.
type Status string

const (
	StatusCompleted  Status = "completado"
	StatusPending    Status = "pendiente"
	StatusInProgress Status = "en_progreso"
)

// ParseStatus accepts the spellings used by the field forms. Submitted
// reports without a status are completed.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)) {
	case "pendiente", "pending":
		return StatusPending
	case "enprogreso", "inprogress", "progreso":
		return StatusInProgress
	default:
		return StatusCompleted
	}
}

// Report is a submitted field-intervention record. Reports are immutable
// once saved, apart from attached images.
type Report struct {
	ID                string
	ReportNumber      string
	CreatedBy         string
	Date              string
	Region            string
	Province          string
	District          string
	Municipality      string
	Sector            string
	InterventionLabel string
	InterventionType  InterventionType
	Status            Status
	Metrics           Metrics
	GPS               *GPSData
	Images            []string
	Observations      string
	CreatedAt         time.Time
}

// reportWire is the stored/JSON shape. The Spanish keys are the ones written
// by earlier versions of the field app.
type reportWire struct {
	ID               string            `json:"id"`
	ReportNumber     string            `json:"reportNumber"`
	CreatedBy        string            `json:"createdBy"`
	Date             string            `json:"date"`
	Region           string            `json:"region"`
	Province         string            `json:"province"`
	District         string            `json:"district"`
	Municipality     string            `json:"municipality"`
	Sector           string            `json:"sector"`
	InterventionType string            `json:"interventionType"`
	Status           string            `json:"status"`
	MetricData       metricValues      `json:"metricData,omitempty"`
	GPSData          *GPSData          `json:"gpsData,omitempty"`
	Images           []string          `json:"images,omitempty"`
	Observations     string            `json:"observations,omitempty"`
	CreatedAt        *time.Time        `json:"createdAt,omitempty"`

	NumeroReporte    string            `json:"numeroReporte,omitempty"`
	CreadoPor        string            `json:"creadoPor,omitempty"`
	Usuario          string            `json:"usuario,omitempty"`
	Fecha            string            `json:"fecha,omitempty"`
	Provincia        string            `json:"provincia,omitempty"`
	Distrito         string            `json:"distrito,omitempty"`
	Municipio        string            `json:"municipio,omitempty"`
	TipoIntervencion string            `json:"tipoIntervencion,omitempty"`
	Estado           string            `json:"estado,omitempty"`
	Plantilla        metricValues      `json:"plantilla,omitempty"`
	Observaciones    string            `json:"observaciones,omitempty"`
}

func (r *Report) UnmarshalJSON(data []byte) error {
	var w reportWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*r = Report{
		ID:                w.ID,
		ReportNumber:      coalesce(w.ReportNumber, w.NumeroReporte),
		CreatedBy:         coalesce(w.CreatedBy, w.CreadoPor, w.Usuario),
		Date:              coalesce(w.Date, w.Fecha),
		Region:            strings.TrimSpace(w.Region),
		Province:          strings.TrimSpace(coalesce(w.Province, w.Provincia)),
		District:          strings.TrimSpace(coalesce(w.District, w.Distrito)),
		Municipality:      strings.TrimSpace(coalesce(w.Municipality, w.Municipio)),
		Sector:            strings.TrimSpace(w.Sector),
		InterventionLabel: coalesce(w.InterventionType, w.TipoIntervencion),
		Status:            ParseStatus(coalesce(w.Status, w.Estado)),
		GPS:               w.GPSData,
		Images:            w.Images,
		Observations:      coalesce(w.Observations, w.Observaciones),
	}
	r.InterventionType = ParseInterventionType(r.InterventionLabel)

	metricData := w.MetricData
	if metricData == nil {
		metricData = w.Plantilla
	}
	r.Metrics = ParseMetrics(r.InterventionType, metricData)

	// older records kept the GPS track as strings inside the form template
	if r.GPS == nil && metricData["punto_inicial"] != "" && metricData["punto_alcanzado"] != "" {
		var start, end GPSPoint
		_ = start.UnmarshalJSON(pointJSON(metricData["punto_inicial"]))
		_ = end.UnmarshalJSON(pointJSON(metricData["punto_alcanzado"]))
		r.GPS = &GPSData{Start: &start, End: &end}
	}

	if w.CreatedAt != nil {
		r.CreatedAt = *w.CreatedAt
	}
	return nil
}

func (r Report) MarshalJSON() ([]byte, error) {
	w := reportWire{
		ID:               r.ID,
		ReportNumber:     r.ReportNumber,
		CreatedBy:        r.CreatedBy,
		Date:             r.Date,
		Region:           r.Region,
		Province:         r.Province,
		District:         r.District,
		Municipality:     r.Municipality,
		Sector:           r.Sector,
		InterventionType: coalesce(r.InterventionLabel, string(r.InterventionType)),
		Status:           string(r.Status),
		GPSData:          r.GPS,
		Images:           r.Images,
		Observations:     r.Observations,
	}
	if r.Metrics != nil {
		w.MetricData = r.Metrics.Values()
	}
	if !r.CreatedAt.IsZero() {
		w.CreatedAt = &r.CreatedAt
	}
	return json.Marshal(w)
}

// DistrictOrMunicipality is the third grouping level.
func (r Report) DistrictOrMunicipality() string {
	return coalesce(r.District, r.Municipality)
}

// ParsedDate parses Date as a day or an RFC 3339 timestamp.
func (r Report) ParsedDate() (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, strings.TrimSpace(r.Date)); err == nil {
			return t, true
		}
	}
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt, true
	}
	return time.Time{}, false
}

func coalesce(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// pointJSON turns a template value back into JSON: objects and pairs were
// kept raw, anything else is a "lat, lon" string.
func pointJSON(s string) []byte {
	if t := strings.TrimSpace(s); strings.HasPrefix(t, "{") || strings.HasPrefix(t, "[") {
		return []byte(t)
	}
	b, _ := json.Marshal(s)
	return b
}

// metricValues is the form template. Older app versions wrote numbers as
// JSON numbers instead of strings, so every scalar is accepted and kept in its
// textual form; objects and arrays are kept as raw JSON and null is dropped.
type metricValues map[string]string

func (m *metricValues) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*m = nil
		return nil
	}
	out := make(metricValues, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, []byte("null")) {
			continue
		}
		if v[0] == '"' {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return err
			}
			out[k] = s
			continue
		}
		out[k] = string(v)
	}
	*m = out
	return nil
}
