package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// PendingReport is a form a technician started but has not submitted yet.
// FormData holds the partially filled report as JSON.
type PendingReport struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(64)"`
	ReportNumber     string    `json:"reportNumber"`
	Username         string    `json:"username" gorm:"index;not null"`
	Region           string    `json:"region,omitempty"`
	Province         string    `json:"provincia,omitempty"`
	Municipality     string    `json:"municipio,omitempty"`
	InterventionType string    `json:"tipoIntervencion,omitempty"`
	Status           Status    `json:"estado"`
	Progress         int       `json:"progress"`
	FormData         string    `json:"formData" gorm:"type:text"`
	CreatedAt        time.Time `json:"timestamp"`
	UpdatedAt        time.Time `json:"lastModified"`
}

// SavePendingReportRequest is the body of POST /pending-reports.
type SavePendingReportRequest struct {
	ID               string                 `json:"id"`
	Region           string                 `json:"region" conform:"trim"`
	Province         string                 `json:"provincia" conform:"trim"`
	Municipality     string                 `json:"municipio" conform:"trim"`
	InterventionType string                 `json:"tipoIntervencion" conform:"trim"`
	Progress         int                    `json:"progress" binding:"gte=0,lte=100"`
	FormData         map[string]interface{} `json:"formData"`
}

var trailingDigits = regexp.MustCompile(`(\d+)$`)

// FormatReportNumber builds the DCR-<year>-<6 digits> number shown to users.
// The digits come from the end of id; ids without trailing digits use the
// clock instead.
func FormatReportNumber(id string, now time.Time) string {
	if m := trailingDigits.FindString(id); m != "" {
		if len(m) > 6 {
			m = m[len(m)-6:]
		}
		n, _ := strconv.Atoi(m)
		return fmt.Sprintf("DCR-%d-%06d", now.Year(), n)
	}
	ms := fmt.Sprintf("%d", now.UnixMilli())
	return fmt.Sprintf("DCR-%d-%s", now.Year(), ms[len(ms)-6:])
}
