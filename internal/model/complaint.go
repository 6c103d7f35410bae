package model

import (
	"strconv"
	"strings"
	"time"
)

// Complaint statuses, ordered. Transitions are monotonic and CLOSED is terminal.
const (
	StatusReceived    = "RECEIVED"
	StatusInReview    = "IN_REVIEW"
	StatusActionTaken = "ACTION_TAKEN"
	StatusClosed      = "CLOSED"
)

// StatusOrder fixes the position of each status in the workflow.
var StatusOrder = map[string]int{
	StatusReceived:    0,
	StatusInReview:    1,
	StatusActionTaken: 2,
	StatusClosed:      3,
}

// Statuses lists the workflow states in transition order.
var Statuses = []string{StatusReceived, StatusInReview, StatusActionTaken, StatusClosed}

// Violence types a complaint can report.
const (
	ViolencePhysical      = "PHYSICAL"
	ViolencePsychological = "PSYCHOLOGICAL"
	ViolenceEmotional     = "EMOTIONAL"
	ViolenceSexual        = "SEXUAL"
	ViolenceEconomic      = "ECONOMIC"
	ViolenceDigital       = "DIGITAL"
	ViolenceOther         = "OTHER"
)

// ViolenceTypes lists the violence type enumeration in display order.
var ViolenceTypes = []string{
	ViolencePhysical, ViolencePsychological, ViolenceEmotional,
	ViolenceSexual, ViolenceEconomic, ViolenceDigital, ViolenceOther,
}

// Relationships between the victim and the named aggressor.
var Relationships = []string{
	"FRIEND", "FAMILY", "NEIGHBOUR", "EX_PARTNER", "PARTNER", "STRANGE", "OTHER",
}

// StatusLabels maps raw statuses to their Spanish display labels.
var StatusLabels = map[string]string{
	StatusReceived:    "Recibido",
	StatusInReview:    "En revisión",
	StatusActionTaken: "En proceso",
	StatusClosed:      "Cerrado",
}

// ViolenceTypeLabels maps raw violence types to their Spanish display labels.
var ViolenceTypeLabels = map[string]string{
	ViolencePhysical:      "Física",
	ViolencePsychological: "Psicológica",
	ViolenceEmotional:     "Emocional",
	ViolenceSexual:        "Sexual",
	ViolenceEconomic:      "Económica",
	ViolenceDigital:       "Digital",
	ViolenceOther:         "Otra",
}

// RelationshipLabels maps raw relationship categories to Spanish display labels.
var RelationshipLabels = map[string]string{
	"FRIEND":     "Amigo",
	"FAMILY":     "Familiar",
	"NEIGHBOUR":  "Vecino",
	"EX_PARTNER": "Ex pareja",
	"PARTNER":    "Pareja actual",
	"STRANGE":    "Desconocido",
	"OTHER":      "Otro",
}

// Complaint is a gender-violence report filed by a victim. Complaints are
// never deleted; after submission only staff status updates mutate them.
type Complaint struct {
	ID                         int64      `json:"id"`
	VictimID                   int        `json:"victimId"`
	Description                string     `json:"description"`
	ViolenceType               string     `json:"violenceType"`
	IncidentDate               time.Time  `json:"incidentDate"`
	IncidentLocation           *string    `json:"incidentLocation,omitempty"`
	AggressorFullName          string     `json:"aggressorFullName"`
	AggressorRelationship      *string    `json:"aggressorRelationship,omitempty"`
	AggressorAdditionalDetails *string    `json:"aggressorAdditionalDetails,omitempty"`
	Status                     string     `json:"status"`
	CreatedAt                  time.Time  `json:"createdAt"`
	UpdatedAt                  time.Time  `json:"updatedAt"`
	Evidences                  []Evidence `json:"evidences,omitempty"`

	// Victim display fields, joined in for admin listings.
	VictimName  string `json:"victimName,omitempty"`
	VictimEmail string `json:"victimEmail,omitempty"`
}

// Evidence is a file attached to a complaint. The StorageKey is a relative
// path under the uploads directory; the original name is kept for display.
type Evidence struct {
	ID          int64     `json:"id"`
	ComplaintID int64     `json:"complaintId"`
	FileName    string    `json:"fileName"`
	FileType    string    `json:"fileType"`
	FileSize    int64     `json:"fileSize"`
	StorageKey  string    `json:"-"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// CreateComplaintRequest is the victim intake payload. The server assigns the
// initial RECEIVED status; any client-sent status is ignored.
type CreateComplaintRequest struct {
	Description                string  `json:"description" binding:"required"`
	ViolenceType               string  `json:"violenceType" binding:"required"`
	IncidentDate               string  `json:"incidentDate" binding:"required"` // YYYY-MM-DD
	IncidentLocation           *string `json:"incidentLocation,omitempty"`
	AggressorFullName          string  `json:"aggressorFullName" binding:"required"`
	AggressorRelationship      *string `json:"aggressorRelationship,omitempty"`
	AggressorAdditionalDetails *string `json:"aggressorAdditionalDetails,omitempty"`
}

// UpdateStatusRequest asks the workflow to move a complaint to a target status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ComplaintFilters narrows admin complaint listings. Empty values are no-ops.
type ComplaintFilters struct {
	Search       string
	Status       string
	ViolenceType string
	StartDate    *time.Time
	EndDate      *time.Time
}

// ValidViolenceType reports whether the value belongs to the enumeration.
func ValidViolenceType(v string) bool {
	_, ok := ViolenceTypeLabels[v]
	return ok
}

// ValidRelationship reports whether the value belongs to the enumeration.
func ValidRelationship(v string) bool {
	_, ok := RelationshipLabels[v]
	return ok
}

// ValidStatus reports whether the value is a known workflow status.
func ValidStatus(v string) bool {
	_, ok := StatusOrder[v]
	return ok
}

// SearchText returns the lowercased haystack the admin free-text search runs
// against: raw values plus the localized violence type label, so a search for
// either "PHYSICAL" or "Física" matches.
func (c *Complaint) SearchText() string {
	fields := []string{
		c.Description,
		c.Status,
		strconv.FormatInt(c.ID, 10),
		c.ViolenceType,
		ViolenceTypeLabels[c.ViolenceType],
		c.AggressorFullName,
		c.VictimName,
	}
	if c.IncidentLocation != nil {
		fields = append(fields, *c.IncidentLocation)
	}
	if c.AggressorRelationship != nil {
		fields = append(fields, *c.AggressorRelationship)
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// ResolutionTime describes how long a complaint took from creation to its
// last update, in the wording the reports table uses.
func (c *Complaint) ResolutionTime() string {
	diff := c.UpdatedAt.Sub(c.CreatedAt)
	if diff < 0 {
		return "N/A"
	}
	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24
	switch {
	case days == 0 && hours == 0:
		return "Menos de 1 hora"
	case days > 0:
		return strconv.Itoa(days) + plural(days, " día", " días") + " " + strconv.Itoa(hours) + plural(hours, " hora", " horas")
	default:
		return strconv.Itoa(hours) + plural(hours, " hora", " horas")
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
