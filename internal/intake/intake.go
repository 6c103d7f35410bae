package intake

import (
	"errors"
	"fmt"
	"time"

	"github.com/FranOrder/complaint-backend/internal/model"
)

// Form field names, matching the JSON payload the frontend submits.
const (
	FieldIncidentDate               = "incidentDate"
	FieldIncidentLocation           = "incidentLocation"
	FieldViolenceType               = "violenceType"
	FieldDescription                = "description"
	FieldAggressorFullName          = "aggressorFullName"
	FieldAggressorRelationship      = "aggressorRelationship"
	FieldAggressorAdditionalDetails = "aggressorAdditionalDetails"
)

// Validation bounds for intake fields.
const (
	DescriptionMinLen = 20
	DescriptionMaxLen = 2000
	AggressorNameMin  = 2
	AggressorNameMax  = 200
	DetailsMaxLen     = 1000
)

const (
	StepIncident  = 1
	StepAggressor = 2
	StepReview    = 3
)

// ErrIncompleteForm is returned by Submit when an earlier step is invalid;
// the form has already jumped back to the first invalid step.
var ErrIncompleteForm = errors.New("intake form has invalid or missing fields")

// stepFields lists which fields each step validates. Optional fields are
// validated too (length bounds) but absence alone never blocks a step.
var stepFields = map[int][]string{
	StepIncident:  {FieldIncidentDate, FieldViolenceType, FieldDescription, FieldIncidentLocation},
	StepAggressor: {FieldAggressorFullName, FieldAggressorRelationship, FieldAggressorAdditionalDetails},
}

// requiredFields marks which fields must be present.
var requiredFields = map[string]bool{
	FieldIncidentDate:          true,
	FieldViolenceType:          true,
	FieldDescription:           true,
	FieldAggressorFullName:     true,
	FieldAggressorRelationship: true,
}

// Form is the three-step complaint intake controller: incident facts,
// aggressor facts, then review/submit. Steps only advance when the current
// step's fields validate; submission re-validates everything and jumps back
// to the first invalid step instead of submitting.
type Form struct {
	step    int
	values  map[string]string
	touched map[string]bool
	now     func() time.Time
}

// NewForm creates an empty intake form positioned on step 1.
func NewForm() *Form {
	return &Form{
		step:    StepIncident,
		values:  make(map[string]string),
		touched: make(map[string]bool),
		now:     time.Now,
	}
}

// Set records a field value. Setting a value does not mark the field touched;
// only navigation and submission attempts do.
func (f *Form) Set(field, value string) {
	f.values[field] = value
}

// CurrentStep returns the step the form is on (1-based).
func (f *Form) CurrentStep() int {
	return f.step
}

// Touched reports whether a field has been marked by a failed navigation or
// submission attempt.
func (f *Form) Touched(field string) bool {
	return f.touched[field]
}

// FieldError validates a single field against the shared rule table and
// returns nil when the value is acceptable.
func (f *Form) FieldError(field string) error {
	return ValidateField(field, f.values[field], f.now())
}

// AdvanceStep validates only the current step's fields. On failure it marks
// all of that step's fields touched and stays put, returning false.
func (f *Form) AdvanceStep() bool {
	if f.step >= StepReview {
		return false
	}
	valid := true
	for _, field := range stepFields[f.step] {
		f.touched[field] = true
		if f.FieldError(field) != nil {
			valid = false
		}
	}
	if !valid {
		return false
	}
	f.step++
	return true
}

// RetreatStep moves back one step when possible.
func (f *Form) RetreatStep() {
	if f.step > StepIncident {
		f.step--
	}
}

// FirstInvalidStep returns the earliest step with an invalid field, or
// StepReview when both data steps validate.
func (f *Form) FirstInvalidStep() int {
	for _, step := range []int{StepIncident, StepAggressor} {
		for _, field := range stepFields[step] {
			if f.FieldError(field) != nil {
				return step
			}
		}
	}
	return StepReview
}

// Submit re-validates every field across all steps. If any earlier step is
// invalid the form jumps back to the first invalid step, marks all fields
// touched, and returns ErrIncompleteForm. On success it returns the
// assembled creation request.
func (f *Form) Submit() (*model.CreateComplaintRequest, error) {
	for step := StepIncident; step <= StepAggressor; step++ {
		for _, field := range stepFields[step] {
			f.touched[field] = true
		}
	}

	if first := f.FirstInvalidStep(); first < StepReview {
		f.step = first
		return nil, ErrIncompleteForm
	}

	req := &model.CreateComplaintRequest{
		Description:       f.values[FieldDescription],
		ViolenceType:      f.values[FieldViolenceType],
		IncidentDate:      f.values[FieldIncidentDate],
		AggressorFullName: f.values[FieldAggressorFullName],
	}
	if v := f.values[FieldIncidentLocation]; v != "" {
		req.IncidentLocation = &v
	}
	if v := f.values[FieldAggressorRelationship]; v != "" {
		req.AggressorRelationship = &v
	}
	if v := f.values[FieldAggressorAdditionalDetails]; v != "" {
		req.AggressorAdditionalDetails = &v
	}
	return req, nil
}

// ValidateField checks one field value against the shared intake rule table.
// The same table backs both the step navigation and the service-side
// validation of create requests.
func ValidateField(field, value string, now time.Time) error {
	if value == "" {
		if requiredFields[field] {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}

	switch field {
	case FieldIncidentDate:
		date, err := time.Parse("2006-01-02", value)
		if err != nil {
			return fmt.Errorf("%s must be a YYYY-MM-DD date", field)
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if date.After(today) {
			return fmt.Errorf("%s must not be in the future", field)
		}
	case FieldViolenceType:
		if !model.ValidViolenceType(value) {
			return fmt.Errorf("%s is not a known violence type", field)
		}
	case FieldDescription:
		if n := len([]rune(value)); n < DescriptionMinLen || n > DescriptionMaxLen {
			return fmt.Errorf("%s must be between %d and %d characters", field, DescriptionMinLen, DescriptionMaxLen)
		}
	case FieldAggressorFullName:
		if n := len([]rune(value)); n < AggressorNameMin || n > AggressorNameMax {
			return fmt.Errorf("%s must be between %d and %d characters", field, AggressorNameMin, AggressorNameMax)
		}
	case FieldAggressorRelationship:
		if !model.ValidRelationship(value) {
			return fmt.Errorf("%s is not a known relationship", field)
		}
	case FieldAggressorAdditionalDetails:
		if len([]rune(value)) > DetailsMaxLen {
			return fmt.Errorf("%s must be at most %d characters", field, DetailsMaxLen)
		}
	}
	return nil
}

// ValidateRequest runs the full rule table over an already-bound creation
// request, returning the first violation found in field order.
func ValidateRequest(req *model.CreateComplaintRequest, now time.Time) error {
	checks := []struct {
		field string
		value string
	}{
		{FieldIncidentDate, req.IncidentDate},
		{FieldViolenceType, req.ViolenceType},
		{FieldDescription, req.Description},
		{FieldIncidentLocation, deref(req.IncidentLocation)},
		{FieldAggressorFullName, req.AggressorFullName},
		{FieldAggressorRelationship, deref(req.AggressorRelationship)},
		{FieldAggressorAdditionalDetails, deref(req.AggressorAdditionalDetails)},
	}
	for _, c := range checks {
		// Relationship is required on the form but tolerated as absent on the
		// wire; the form enforces presence before submission.
		if c.field == FieldAggressorRelationship && c.value == "" {
			continue
		}
		if err := ValidateField(c.field, c.value, now); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
