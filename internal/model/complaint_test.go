package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusOrder_MatchesWorkflow(t *testing.T) {
	for i := 1; i < len(Statuses); i++ {
		assert.Less(t, StatusOrder[Statuses[i-1]], StatusOrder[Statuses[i]])
	}
}

func TestEveryEnumValueHasLabel(t *testing.T) {
	for _, s := range Statuses {
		assert.NotEmpty(t, StatusLabels[s], "status %s has no label", s)
	}
	for _, v := range ViolenceTypes {
		assert.NotEmpty(t, ViolenceTypeLabels[v], "violence type %s has no label", v)
	}
	for _, r := range Relationships {
		assert.NotEmpty(t, RelationshipLabels[r], "relationship %s has no label", r)
	}
}

func TestSearchText_MatchesLocalizedLabel(t *testing.T) {
	c := &Complaint{
		ID:                42,
		Description:       "Testimony about repeated harassment at home.",
		ViolenceType:      ViolencePhysical,
		AggressorFullName: "Carlos Gómez",
		VictimName:        "María López",
		Status:            StatusReceived,
	}

	haystack := c.SearchText()
	// Raw value, Spanish label, ID and the joined victim name all match.
	assert.Contains(t, haystack, strings.ToLower(ViolencePhysical))
	assert.Contains(t, haystack, "física")
	assert.Contains(t, haystack, "42")
	assert.Contains(t, haystack, "maría lópez")
	assert.NotContains(t, haystack, "Física", "haystack must be lowercased")
}

func TestResolutionTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"under an hour", 30 * time.Minute, "Menos de 1 hora"},
		{"hours only", 5 * time.Hour, "5 horas"},
		{"single hour", time.Hour, "1 hora"},
		{"days and hours", 50 * time.Hour, "2 días 2 horas"},
		{"single day", 25 * time.Hour, "1 día 1 hora"},
		{"negative clock skew", -time.Hour, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Complaint{CreatedAt: base, UpdatedAt: base.Add(tt.elapsed)}
			assert.Equal(t, tt.want, c.ResolutionTime())
		})
	}
}

func TestValidators(t *testing.T) {
	assert.True(t, ValidStatus(StatusInReview))
	assert.False(t, ValidStatus("PENDING"))
	assert.True(t, ValidViolenceType(ViolenceEconomic))
	assert.False(t, ValidViolenceType("VERBAL"))
	assert.True(t, ValidRelationship("EX_PARTNER"))
	assert.False(t, ValidRelationship("COWORKER"))
}
