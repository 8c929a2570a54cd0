package eligibilitypolicy_test

import (
	"testing"

	"github.com/dalemusser/placementhub/internal/app/policy/eligibilitypolicy"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestCheck(t *testing.T) {
	cand := eligibilitypolicy.Candidate{CGPA: 7.5, Department: "cse", Batch: 2025, Backlogs: 1}

	tests := []struct {
		name    string
		e       models.Eligibility
		reasons int
	}{
		{"no criteria", models.Eligibility{}, 0},
		{"cgpa met", models.Eligibility{MinCGPA: 7.5}, 0},
		{"cgpa not met", models.Eligibility{MinCGPA: 8}, 1},
		{"department case-insensitive", models.Eligibility{Departments: []string{"ECE", "CSE"}}, 0},
		{"department not listed", models.Eligibility{Departments: []string{"MECH"}}, 1},
		{"batch listed", models.Eligibility{Batches: []int{2024, 2025}}, 0},
		{"batch not listed", models.Eligibility{Batches: []int{2026}}, 1},
		{"backlogs within limit", models.Eligibility{MaxBacklogs: intPtr(1)}, 0},
		{"zero backlogs allowed", models.Eligibility{MaxBacklogs: intPtr(0)}, 1},
		{"everything fails", models.Eligibility{
			MinCGPA: 9, Departments: []string{"EEE"}, Batches: []int{2030}, MaxBacklogs: intPtr(0),
		}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eligibilitypolicy.Check(cand, tt.e)
			assert.Len(t, got, tt.reasons, "reasons: %v", got)
			assert.Equal(t, tt.reasons == 0, eligibilitypolicy.Eligible(cand, tt.e))
		})
	}
}

func TestCheck_MissingDepartmentFailsRestriction(t *testing.T) {
	got := eligibilitypolicy.Check(eligibilitypolicy.Candidate{CGPA: 9}, models.Eligibility{Departments: []string{"CSE"}})
	assert.Len(t, got, 1)
}

func TestFromProfile(t *testing.T) {
	p := &models.StudentProfile{CGPA: 8.1, Department: "IT", Batch: 2026, Backlogs: 2}
	assert.Equal(t,
		eligibilitypolicy.Candidate{CGPA: 8.1, Department: "IT", Batch: 2026, Backlogs: 2},
		eligibilitypolicy.FromProfile(p))
	assert.Equal(t, eligibilitypolicy.Candidate{}, eligibilitypolicy.FromProfile(nil))
}
