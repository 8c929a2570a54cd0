// Package eligibilitypolicy decides whether a student meets a company's
// shortlisting criteria.
//
// Rules:
//   - A zero MinCGPA, an empty Departments or Batches list, and a nil
//     MaxBacklogs each mean "no restriction"
//   - Departments compare case-insensitively (codes are stored upper-case)
package eligibilitypolicy

import (
	"fmt"
	"strings"

	"github.com/dalemusser/placementhub/internal/app/system/normalize"
	"github.com/dalemusser/placementhub/internal/domain/models"
)

// Candidate is the academic record checked against a company's criteria.
type Candidate struct {
	CGPA       float64
	Department string
	Batch      int
	Backlogs   int
}

// FromProfile builds a Candidate from a profile.
func FromProfile(p *models.StudentProfile) Candidate {
	if p == nil {
		return Candidate{}
	}
	return Candidate{CGPA: p.CGPA, Department: p.Department, Batch: p.Batch, Backlogs: p.Backlogs}
}

// FromStudent builds a Candidate from a student record. Used before the
// profile exists.
func FromStudent(s *models.Student) Candidate {
	if s == nil {
		return Candidate{}
	}
	return Candidate{CGPA: s.CGPA, Department: s.Department, Batch: s.Batch, Backlogs: s.Backlogs}
}

// Check returns one message per unmet criterion. An empty result means the
// candidate is eligible.
func Check(c Candidate, e models.Eligibility) []string {
	var reasons []string

	if e.MinCGPA > 0 && c.CGPA < e.MinCGPA {
		reasons = append(reasons, fmt.Sprintf("minimum CGPA is %.2f", e.MinCGPA))
	}
	if len(e.Departments) > 0 {
		dept := normalize.Department(c.Department)
		ok := false
		for _, d := range e.Departments {
			if normalize.Department(d) == dept && dept != "" {
				ok = true
				break
			}
		}
		if !ok {
			reasons = append(reasons, "open to departments "+strings.Join(e.Departments, ", "))
		}
	}
	if len(e.Batches) > 0 {
		ok := false
		for _, b := range e.Batches {
			if b == c.Batch {
				ok = true
				break
			}
		}
		if !ok {
			reasons = append(reasons, "not open to your batch")
		}
	}
	if e.MaxBacklogs != nil && c.Backlogs > *e.MaxBacklogs {
		reasons = append(reasons, fmt.Sprintf("at most %d backlogs allowed", *e.MaxBacklogs))
	}
	return reasons
}

// Eligible reports whether c meets every criterion in e.
func Eligible(c Candidate, e models.Eligibility) bool {
	return len(Check(c, e)) == 0
}
