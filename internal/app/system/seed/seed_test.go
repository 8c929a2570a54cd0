package seed

import (
	"testing"
	"time"

	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	"github.com/dalemusser/placementhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

const sample = `
companies:
  - name: Acme Systems
    role: Graduate Engineer
    package_lpa: 12.5
    status: open
    apply_deadline: 2026-11-30T18:00:00Z
    eligibility:
      min_cgpa: 7.5
      departments: [CSE, ECE]
      batches: [2026]
    process:
      - name: Aptitude
        kind: aptitude
      - name: Technical
        kind: technical
      - name: HR
        kind: hr
    events:
      - title: Pre-placement talk
        kind: pre_placement_talk
        starts_at: 2026-11-20T10:00:00Z
        location: Main Auditorium
  - name: Globex
    status: upcoming
`

func TestParse(t *testing.T) {
	cs, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, cs, 2)

	acme := cs[0]
	assert.Equal(t, "Acme Systems", acme.Name)
	assert.Equal(t, 12.5, acme.PackageLPA)
	require.NotNil(t, acme.ApplyDeadline)
	assert.True(t, acme.ApplyDeadline.Equal(time.Date(2026, 11, 30, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, []string{"CSE", "ECE"}, acme.Eligibility.Departments)
	require.Len(t, acme.Process, 3)
	assert.Equal(t, 1, acme.Process[0].Order)
	assert.Equal(t, "HR", acme.FinalStage())
	require.Len(t, acme.Events, 1)
	assert.Equal(t, "pre_placement_talk", acme.Events[0].Kind)

	assert.Empty(t, cs[1].Process)
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "companies:\n  - name: Acme\n    pakage_lpa: 3\n"},
		{"missing name", "companies:\n  - role: Engineer\n"},
		{"duplicate name", "companies:\n  - name: Acme\n  - name: acme\n"},
		{"not yaml", "companies: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cs, err := Parse([]byte(sample))
	require.NoError(t, err)

	store := companystore.New(db)
	res, err := Load(ctx, store, cs, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 2}, res)

	res, err = Load(ctx, store, cs, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, Result{Updated: 2}, res)

	n, err := db.Collection("companies").CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
