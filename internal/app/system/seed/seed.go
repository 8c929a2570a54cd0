// Package seed loads the company catalogue from a YAML file. It backs the
// seedcompanies command and is safe to re-run: companies are matched by
// name and updated in place.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	companystore "github.com/dalemusser/placementhub/internal/app/store/companies"
	"github.com/dalemusser/placementhub/internal/domain/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the top level of a seed document.
type File struct {
	Companies []Company `yaml:"companies"`
}

// Company mirrors the editable fields of models.Company.
type Company struct {
	Name          string     `yaml:"name"`
	Description   string     `yaml:"description"`
	Website       string     `yaml:"website"`
	LogoURL       string     `yaml:"logo_url"`
	Industry      string     `yaml:"industry"`
	Role          string     `yaml:"role"`
	PackageLPA    float64    `yaml:"package_lpa"`
	Location      string     `yaml:"location"`
	Status        string     `yaml:"status"`
	ApplyDeadline *time.Time `yaml:"apply_deadline"`

	Eligibility struct {
		MinCGPA     float64  `yaml:"min_cgpa"`
		Departments []string `yaml:"departments"`
		Batches     []int    `yaml:"batches"`
		MaxBacklogs *int     `yaml:"max_backlogs"`
	} `yaml:"eligibility"`

	Process []struct {
		Name        string `yaml:"name"`
		Kind        string `yaml:"kind"`
		Description string `yaml:"description"`
	} `yaml:"process"`

	Events []struct {
		Title       string     `yaml:"title"`
		Kind        string     `yaml:"kind"`
		StartsAt    time.Time  `yaml:"starts_at"`
		EndsAt      *time.Time `yaml:"ends_at"`
		Location    string     `yaml:"location"`
		Link        string     `yaml:"link"`
		Description string     `yaml:"description"`
	} `yaml:"events"`
}

// Parse decodes a seed document. Unknown keys are rejected so typos in
// hand-edited files surface instead of being silently dropped.
func Parse(data []byte) ([]models.Company, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	out := make([]models.Company, 0, len(f.Companies))
	seen := make(map[string]bool, len(f.Companies))
	for i, sc := range f.Companies {
		name := strings.TrimSpace(sc.Name)
		if name == "" {
			return nil, fmt.Errorf("company #%d: name is required", i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("company %q listed twice", name)
		}
		seen[key] = true
		out = append(out, sc.model())
	}
	return out, nil
}

func (sc Company) model() models.Company {
	c := models.Company{
		Name:          strings.TrimSpace(sc.Name),
		Description:   sc.Description,
		Website:       sc.Website,
		LogoURL:       sc.LogoURL,
		Industry:      sc.Industry,
		Role:          sc.Role,
		PackageLPA:    sc.PackageLPA,
		Location:      sc.Location,
		Status:        sc.Status,
		ApplyDeadline: sc.ApplyDeadline,
		Eligibility: models.Eligibility{
			MinCGPA:     sc.Eligibility.MinCGPA,
			Departments: sc.Eligibility.Departments,
			Batches:     sc.Eligibility.Batches,
			MaxBacklogs: sc.Eligibility.MaxBacklogs,
		},
	}
	for i, p := range sc.Process {
		c.Process = append(c.Process, models.ProcessStage{
			Order:       i + 1,
			Name:        p.Name,
			Kind:        p.Kind,
			Description: p.Description,
		})
	}
	for _, e := range sc.Events {
		c.Events = append(c.Events, models.CompanyEvent{
			Title:       e.Title,
			Kind:        e.Kind,
			StartsAt:    e.StartsAt,
			EndsAt:      e.EndsAt,
			Location:    e.Location,
			Link:        e.Link,
			Description: e.Description,
		})
	}
	return c
}

// Result counts what Load did.
type Result struct {
	Created int
	Updated int
}

// Load upserts every company. It stops at the first failure; companies
// already written stay written.
func Load(ctx context.Context, store *companystore.Store, companies []models.Company, logger *zap.Logger) (Result, error) {
	var res Result
	for _, c := range companies {
		created, err := store.UpsertByName(ctx, c)
		if err != nil {
			return res, fmt.Errorf("seed %q: %w", c.Name, err)
		}
		if created {
			res.Created++
			logger.Info("company created", zap.String("name", c.Name))
		} else {
			res.Updated++
			logger.Info("company updated", zap.String("name", c.Name))
		}
	}
	return res, nil
}
