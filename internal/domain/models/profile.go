package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudentProfile is created on a student's first successful login. The
// identity fields are copied from Student; the rest is self-reported.
type StudentProfile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"student_id"`

	Name           string  `bson:"name" json:"name"`
	RegisterNumber string  `bson:"register_number,omitempty" json:"register_number,omitempty"`
	Email          string  `bson:"email" json:"email"`
	Department     string  `bson:"department,omitempty" json:"department,omitempty"`
	Batch          int     `bson:"batch,omitempty" json:"batch,omitempty"`
	CGPA           float64 `bson:"cgpa,omitempty" json:"cgpa,omitempty"`
	Backlogs       int     `bson:"backlogs" json:"backlogs"`
	Phone          string  `bson:"phone,omitempty" json:"phone,omitempty"`
	About          string  `bson:"about,omitempty" json:"about,omitempty"`

	Skills      []string           `bson:"skills" json:"skills"`
	Projects    []Project          `bson:"projects" json:"projects"`
	Preferences ProfilePreferences `bson:"preferences" json:"preferences"`
	Stats       ProfileStats       `bson:"stats" json:"stats"`

	ResumeURL   string `bson:"resume_url,omitempty" json:"resume_url,omitempty"`
	LinkedInURL string `bson:"linkedin_url,omitempty" json:"linkedin_url,omitempty"`
	GitHubURL   string `bson:"github_url,omitempty" json:"github_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Project is a self-reported project on a profile.
type Project struct {
	Title       string   `bson:"title" json:"title"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	URL         string   `bson:"url,omitempty" json:"url,omitempty"`
	TechStack   []string `bson:"tech_stack,omitempty" json:"tech_stack,omitempty"`
}

// ProfilePreferences captures what a student is looking for.
type ProfilePreferences struct {
	Roles          []string `bson:"roles,omitempty" json:"roles,omitempty"`
	Locations      []string `bson:"locations,omitempty" json:"locations,omitempty"`
	MinPackage     float64  `bson:"min_package_lpa,omitempty" json:"min_package_lpa,omitempty"`
	OpenToRelocate bool     `bson:"open_to_relocate" json:"open_to_relocate"`
}

// ProfileStats are self-reported coding/practice statistics.
type ProfileStats struct {
	ProblemsSolved int `bson:"problems_solved" json:"problems_solved"`
	ContestRating  int `bson:"contest_rating" json:"contest_rating"`
	MockInterviews int `bson:"mock_interviews" json:"mock_interviews"`
	Certifications int `bson:"certifications" json:"certifications"`
}
