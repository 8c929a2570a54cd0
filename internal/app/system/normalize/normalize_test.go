package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScalars(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"email lowercased", Email, "  Asha.Rao@Uni.EDU ", "asha.rao@uni.edu"},
		{"email blank", Email, "   ", ""},
		{"name keeps case", Name, "  Asha   K  Rao ", "Asha K Rao"},
		{"name blank", Name, "\t", ""},
		{"status", Status, " In_Progress ", "in_progress"},
		{"register number", RegisterNumber, " 21cs101", "21CS101"},
		{"department", Department, "ece ", "ECE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.fn(tc.in))
		})
	}
}

func TestTags(t *testing.T) {
	got := Tags([]string{" Go ", "go", "", "Docker", "  ", "docker", "SQL"})
	assert.Equal(t, []string{"Go", "Docker", "SQL"}, got)
	assert.Empty(t, Tags(nil))
}
