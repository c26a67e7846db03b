package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAtomic(t *testing.T) {
	tests := []struct {
		name     string
		excerpt  string
		expected []string
	}{
		{
			name:     "empty",
			excerpt:  "  \n ",
			expected: []string{},
		},
		{
			name:     "comma list",
			excerpt:  "SQL, Power BI, Python",
			expected: []string{"SQL", "Power BI", "Python"},
		},
		{
			name:     "header line",
			excerpt:  "Tools: Tableau; Excel | Looker",
			expected: []string{"Tools", "Tableau", "Excel", "Looker"},
		},
		{
			name:     "bullets and dashes",
			excerpt:  "• Data modelling — ETL pipelines\n- Stakeholder reporting / KPI design",
			expected: []string{"Data modelling", "ETL pipelines", "Stakeholder reporting", "KPI design"},
		},
		{
			name:     "short tokens",
			excerpt:  "R, Go, C, ETL, dax, ab",
			expected: []string{"R", "ETL", "dax"},
		},
		{
			name:     "drops sentences",
			excerpt:  "I am a very motivated analyst who loves data, SQL",
			expected: []string{"SQL"},
		},
		{
			name:     "case-insensitive dedup keeps first",
			excerpt:  "Python, SQL\nLanguages: python, Sql, Scala",
			expected: []string{"Python", "SQL", "Languages", "Scala"},
		},
		{
			name:     "bare header",
			excerpt:  "Technical Skills:\nExcel",
			expected: []string{"Technical Skills", "Excel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractAtomic(tt.excerpt))
		})
	}
}
