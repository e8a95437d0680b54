package company_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exporter/internal/company"
	"exporter/pkg/models"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "company.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "name: Svenssons Bygg AB\norg_number: 556677-8899\ncontact_person: Erik Svensson\n")

	info, err := company.NewLoader().Load(path, models.CompanyInfo{})
	require.NoError(t, err)
	assert.Equal(t, models.CompanyInfo{
		Name:          "Svenssons Bygg AB",
		OrgNumber:     "556677-8899",
		ContactPerson: "Erik Svensson",
	}, info)
}

func TestLoad_OverridesWin(t *testing.T) {
	path := writeFile(t, "name: Gammalt Namn AB\norg_number: 556677-8899\n")

	info, err := company.NewLoader().Load(path, models.CompanyInfo{Name: "Nytt Namn AB"})
	require.NoError(t, err)
	assert.Equal(t, "Nytt Namn AB", info.Name)
	assert.Equal(t, "556677-8899", info.OrgNumber)
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	info, err := company.NewLoader().Load(missing, models.CompanyInfo{Name: "Flaggbolaget AB"})
	require.NoError(t, err)
	assert.Equal(t, "Flaggbolaget AB", info.Name)

	_, err = company.NewLoader().Load(missing, models.CompanyInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad org number", "name: Test AB\norg_number: 55-66-77\n", "orgnumber"},
		{"letters in org number", "name: Test AB\norg_number: SE556677\n", "orgnumber"},
		{"malformed yaml", "name: [unclosed\n", "parsing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := company.NewLoader().Load(writeFile(t, tt.content), models.CompanyInfo{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
