// Package company loads the exporting company's profile (name, organisation number and
// contact person) from a YAML file.
package company

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"exporter/pkg/models"
)

var orgNumberPattern = regexp.MustCompile(`^[0-9]+(-[0-9]+)?$`)

// Loader reads and validates company profiles.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a Loader with the custom "orgnumber" validation registered.
func NewLoader() *Loader {
	v := validator.New()
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("orgnumber", func(fl validator.FieldLevel) bool {
		return orgNumberPattern.MatchString(fl.Field().String())
	})
	return &Loader{validate: v}
}

// Load reads path and overlays the non-empty fields of overrides. A missing file is not
// an error as long as the overrides supply a valid profile.
func (l *Loader) Load(path string, overrides models.CompanyInfo) (models.CompanyInfo, error) {
	const op = "company.Load"

	var info models.CompanyInfo

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &info); err != nil {
			return models.CompanyInfo{}, fmt.Errorf("%s: parsing %s: %w", op, path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return models.CompanyInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	info = merge(info, overrides)

	if err := l.Validate(info); err != nil {
		return models.CompanyInfo{}, fmt.Errorf("%s: invalid company profile %s: %w", op, path, err)
	}

	return info, nil
}

// Validate checks the struct tags on models.CompanyInfo.
func (l *Loader) Validate(info models.CompanyInfo) error {
	if err := l.validate.Struct(info); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, ", "))
		}
		return err
	}
	return nil
}

func merge(base, override models.CompanyInfo) models.CompanyInfo {
	if s := strings.TrimSpace(override.Name); s != "" {
		base.Name = s
	}
	if s := strings.TrimSpace(override.OrgNumber); s != "" {
		base.OrgNumber = s
	}
	if s := strings.TrimSpace(override.ContactPerson); s != "" {
		base.ContactPerson = s
	}
	base.Name = strings.TrimSpace(base.Name)
	base.OrgNumber = strings.TrimSpace(base.OrgNumber)
	base.ContactPerson = strings.TrimSpace(base.ContactPerson)
	return base
}
