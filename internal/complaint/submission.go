package complaint

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidSubmission = errors.New("invalid complaint submission")

// Submission is what a citizen fills in on the complaint form.
type Submission struct {
	Name        string `json:"name" validate:"required"`
	Address     string `json:"address" validate:"required"`
	Phone       string `json:"phone" validate:"required"`
	Category    string `json:"category" validate:"required,category"`
	Description string `json:"description" validate:"required"`
	// Image is the name of the attached file; its contents are never stored.
	Image string `json:"image"`
}

var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := NormalizeCategory(fl.Field().String())
		return err == nil
	})
	return v
}()

// normalize trims every field and reduces Image to a bare file name.
func (s Submission) normalize() Submission {
	s.Name = strings.TrimSpace(s.Name)
	s.Address = strings.TrimSpace(s.Address)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Category = strings.TrimSpace(s.Category)
	s.Description = strings.TrimSpace(s.Description)
	s.Image = strings.TrimSpace(s.Image)
	if s.Image != "" {
		s.Image = path.Base(strings.ReplaceAll(s.Image, `\`, "/"))
	}
	return s
}

// Validate reports every missing or invalid field at once.
func (s Submission) Validate() error {
	err := validate.Struct(s.normalize())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSubmission, strings.Join(fields, ", "))
}
