// utils/validation.go
package utils

import (
	"regexp"
	"strings"

	"piercing-studio-site/models"
)

// Same pattern browsers apply to <input type="email">.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// ValidateEmail checks an address the way an email input does.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

var requiredFields = []struct {
	name  string
	label string
	value func(models.ReleaseForm) string
}{
	{models.FieldFirstName, "First name", func(f models.ReleaseForm) string { return f.FirstName }},
	{models.FieldLastName, "Last name", func(f models.ReleaseForm) string { return f.LastName }},
	{models.FieldEmail, "Email", func(f models.ReleaseForm) string { return f.Email }},
	{models.FieldPhone, "Phone", func(f models.ReleaseForm) string { return f.Phone }},
	{models.FieldDateOfBirth, "Date of birth", func(f models.ReleaseForm) string { return f.DateOfBirth }},
	{models.FieldPiercingType, "Piercing type", func(f models.ReleaseForm) string { return f.PiercingType }},
}

// ValidateReleaseForm enforces the release form's required inputs. An empty
// result means the form may be submitted.
func ValidateReleaseForm(form models.ReleaseForm) []models.FieldError {
	var problems []models.FieldError

	for _, rf := range requiredFields {
		if strings.TrimSpace(rf.value(form)) == "" {
			problems = append(problems, models.FieldError{Field: rf.name, Message: rf.label + " is required"})
		}
	}

	if form.Email != "" && !ValidateEmail(form.Email) {
		problems = append(problems, models.FieldError{Field: models.FieldEmail, Message: "Please enter a valid email address"})
	}
	if form.DateOfBirth != "" {
		if _, err := ParseDateInput(form.DateOfBirth); err != nil {
			problems = append(problems, models.FieldError{Field: models.FieldDateOfBirth, Message: "Please enter a valid date"})
		}
	}
	if form.ParentEmail != "" && !ValidateEmail(form.ParentEmail) {
		problems = append(problems, models.FieldError{Field: models.FieldParentEmail, Message: "Please enter a valid email address"})
	}
	if _, err := models.ParseJewelryChoice(string(form.JewelryChoice)); err != nil {
		problems = append(problems, models.FieldError{Field: models.FieldJewelryChoice, Message: "Please select a jewelry option"})
	}
	if !form.AgreedTerms {
		problems = append(problems, models.FieldError{Field: models.FieldAgreedTerms, Message: "You must agree to the terms and conditions"})
	}

	return problems
}
