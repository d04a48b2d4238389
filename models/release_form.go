package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownField   = errors.New("unknown form field")
	ErrInvalidJewelry = errors.New("invalid jewelry choice")
	ErrInvalidBool    = errors.New("invalid boolean value")
)

type JewelryChoice string

const (
	JewelryBeadRing   JewelryChoice = "16g_bead_ring"
	JewelryLabretStud JewelryChoice = "16g_labret_stud"
)

type JewelryOption struct {
	Value JewelryChoice `json:"value"`
	Label string        `json:"label"`
}

// JewelryOptions are the only values the form accepts, in display order.
var JewelryOptions = []JewelryOption{
	{Value: JewelryBeadRing, Label: "16g Bead Ring"},
	{Value: JewelryLabretStud, Label: "16g Labret Stud with Clear Jewel"},
}

func ParseJewelryChoice(s string) (JewelryChoice, error) {
	for _, opt := range JewelryOptions {
		if string(opt.Value) == s {
			return opt.Value, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidJewelry, s)
}

// Form field names, as posted by the page and sent to the API.
const (
	FieldFirstName       = "first_name"
	FieldLastName        = "last_name"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldDateOfBirth     = "date_of_birth"
	FieldPiercingType    = "piercing_type"
	FieldJewelryChoice   = "jewelry_choice"
	FieldIsMinor         = "is_minor"
	FieldAgreedTerms     = "agreed_terms"
	FieldParentFirstName = "parent_first_name"
	FieldParentLastName  = "parent_last_name"
	FieldParentEmail     = "parent_email"
	FieldParentPhone     = "parent_phone"
)

// CheckboxFields are absent from a posted HTML form when unchecked.
var CheckboxFields = []string{FieldIsMinor, FieldAgreedTerms}

// FormFields lists every field UpdateField accepts, in page order.
var FormFields = []string{
	FieldFirstName, FieldLastName, FieldEmail, FieldPhone, FieldDateOfBirth,
	FieldPiercingType, FieldJewelryChoice, FieldIsMinor, FieldAgreedTerms,
	FieldParentFirstName, FieldParentLastName, FieldParentEmail, FieldParentPhone,
}

// ReleaseForm is the client intake record edited on the release-form tab.
type ReleaseForm struct {
	FirstName     string        `json:"first_name"`
	LastName      string        `json:"last_name"`
	Email         string        `json:"email"`
	Phone         string        `json:"phone"`
	DateOfBirth   string        `json:"date_of_birth"`
	PiercingType  string        `json:"piercing_type"`
	JewelryChoice JewelryChoice `json:"jewelry_choice"`
	IsMinor       bool          `json:"is_minor"`
	AgreedTerms   bool          `json:"agreed_terms"`

	ParentFirstName string `json:"parent_first_name,omitempty"`
	ParentLastName  string `json:"parent_last_name,omitempty"`
	ParentEmail     string `json:"parent_email,omitempty"`
	ParentPhone     string `json:"parent_phone,omitempty"`
}

func NewReleaseForm() ReleaseForm {
	return ReleaseForm{JewelryChoice: JewelryBeadRing}
}

// Set merges a single field. The record is left unchanged on error.
func (f *ReleaseForm) Set(field, value string) error {
	switch field {
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldEmail:
		f.Email = value
	case FieldPhone:
		f.Phone = value
	case FieldDateOfBirth:
		f.DateOfBirth = value
	case FieldPiercingType:
		f.PiercingType = value
	case FieldParentFirstName:
		f.ParentFirstName = value
	case FieldParentLastName:
		f.ParentLastName = value
	case FieldParentEmail:
		f.ParentEmail = value
	case FieldParentPhone:
		f.ParentPhone = value
	case FieldJewelryChoice:
		choice, err := ParseJewelryChoice(value)
		if err != nil {
			return err
		}
		f.JewelryChoice = choice
	case FieldIsMinor, FieldAgreedTerms:
		b, err := parseFormBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
		if field == FieldIsMinor {
			f.IsMinor = b
		} else {
			f.AgreedTerms = b
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func parseFormBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "yes":
		return true, nil
	case "false", "off", "0", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidBool, v)
}

const (
	SignaturePlaceholder = "Digital signature placeholder"
	IDPhotoPlaceholder   = "ID photo placeholder"
)

// Submission is the body POSTed to /api/release-form. Signature and ID
// capture are not implemented, so both carry fixed placeholders.
type Submission struct {
	ReleaseForm
	Signature string `json:"signature"`
	IDPhoto   string `json:"id_photo"`
}

func NewSubmission(form ReleaseForm) Submission {
	return Submission{
		ReleaseForm: form,
		Signature:   SignaturePlaceholder,
		IDPhoto:     IDPhotoPlaceholder,
	}
}

type SubmitResult struct {
	Success  bool     `json:"success"`
	Pricing  *float64 `json:"pricing,omitempty"`
	ClientID string   `json:"client_id,omitempty"`
	Message  string   `json:"message,omitempty"`
}
