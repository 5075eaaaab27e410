package registration

import (
	"fmt"
	"regexp"
	"strings"
)

// Answer field types. Each registration question declares one, and the
// matching variant field below carries the value.
type AnswerType string

const (
	AnswerText     AnswerType = "text"
	AnswerNumber   AnswerType = "number"
	AnswerSelect   AnswerType = "select"
	AnswerCheckbox AnswerType = "checkbox"
	AnswerEmail    AnswerType = "email"
	AnswerPhone    AnswerType = "phone"
)

// ValidationRule controls whether an empty value is acceptable.
type ValidationRule string

const (
	RuleRequired ValidationRule = "required"
	RuleOptional ValidationRule = "optional"
)

// Answer is a tagged variant: Type selects which value field is read.
// Modelling this explicitly (rather than an untyped map) lets validation
// be exhaustive over the known field kinds.
type Answer struct {
	FieldID string         `json:"field_id"`
	Type    AnswerType     `json:"type"`
	Rule    ValidationRule `json:"rule,omitempty"`

	Text     string   `json:"text,omitempty"`
	Number   *float64 `json:"number,omitempty"`
	Selected string   `json:"selected,omitempty"`
	Options  []string `json:"options,omitempty"` // allowed values for select
	Checked  *bool    `json:"checked,omitempty"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
)

// Validate checks the variant that Type selects.
func (a *Answer) Validate() error {
	if a.FieldID == "" {
		return fmt.Errorf("answer missing field_id")
	}

	required := a.Rule == RuleRequired

	switch a.Type {
	case AnswerText:
		if required && strings.TrimSpace(a.Text) == "" {
			return fmt.Errorf("field %s: text answer required", a.FieldID)
		}
	case AnswerNumber:
		if required && a.Number == nil {
			return fmt.Errorf("field %s: number answer required", a.FieldID)
		}
	case AnswerSelect:
		if a.Selected == "" {
			if required {
				return fmt.Errorf("field %s: selection required", a.FieldID)
			}
			return nil
		}
		if len(a.Options) > 0 {
			for _, opt := range a.Options {
				if a.Selected == opt {
					return nil
				}
			}
			return fmt.Errorf("field %s: %q is not an allowed option", a.FieldID, a.Selected)
		}
	case AnswerCheckbox:
		if required && a.Checked == nil {
			return fmt.Errorf("field %s: checkbox answer required", a.FieldID)
		}
	case AnswerEmail:
		if a.Email == "" {
			if required {
				return fmt.Errorf("field %s: email required", a.FieldID)
			}
			return nil
		}
		if !emailPattern.MatchString(a.Email) {
			return fmt.Errorf("field %s: invalid email", a.FieldID)
		}
	case AnswerPhone:
		if a.Phone == "" {
			if required {
				return fmt.Errorf("field %s: phone required", a.FieldID)
			}
			return nil
		}
		if !phonePattern.MatchString(a.Phone) {
			return fmt.Errorf("field %s: invalid phone number", a.FieldID)
		}
	default:
		return fmt.Errorf("field %s: unknown answer type %q", a.FieldID, a.Type)
	}

	return nil
}

// ValidateAnswers validates the whole submission.
func ValidateAnswers(answers []Answer) error {
	for i := range answers {
		if err := answers[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
