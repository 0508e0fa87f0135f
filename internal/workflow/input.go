package workflow

import (
	"strings"

	"topicwheel/internal/domain"
)

func validateName(name string, errs []domain.FieldError) []domain.FieldError {
	if strings.TrimSpace(name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	return errs
}

func toError(errs []domain.FieldError) error {
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RegisterInput holds the parameters of a login.
type RegisterInput struct {
	Name  string
	Level domain.Level
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	errs := validateName(i.Name, nil)
	if !i.Level.IsValid() {
		errs = append(errs, domain.FieldError{Field: "level", Message: "must be 'experienced' or 'beginner'"})
	}
	return toError(errs)
}

// ChooseFlowInput holds the parameters of a flow choice.
type ChooseFlowInput struct {
	Name string
	Flow domain.Flow
}

// Validate checks all fields and collects all errors.
func (i ChooseFlowInput) Validate() error {
	errs := validateName(i.Name, nil)
	if !i.Flow.IsValid() {
		errs = append(errs, domain.FieldError{Field: "flow", Message: "must be 'random' or 'own'"})
	}
	return toError(errs)
}

// SubmitIdeaInput holds the parameters of an own-flow idea submission.
type SubmitIdeaInput struct {
	Name string
	Idea string
}

// Validate checks the name only; idea length is checked against the user's state
// so that flow and topic conflicts are reported first.
func (i SubmitIdeaInput) Validate() error {
	errs := validateName(i.Name, nil)
	if strings.TrimSpace(i.Idea) == "" {
		errs = append(errs, domain.FieldError{Field: "idea", Message: "required"})
	}
	return toError(errs)
}

// CompleteInput holds the parameters of a completion.
type CompleteInput struct {
	Name    string
	GitLink string
}

// Validate checks all fields and collects all errors.
func (i CompleteInput) Validate() error {
	return toError(validateName(i.Name, nil))
}
