package app

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"stayhub/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkStruct runs validator tags and converts the first failure into the
// domain's ValidationError so callers never see validator internals.
func checkStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.ValidationError{
			Field:  strings.ToLower(fe.Field()),
			Reason: "fails '" + fe.Tag() + "' constraint",
		}
	}
	return &domain.ValidationError{Reason: err.Error()}
}

func checkRange(r domain.DateRange) error {
	if r.Start.IsZero() || r.End.IsZero() {
		return &domain.ValidationError{Field: "dates", Reason: "start and end are required"}
	}
	if !r.Valid() {
		return &domain.ValidationError{Field: "dates", Reason: "end date before start date"}
	}
	return nil
}
