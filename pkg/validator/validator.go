package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator validates request payloads beyond what gin binding covers.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New()}
}

// ValidateStruct runs struct-tag validation on the given value.
func (val *Validator) ValidateStruct(obj interface{}) error {
	return val.v.Struct(obj)
}

// ValidateIDs checks a batch of member ids: non-empty and all positive.
func (val *Validator) ValidateIDs(ids []int64) error {
	return val.v.Var(ids, "required,min=1,dive,gt=0")
}
