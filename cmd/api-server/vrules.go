package main

import (
	"github.com/protomem/timeclock/internal/validator"
)

// Validation rules

func validateRequestLogin(v *validator.Validator, request requestLogin) {
	v.CheckField(validator.NotBlank(request.Passcode), "passcode", "passcode required")
}

func validateRequestClock(v *validator.Validator, request requestClock) {
	v.Struct(request)
}

func validateRequestAddEmployee(v *validator.Validator, request requestAddEmployee) {
	v.Struct(request)
	v.CheckField(validator.NotBlank(request.Name), "name", "cannot be blank")
	v.CheckField(validator.NotBlank(request.Passcode), "passcode", "cannot be blank")
}
