package user

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/ustazbot/myhafiz/core"
)

var (
	// custom validation tags & texts
	roleTag  = "role"
	roleText = "role must be one of: Student, Teacher, Parent"

	languageTag  = "language"
	languageText = "language must be one of: en, ms"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to name or email"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(roleTag, roleValidation)
	core.RegisterCustomTranslation(validate, translator, roleTag, roleText)

	_ = validate.RegisterValidation(languageTag, languageValidation)
	core.RegisterCustomTranslation(validate, translator, languageTag, languageText)

	validate.RegisterStructValidation(userStructValidation, NewUser{})
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

func roleValidation(fl validator.FieldLevel) bool {
	return contains(AllRoles, fl.Field().String())
}

func languageValidation(fl validator.FieldLevel) bool {
	return contains(AllLanguages, fl.Field().String())
}

// userStructValidation rejects passwords too similar to the user's own name
// or email.
func userStructValidation(sl validator.StructLevel) {
	nu, ok := sl.Current().Interface().(NewUser)
	if !ok {
		return
	}

	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(usrAttr, "")).QuickRatio()
	}
	if getRatio(nu.Password, nu.Name) >= pwdMaxSim || getRatio(nu.Password, nu.Email) >= pwdMaxSim {
		sl.ReportError(nu.Password, "password", "Password", pwdAttrSimTag, "")
	}
}

func contains(vals []string, val string) bool {
	for _, v := range vals {
		if v == val {
			return true
		}
	}
	return false
}
