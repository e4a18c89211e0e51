// Package passwordrules validates candidate password pairs against the
// portal's composition policy. Validation is pure; it never touches the
// credential store.
package passwordrules

import "unicode"

const (
	MinLength = 16
	MaxLength = 100
)

type ViolationType string

const (
	ViolationMin       ViolationType = "min"
	ViolationMax       ViolationType = "max"
	ViolationUppercase ViolationType = "uppercase"
	ViolationLowercase ViolationType = "lowercase"
	ViolationDigits    ViolationType = "digits"
	ViolationSpaces    ViolationType = "spaces"
	ViolationMismatch  ViolationType = "passwordMismatch"
)

var messages = map[ViolationType]string{
	ViolationMin:       "The password you've entered doesn't meet the minimum length of 16 characters",
	ViolationMax:       "The password you've entered is longer than the maximum length of 100 characters",
	ViolationUppercase: "Your password must contain an uppercase letter",
	ViolationLowercase: "Your password must contain a lowercase letter",
	ViolationDigits:    "Your password must contain at least one digit",
	ViolationSpaces:    "Your password must not contain spaces",
	ViolationMismatch:  `The "New Password" and "Confirmation Password" you've entered do not match`,
}

type Violation struct {
	Type    ViolationType
	Message string
}

type Result struct {
	OK     bool
	Errors []Violation
}

// Validate checks every rule independently and reports all violations,
// not just the first.
func Validate(newPassword, confirmPassword string) Result {
	var errs []Violation

	add := func(t ViolationType) {
		errs = append(errs, Violation{Type: t, Message: messages[t]})
	}

	if newPassword != confirmPassword {
		add(ViolationMismatch)
	}

	runes := []rune(newPassword)
	if len(runes) < MinLength {
		add(ViolationMin)
	}
	if len(runes) > MaxLength {
		add(ViolationMax)
	}

	var hasUpper, hasLower, hasDigit, hasSpace bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsSpace(r):
			hasSpace = true
		}
	}

	if !hasUpper {
		add(ViolationUppercase)
	}
	if !hasLower {
		add(ViolationLowercase)
	}
	if !hasDigit {
		add(ViolationDigits)
	}
	if hasSpace {
		add(ViolationSpaces)
	}

	return Result{OK: len(errs) == 0, Errors: errs}
}
