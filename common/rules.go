// file: common/rules.go

package common

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"user-management-api/model"
)

const (
	NicknameMinLength = 3
	NicknameMaxLength = 30
	PasswordMinLength = 8
	URLMaxLength      = 255

	// PasswordSpecialChars is the set of symbols that satisfy the password
	// special-character rule: every printable ASCII punctuation character.
	PasswordSpecialChars = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

var nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var (
	ErrNicknameLength    = errors.New("nickname must be between 3 and 30 characters")
	ErrNicknameCharset   = errors.New("nickname may only contain letters, digits, underscores and hyphens")
	ErrPasswordTooShort  = errors.New("password must be at least 8 characters long")
	ErrPasswordNoUpper   = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLower   = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoDigit   = errors.New("password must contain at least one digit")
	ErrPasswordNoSpecial = errors.New("password must contain at least one special character")
	ErrInvalidURL        = errors.New("invalid URL format")
	ErrURLScheme         = errors.New("URL scheme must be http or https")
	ErrURLTooLong        = errors.New("URL must be at most 255 characters")
	ErrInvalidEmail      = errors.New("value is not a valid email address")
	ErrEmptyUpdate       = errors.New("At least one field must be provided for update")
)

// ValidateNickname checks length before charset, so an empty nickname is
// reported as too short.
func ValidateNickname(nickname string) error {
	n := utf8.RuneCountInString(nickname)
	if n < NicknameMinLength || n > NicknameMaxLength {
		return ErrNicknameLength
	}
	if !nicknamePattern.MatchString(nickname) {
		return ErrNicknameCharset
	}
	return nil
}

// ValidatePassword enforces the strength rule applied when a password is set.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(PasswordSpecialChars, r):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return ErrPasswordNoUpper
	case !hasLower:
		return ErrPasswordNoLower
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasSpecial:
		return ErrPasswordNoSpecial
	}
	return nil
}

// ValidateProfileURL accepts nil, or an absolute http(s) URL with a host
// that fits the profile URL columns.
func ValidateProfileURL(raw *string) error {
	if raw == nil {
		return nil
	}
	if utf8.RuneCountInString(*raw) > URLMaxLength {
		return ErrURLTooLong
	}
	u, err := url.Parse(*raw)
	if err != nil {
		return ErrInvalidURL
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrURLScheme
	}
	if u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// ValidateEmail checks the address grammar. The returned *ValidationError
// echoes the rejected value and unwraps to ErrInvalidEmail.
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return &ValidationError{Field: "email", Reason: ErrInvalidEmail.Error(), Value: email, err: ErrInvalidEmail}
	}
	return nil
}

// ValidateUpdateCompleteness rejects an update that carries no field at all.
func ValidateUpdateCompleteness(update model.UserUpdate) error {
	if !update.HasAnyField() {
		return ErrEmptyUpdate
	}
	return nil
}
