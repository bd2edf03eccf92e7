// file: common/validator_test.go

package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"user-management-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func userBaseData() model.UserBase {
	return model.UserBase{
		Nickname:          "john_doe123",
		Email:             "john.doe@example.com",
		FirstName:         strPtr("John"),
		LastName:          strPtr("Doe"),
		Bio:               strPtr("I am a software engineer with over 5 years of experience."),
		ProfilePictureURL: strPtr("https://example.com/profile_pictures/john_doe.jpg"),
	}
}

func requireValidationError(t *testing.T, err error) *ValidationError {
	t.Helper()
	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr), "expected *ValidationError, got %v", err)
	return vErr
}

func TestValidateStruct_UserBase(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		base := userBaseData()
		assert.NoError(t, ValidateStruct(&base))
	})

	t.Run("nickname rejected", func(t *testing.T) {
		for _, nickname := range []string{"test user", "test?user", "", "us"} {
			base := userBaseData()
			base.Nickname = nickname
			vErr := requireValidationError(t, ValidateStruct(&base))
			assert.Equal(t, "nickname", vErr.Field)
		}
	})

	t.Run("empty nickname reported as length", func(t *testing.T) {
		base := userBaseData()
		base.Nickname = ""
		vErr := requireValidationError(t, ValidateStruct(&base))
		assert.Equal(t, ErrNicknameLength.Error(), vErr.Reason)
	})

	t.Run("profile url accepted", func(t *testing.T) {
		for _, url := range []*string{strPtr("http://valid.com/profile.jpg"), strPtr("https://valid.com/profile.png"), nil} {
			base := userBaseData()
			base.ProfilePictureURL = url
			assert.NoError(t, ValidateStruct(&base))
		}
	})

	t.Run("profile url rejected", func(t *testing.T) {
		for _, url := range []string{"ftp://invalid.com/profile.jpg", "http//invalid", "https//invalid"} {
			base := userBaseData()
			base.ProfilePictureURL = strPtr(url)
			vErr := requireValidationError(t, ValidateStruct(&base))
			assert.Equal(t, "profile_picture_url", vErr.Field)
		}
	})

	t.Run("invalid email echoes the value", func(t *testing.T) {
		base := userBaseData()
		base.Email = "john.doe.example.com"
		err := ValidateStruct(&base)
		vErr := requireValidationError(t, err)
		assert.Equal(t, "email", vErr.Field)
		assert.Contains(t, err.Error(), "value is not a valid email address")
		assert.Contains(t, err.Error(), "john.doe.example.com")
	})
}

func TestValidateStruct_UserCreate(t *testing.T) {
	for _, password := range []string{"Short1!", "alllowercase1!", "NoNumber!", "NoSpecial123"} {
		t.Run("rejects "+password, func(t *testing.T) {
			create := model.UserCreate{UserBase: userBaseData(), Password: password}
			err := ValidateStruct(&create)
			vErr := requireValidationError(t, err)
			assert.Equal(t, "password", vErr.Field)
			assert.NotContains(t, err.Error(), password)
		})
	}

	t.Run("accepts strong password", func(t *testing.T) {
		create := model.UserCreate{UserBase: userBaseData(), Password: "StrongPass1!"}
		assert.NoError(t, ValidateStruct(&create))
		assert.Equal(t, "StrongPass1!", create.Password)
	})

	t.Run("short password reason is length", func(t *testing.T) {
		create := model.UserCreate{UserBase: userBaseData(), Password: "Short1!"}
		vErr := requireValidationError(t, ValidateStruct(&create))
		assert.Equal(t, ErrPasswordTooShort.Error(), vErr.Reason)
	})
}

func TestValidateStruct_UserUpdate(t *testing.T) {
	t.Run("empty update rejected", func(t *testing.T) {
		err := ValidateStruct(&model.UserUpdate{})
		vErr := requireValidationError(t, err)
		assert.Contains(t, err.Error(), "At least one field must be provided for update")
		assert.Equal(t, "body", vErr.Field)
	})

	t.Run("single field", func(t *testing.T) {
		update := model.UserUpdate{FirstName: strPtr("Jane")}
		assert.NoError(t, ValidateStruct(&update))
	})

	t.Run("multiple fields", func(t *testing.T) {
		update := model.UserUpdate{Bio: strPtr("New bio"), ProfilePictureURL: strPtr("https://example.com/pic.jpg")}
		assert.NoError(t, ValidateStruct(&update))
	})

	t.Run("field rule wins over completeness", func(t *testing.T) {
		update := model.UserUpdate{Nickname: strPtr("ab")}
		vErr := requireValidationError(t, ValidateStruct(&update))
		assert.Equal(t, "nickname", vErr.Field)
	})

	t.Run("invalid email in update", func(t *testing.T) {
		update := model.UserUpdate{Email: strPtr("john.doe.example.com")}
		err := ValidateStruct(&update)
		assert.Contains(t, err.Error(), "john.doe.example.com")
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestValidateStruct_LoginRequest(t *testing.T) {
	t.Run("weak password still accepted", func(t *testing.T) {
		login := model.LoginRequest{Email: "john.doe@example.com", Password: "weak"}
		assert.NoError(t, ValidateStruct(&login))
	})

	t.Run("password required", func(t *testing.T) {
		login := model.LoginRequest{Email: "john.doe@example.com"}
		vErr := requireValidationError(t, ValidateStruct(&login))
		assert.Equal(t, "password", vErr.Field)
		assert.Equal(t, "field required", vErr.Reason)
	})
}

func TestValidateStruct_ColumnLimits(t *testing.T) {
	longURL := "https://example.com/" + strings.Repeat("a", 300)

	t.Run("first name over 100 characters", func(t *testing.T) {
		base := userBaseData()
		base.FirstName = strPtr(strings.Repeat("a", 101))
		vErr := requireValidationError(t, ValidateStruct(&base))
		assert.Equal(t, "first_name", vErr.Field)
		assert.Equal(t, "must be at most 100 characters", vErr.Reason)
	})

	t.Run("first name of exactly 100 characters", func(t *testing.T) {
		base := userBaseData()
		base.FirstName = strPtr(strings.Repeat("a", 100))
		assert.NoError(t, ValidateStruct(&base))
	})

	t.Run("last name over 100 characters", func(t *testing.T) {
		base := userBaseData()
		base.LastName = strPtr(strings.Repeat("b", 101))
		vErr := requireValidationError(t, ValidateStruct(&base))
		assert.Equal(t, "last_name", vErr.Field)
	})

	t.Run("profile urls over 255 characters", func(t *testing.T) {
		cases := map[string]func(*model.UserBase){
			"profile_picture_url":  func(b *model.UserBase) { b.ProfilePictureURL = strPtr(longURL) },
			"linkedin_profile_url": func(b *model.UserBase) { b.LinkedInProfileURL = strPtr(longURL) },
			"github_profile_url":   func(b *model.UserBase) { b.GitHubProfileURL = strPtr(longURL) },
		}
		for field, set := range cases {
			base := userBaseData()
			set(&base)
			err := ValidateStruct(&base)
			vErr := requireValidationError(t, err)
			assert.Equal(t, field, vErr.Field)
			assert.ErrorIs(t, err, ErrURLTooLong)
		}
	})

	t.Run("email over 255 characters", func(t *testing.T) {
		base := userBaseData()
		base.Email = strings.Repeat("a", 64) + "@" + strings.Repeat(strings.Repeat("b", 60)+".", 4) + "com"
		vErr := requireValidationError(t, ValidateStruct(&base))
		assert.Equal(t, "email", vErr.Field)
	})

	t.Run("update fields are bounded too", func(t *testing.T) {
		update := model.UserUpdate{LastName: strPtr(strings.Repeat("c", 101))}
		vErr := requireValidationError(t, ValidateStruct(&update))
		assert.Equal(t, "last_name", vErr.Field)

		update = model.UserUpdate{GitHubProfileURL: strPtr(longURL)}
		vErr = requireValidationError(t, ValidateStruct(&update))
		assert.Equal(t, "github_profile_url", vErr.Field)
	})
}

func TestValidateAndDecode(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
		var login model.LoginRequest
		appErr := ValidateAndDecode(req, &login)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.Code)
	})

	t.Run("validation failure is 422", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader("{}"))
		var update model.UserUpdate
		appErr := ValidateAndDecode(req, &update)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusUnprocessableEntity, appErr.Code)
		assert.Equal(t, "body", appErr.Field)
	})

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/users/1", strings.NewReader(`{"first_name":"Jane","bio":null}`))
		var update model.UserUpdate
		assert.Nil(t, ValidateAndDecode(req, &update))
		assert.Equal(t, "Jane", *update.FirstName)
		assert.Nil(t, update.Bio)
	})
}
