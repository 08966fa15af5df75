package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "team"}
		assert.Equal(t, "team not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "team"}
		err2 := &NotFoundError{Entity: "team"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		assert.False(t, errors.Is(ErrTeamNotFound, ErrOrganizationNotFound))
	})

	t.Run("wrapped errors are still detected", func(t *testing.T) {
		wrapped := fmt.Errorf("lookup failed: %w", ErrMembershipNotFound)
		assert.True(t, errors.Is(wrapped, ErrMembershipNotFound))
		assert.True(t, IsNotFound(wrapped))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrScopeNotFound))
		assert.False(t, IsNotFound(ErrOwnerMembership))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		assert.Equal(t, "user already exists with this email", ErrEmailExists.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "team"}
		assert.Equal(t, "team already exists", err.Error())
	})

	t.Run("errors.Is distinguishes fields", func(t *testing.T) {
		assert.True(t, errors.Is(ErrEmailExists, &AlreadyExistsError{Entity: "user", Field: "email"}))
		assert.False(t, errors.Is(ErrEmailExists, ErrUsernameExists))
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrTeamExists))
		assert.False(t, IsAlreadyExists(ErrTeamNotFound))
	})
}

func TestAlreadyMemberError(t *testing.T) {
	t.Run("scoped codes", func(t *testing.T) {
		assert.Equal(t, CodeOrgMember, ErrAlreadyOrganizationMember.Code())
		assert.Equal(t, CodeTeamMember, ErrAlreadyTeamMember.Code())
	})

	t.Run("scoped messages", func(t *testing.T) {
		assert.Equal(t, "user is already a member of this organization", ErrAlreadyOrganizationMember.Error())
		assert.Equal(t, "user is already a member of this team", ErrAlreadyTeamMember.Error())
	})

	t.Run("errors.Is compares scope", func(t *testing.T) {
		assert.True(t, errors.Is(fmt.Errorf("invite: %w", ErrAlreadyTeamMember), ErrAlreadyTeamMember))
		assert.False(t, errors.Is(ErrAlreadyTeamMember, ErrAlreadyOrganizationMember))
		assert.True(t, IsAlreadyMember(ErrAlreadyOrganizationMember))
	})
}

func TestValidationErrors(t *testing.T) {
	t.Run("Error message is stable", func(t *testing.T) {
		errs := ValidationErrors{}.
			Add("username", CodeUnique, "taken").
			Add("email", CodeRequired, "required")
		assert.Equal(t, "validation failed: email: required, username: unique", errs.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		errs := ValidationErrors{}.Add("name", CodeRequired, "required")
		assert.True(t, IsValidation(fmt.Errorf("wrapped: %w", errs)))
		assert.True(t, IsValidation(NewValidationError("email", "invalid")))
		assert.False(t, IsValidation(ErrTeamNotFound))
	})
}

func TestAsValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		field string
		code  string
	}{
		{"field errors pass through", ValidationErrors{}.Add("password_two", CodePasswordMismatch, "x"), "password_two", CodePasswordMismatch},
		{"single validation error", NewValidationError("start", "bad date"), "start", CodeInvalid},
		{"unique username", ErrUsernameExists, "username", CodeUnique},
		{"unique organization name", fmt.Errorf("create: %w", ErrOrganizationExists), "name", CodeUnique},
		{"unknown user email", ErrUserNotFound, "email", CodeNotFound},
		{"organization membership", ErrAlreadyOrganizationMember, "email", CodeOrgMember},
		{"team membership", ErrAlreadyTeamMember, "email", CodeTeamMember},
		{"invalid login", ErrInvalidLogin, "__all__", CodeInvalidLogin},
		{"inactive", ErrInactiveUser, "__all__", CodeInactive},
		{"event dates", ErrInvalidTimeRange, "end", CodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, ok := AsValidationErrors(tt.err)
			require.True(t, ok)
			require.Contains(t, errs, tt.field)
			assert.Equal(t, tt.code, errs[tt.field].Code)
		})
	}

	t.Run("non form errors are not converted", func(t *testing.T) {
		_, ok := AsValidationErrors(ErrScopeNotFound)
		assert.False(t, ok)
		_, ok = AsValidationErrors(ErrAuthenticationRequired)
		assert.False(t, ok)
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("IsAuthentication", func(t *testing.T) {
		assert.True(t, IsAuthentication(ErrAuthenticationRequired))
		assert.True(t, IsAuthentication(NewAuthenticationError("nope")))
		assert.False(t, IsAuthentication(ErrScopeNotFound))
	})

	t.Run("IsAuthorization", func(t *testing.T) {
		assert.True(t, IsAuthorization(NewAuthorizationError("forbidden")))
		assert.False(t, IsAuthorization(ErrInvalidLogin))
	})

	t.Run("IsConfiguration", func(t *testing.T) {
		assert.True(t, IsConfiguration(NewConfigurationError("missing")))
		assert.False(t, IsConfiguration(ErrProviderNotConfigured))
	})

	t.Run("constructors", func(t *testing.T) {
		assert.EqualError(t, NewNotFoundError("widget"), "widget not found")
		assert.EqualError(t, NewAlreadyExistsError("widget", "name", "with this name"), "widget already exists with this name")
	})
}
