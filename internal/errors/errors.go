package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Field error codes understood by the form layer
const (
	CodeRequired         = "required"
	CodeUnique           = "unique"
	CodeInvalid          = "invalid"
	CodeInvalidLogin     = "invalid_login"
	CodeInactive         = "inactive"
	CodePasswordMismatch = "password_mismatch"
	CodeNotFound         = "not_found"
	CodeOrgMember        = "org_member"
	CodeTeamMember       = "team_member"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Field   string // form field holding the conflicting value
	Context string // Additional context like "with this name"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity && e.Field == t.Field
}

// AlreadyMemberError is returned when a membership row for the (user, scope) pair exists
type AlreadyMemberError struct {
	Scope string // "organization" or "team"
}

func (e *AlreadyMemberError) Error() string {
	return fmt.Sprintf("user is already a member of this %s", e.Scope)
}

// Is enables errors.Is() comparison for AlreadyMemberError
func (e *AlreadyMemberError) Is(target error) bool {
	t, ok := target.(*AlreadyMemberError)
	if !ok {
		return false
	}
	return e.Scope == t.Scope
}

// Code returns the form message key for the scope
func (e *AlreadyMemberError) Code() string {
	if e.Scope == "team" {
		return CodeTeamMember
	}
	return CodeOrgMember
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// FieldError is a single user-correctable problem with one form field
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors maps form field names to their errors
type ValidationErrors map[string]FieldError

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field].Code))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add records an error for field and returns the receiver for chaining
func (v ValidationErrors) Add(field, code, message string) ValidationErrors {
	v[field] = FieldError{Code: code, Message: message}
	return v
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Code    string
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrUserNotFound         = &NotFoundError{Entity: "user"}
	ErrOrganizationNotFound = &NotFoundError{Entity: "organization"}
	ErrTeamNotFound         = &NotFoundError{Entity: "team"}
	ErrMembershipNotFound   = &NotFoundError{Entity: "membership"}
	ErrMessageNotFound      = &NotFoundError{Entity: "message"}
	ErrEventNotFound        = &NotFoundError{Entity: "event"}
	ErrFileNotFound         = &NotFoundError{Entity: "file"}

	// ErrScopeNotFound is what callers see when a scope is missing or they may not see it.
	ErrScopeNotFound = &NotFoundError{Entity: "page"}
)

// Already Exists Errors
var (
	ErrUsernameExists     = &AlreadyExistsError{Entity: "user", Field: "username", Context: "with this username"}
	ErrEmailExists        = &AlreadyExistsError{Entity: "user", Field: "email", Context: "with this email"}
	ErrOrganizationExists = &AlreadyExistsError{Entity: "organization", Field: "name", Context: "with this name"}
	ErrTeamExists         = &AlreadyExistsError{Entity: "team", Field: "name", Context: "with this name in the organization"}
)

// Membership Errors
var (
	ErrAlreadyOrganizationMember = &AlreadyMemberError{Scope: "organization"}
	ErrAlreadyTeamMember         = &AlreadyMemberError{Scope: "team"}
	ErrOwnerMembership           = errors.New("the owner's membership cannot be removed")
)

// Authentication Errors
var (
	ErrAuthenticationRequired = &AuthenticationError{Code: "authentication_required", Message: "authentication required"}
	ErrAlreadyAuthenticated   = &AuthenticationError{Code: "already_authenticated", Message: "already authenticated"}
	ErrInvalidLogin           = &AuthenticationError{Code: CodeInvalidLogin, Message: "Your email or password are incorrect."}
	ErrInactiveUser           = &AuthenticationError{Code: CodeInactive, Message: "You cannot log in at this time."}
	ErrInvalidToken           = &AuthenticationError{Code: "invalid_token", Message: "invalid or expired token"}
)

// Business Logic Errors
var (
	ErrInvalidTimeRange      = errors.New("event end date precedes start date")
	ErrProviderNotConfigured = errors.New("provider is not configured")
	ErrProviderRequestFailed = errors.New("provider request failed")
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsAlreadyMember checks if an error is an AlreadyMemberError
func IsAlreadyMember(err error) bool {
	var memberErr *AlreadyMemberError
	return errors.As(err, &memberErr)
}

// IsValidation checks if an error is a ValidationError or ValidationErrors
func IsValidation(err error) bool {
	var validationErr *ValidationError
	var fieldErrs ValidationErrors
	return errors.As(err, &validationErr) || errors.As(err, &fieldErrs)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// AsValidationErrors converts err into a field-name-to-message mapping.
// Identity, uniqueness and membership errors are translated to the field the form shows them on.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var fieldErrs ValidationErrors
	if errors.As(err, &fieldErrs) {
		return fieldErrs, true
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		field := validationErr.Field
		if field == "" {
			field = "__all__"
		}
		return ValidationErrors{}.Add(field, CodeInvalid, validationErr.Message), true
	}

	var existsErr *AlreadyExistsError
	if errors.As(err, &existsErr) {
		return ValidationErrors{}.Add(existsErr.Field, CodeUnique, uniqueMessage(existsErr.Field)), true
	}

	var memberErr *AlreadyMemberError
	if errors.As(err, &memberErr) {
		return ValidationErrors{}.Add("email", memberErr.Code(), fmt.Sprintf("This user is already a member of this %s.", memberErr.Scope)), true
	}

	if errors.Is(err, ErrUserNotFound) {
		return ValidationErrors{}.Add("email", CodeNotFound, "We couldn't find this user."), true
	}

	var authErr *AuthenticationError
	if errors.As(err, &authErr) && (authErr.Code == CodeInvalidLogin || authErr.Code == CodeInactive) {
		return ValidationErrors{}.Add("__all__", authErr.Code, authErr.Message), true
	}

	if errors.Is(err, ErrInvalidTimeRange) {
		return ValidationErrors{}.Add("end", CodeInvalid, ErrInvalidTimeRange.Error()), true
	}

	return nil, false
}

func uniqueMessage(field string) string {
	switch field {
	case "username":
		return "This username is taken."
	case "email":
		return "This email address is taken."
	}
	return fmt.Sprintf("This %s is taken.", field)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, field, context string) error {
	return &AlreadyExistsError{Entity: entity, Field: field, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}
