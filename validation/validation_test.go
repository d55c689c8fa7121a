package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/taskmaster-go/apperror"
)

type sample struct {
	Title    string  `json:"title" validate:"required,max=5"`
	Status   string  `json:"status" validate:"required,oneof=pending completed"`
	DueDate  *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Password string  `json:"password" validate:"omitempty,min=3,eqfield=Confirm"`
	Confirm  string  `json:"password_confirmation"`
}

func fieldErrors(t *testing.T, err error) apperror.FieldErrors {
	t.Helper()
	ae, ok := apperror.FromError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, apperror.ValidationError, ae.Type)
	return ae.Fields
}

func TestStructReportsEveryField(t *testing.T) {
	bad := "01/04/2025"
	err := New().Struct(sample{Title: "too long", Status: "archived", DueDate: &bad, Email: "nope", Password: "abcd", Confirm: "abce"})

	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"The title field must not be greater than 5 characters."}, fields["title"])
	assert.Equal(t, []string{"The selected status is invalid."}, fields["status"])
	assert.Equal(t, []string{"The due date field must be a valid date (YYYY-MM-DD)."}, fields["due_date"])
	assert.Equal(t, []string{"The email field must be a valid email address."}, fields["email"])
	assert.Equal(t, []string{"The password field confirmation does not match."}, fields["password"])
}

func TestStructRequired(t *testing.T) {
	fields := fieldErrors(t, New().Struct(sample{}))
	assert.Equal(t, []string{"The title field is required."}, fields["title"])
	assert.Equal(t, []string{"The status field is required."}, fields["status"])
	assert.NotContains(t, fields, "due_date")
}

func TestStructValid(t *testing.T) {
	due := "2025-04-01"
	assert.NoError(t, New().Struct(sample{Title: "Milk", Status: "pending", DueDate: &due}))
}

func request(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(body))
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	var s sample
	require.NoError(t, DecodeJSON(request(""), &s))
	assert.Equal(t, sample{}, s)
}

func TestDecodeJSONWrongType(t *testing.T) {
	var s sample
	fields := fieldErrors(t, DecodeJSON(request(`{"title": 42, "status": "pending"}`), &s))
	assert.Equal(t, []string{"The title field must be a string."}, fields["title"])
}

func TestDecodeJSONMalformed(t *testing.T) {
	var s sample
	fields := fieldErrors(t, DecodeJSON(request(`{"title": `), &s))
	assert.Contains(t, fields, "body")
}

func TestDecodeJSONTrailingData(t *testing.T) {
	var s sample
	fields := fieldErrors(t, DecodeJSON(request(`{"title": "a", "status": "pending"} {"junk"`), &s))
	assert.Contains(t, fields, "body")

	require.NoError(t, DecodeJSON(request("{\"title\": \"a\"}\n  "), &s))
	assert.Equal(t, "a", s.Title)
}

func TestStructMaxBytes(t *testing.T) {
	type secret struct {
		Password string `json:"password" validate:"maxbytes=4"`
	}
	v := New()
	assert.NoError(t, v.Struct(secret{Password: "abcd"}))
	fields := fieldErrors(t, v.Struct(secret{Password: "ééé"}))
	assert.Equal(t, []string{"The password field must not be greater than 4 bytes."}, fields["password"])
}

func TestNormalizeString(t *testing.T) {
	blank := "   "
	padded := "  milk "
	assert.Nil(t, NormalizeString(nil))
	assert.Nil(t, NormalizeString(&blank))
	assert.Equal(t, "milk", *NormalizeString(&padded))
}
