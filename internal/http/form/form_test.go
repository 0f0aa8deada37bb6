package form

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-web/internal/types"
)

func postForm(values url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/add/student", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func ptr(s string) *string { return &s }

func TestParseAllKeys(t *testing.T) {
	f, err := Parse(postForm(url.Values{
		"name":   {"Ana"},
		"email":  {"a@x.com"},
		"course": {"CS"},
		"phone":  {"123"},
	}))
	require.NoError(t, err)

	assert.Equal(t, types.StudentForm{
		Name: ptr("Ana"), Email: ptr("a@x.com"), Course: ptr("CS"), Phone: ptr("123"),
	}, f)
	assert.NoError(t, RequireAll(f))
}

func TestParseAbsentAndEmptyKeys(t *testing.T) {
	f, err := Parse(postForm(url.Values{
		"name":  {""},
		"phone": {"555"},
	}))
	require.NoError(t, err)

	require.NotNil(t, f.Name)
	assert.Equal(t, "", *f.Name)
	assert.Nil(t, f.Email)
	assert.Nil(t, f.Course)
	assert.Equal(t, "555", *f.Phone)

	assert.Equal(t, types.StudentFields{Phone: "555"}, f.Fields())
}

func TestParseEmptyBody(t *testing.T) {
	f, err := Parse(postForm(url.Values{}))
	require.NoError(t, err)
	assert.Equal(t, types.StudentForm{}, f)
	assert.Equal(t, types.StudentFields{}, f.Fields())
}

func TestParseIgnoresQueryString(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/add/student?name=query", strings.NewReader("course=CS"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	f, err := Parse(r)
	require.NoError(t, err)
	assert.Nil(t, f.Name)
	assert.Equal(t, "CS", *f.Course)
}

func TestParseMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Ana"))
	require.NoError(t, mw.WriteField("email", "a@x.com"))
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/add/student", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())

	f, err := Parse(r)
	require.NoError(t, err)
	assert.Equal(t, types.StudentFields{Name: "Ana", Email: "a@x.com"}, f.Fields())
	assert.Nil(t, f.Course)
}

func TestRequireAllReportsFormKeys(t *testing.T) {
	err := RequireAll(types.StudentForm{Name: ptr(""), Course: ptr("CS")})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"email", "phone"}, Missing(err))
}

func TestMissingWithoutValidationError(t *testing.T) {
	assert.Nil(t, Missing(nil))
	assert.Nil(t, Missing(assert.AnError))
}

func TestDecodeJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/students",
		strings.NewReader(`{"name":"Ana","email":"","course":null}`))

	f, err := DecodeJSON(r)
	require.NoError(t, err)
	assert.Equal(t, "Ana", *f.Name)
	assert.Equal(t, "", *f.Email)
	assert.Nil(t, f.Course)
	assert.Nil(t, f.Phone)
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(""))

	_, err := DecodeJSON(r)
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestDecodeJSONMalformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/students", strings.NewReader(`{"name":`))

	_, err := DecodeJSON(r)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyBody)
}
