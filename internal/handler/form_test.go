package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

type formFile struct {
	field    string
	filename string
	data     []byte
}

func newMultipartContext(t *testing.T, method, path string, fields map[string][]string, files ...formFile) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, value := range values {
			require.NoError(t, writer.WriteField(key, value))
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.Request = req
	return c, w
}

func TestParseSubjectClassMappings(t *testing.T) {
	form := map[string][]string{
		"subjectClassMappings[1][subjectId]":     {"2"},
		"subjectClassMappings[1][classIds][]":    {"30"},
		"subjectClassMappings[0][subjectId]":     {"1"},
		"subjectClassMappings[0][classIds][1]":   {"20"},
		"subjectClassMappings[0][classIds][0]":   {"10"},
		"subjectClassMappings[0][classIds][]":    {"10", "30"},
		"subjectClassMappings[2][subjectId]":     {"abc"},
		"subjectClassMappings[2][classIds][0]":   {"10"},
		"subjectClassMappings[3][subjectId]":     {"4"},
		"subjectClassMappings[x][subjectId]":     {"9"},
		"subjectClassMappings[0][classIds][0][]": {"99"},
	}

	mappings := parseSubjectClassMappings(form)

	assert.Equal(t, []dto.SubjectClassMapping{
		{SubjectID: 1, ClassIDs: []int64{10, 20, 30}},
		{SubjectID: 2, ClassIDs: []int64{30}},
		{SubjectID: 4, ClassIDs: []int64{}},
	}, mappings)
}

func TestParseSubjectClassMappingsIndexedClasses(t *testing.T) {
	form := map[string][]string{
		"subjectClassMappings[0][subjectId]":   {"5"},
		"subjectClassMappings[0][classIds][0]": {"7"},
		"subjectClassMappings[0][classIds][1]": {"8"},
	}

	mappings := parseSubjectClassMappings(form)
	require.Len(t, mappings, 1)
	assert.Equal(t, int64(5), mappings[0].SubjectID)
	assert.ElementsMatch(t, []int64{7, 8}, mappings[0].ClassIDs)
}

func TestParseSubjectClassMappingsEmptyForm(t *testing.T) {
	assert.Empty(t, parseSubjectClassMappings(map[string][]string{"teacherName": {"Asha"}}))
}

func TestFormListDropsBlanks(t *testing.T) {
	form := map[string][]string{
		"sections[]": {"A", " ", "B"},
		"sections":   {"C", ""},
	}
	assert.Equal(t, []string{"A", "B", "C"}, formList(form, "sections"))
}

func TestBindTeacherRegistrationMultipart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := newMultipartContext(t, http.MethodPost, "/teachers", map[string][]string{
		"schoolId":                            {"7"},
		"teacherName":                         {" Asha Rao "},
		"dob":                                 {"1990-04-12"},
		"email":                               {"asha@example.com"},
		"password":                            {"secret123"},
		"phone_number":                        {"9876543210"},
		"aadhaar_number":                      {"123412341234"},
		"experienceYears":                     {"6"},
		"sections[]":                          {"A", "B"},
		"subjectClassMappings[0][subjectId]":  {"3"},
		"subjectClassMappings[0][classIds][]": {"10", "20"},
	}, formFile{field: "profileImage", filename: "me.png", data: []byte("png-bytes")})

	req, err := bindTeacherRegistration(c, 1024)
	require.NoError(t, err)

	assert.Equal(t, int64(7), req.SchoolID)
	assert.Equal(t, "Asha Rao", req.TeacherName)
	require.NotNil(t, req.ExperienceYears)
	assert.Equal(t, 6, *req.ExperienceYears)
	assert.Equal(t, []string{"A", "B"}, req.Sections)
	assert.Equal(t, []dto.SubjectClassMapping{{SubjectID: 3, ClassIDs: []int64{10, 20}}}, req.SubjectClassMappings)
	require.NotNil(t, req.ProfileImage)
	assert.Equal(t, "me.png", req.ProfileImage.Filename)
	assert.Equal(t, []byte("png-bytes"), req.ProfileImage.Data)
}

func TestBindTeacherRegistrationMultipartLegacyFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := newMultipartContext(t, http.MethodPost, "/teachers", map[string][]string{
		"schoolId":   {"7"},
		"subject_id": {"3"},
		"class_id":   {"10"},
	})

	req, err := bindTeacherRegistration(c, 0)
	require.NoError(t, err)
	require.NotNil(t, req.SubjectID)
	require.NotNil(t, req.ClassID)
	assert.Equal(t, int64(3), *req.SubjectID)
	assert.Equal(t, int64(10), *req.ClassID)
	assert.Empty(t, req.SubjectClassMappings)
}

func TestBindTeacherRegistrationRejectsLargeImage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := newMultipartContext(t, http.MethodPost, "/teachers", map[string][]string{"schoolId": {"7"}},
		formFile{field: "profileImage", filename: "big.png", data: bytes.Repeat([]byte{1}, 64)})

	_, err := bindTeacherRegistration(c, 16)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPayloadTooLarge.Code, appErrors.FromError(err).Code)
}

func TestBindTeacherRegistrationRejectsNonNumericSchool(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := newMultipartContext(t, http.MethodPost, "/teachers", map[string][]string{"schoolId": {"seven"}})

	_, err := bindTeacherRegistration(c, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestBindTeacherRegistrationJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := newGinContext(http.MethodPost, "/teachers", []byte(`{
		"schoolId": 7,
		"teacherName": "Asha",
		"sections": ["A"],
		"subjectClassMappings": [{"subjectId": 3, "classIds": [10]}]
	}`))

	req, err := bindTeacherRegistration(c, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), req.SchoolID)
	assert.Equal(t, []dto.SubjectClassMapping{{SubjectID: 3, ClassIDs: []int64{10}}}, req.SubjectClassMappings)
	assert.Nil(t, req.ProfileImage)
}
