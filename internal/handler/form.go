package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/dto"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
)

const multipartMemory = 32 << 20

var (
	subjectKeyPattern = regexp.MustCompile(`^subjectClassMappings\[(\d+)\]\[subjectId\]$`)
	classKeyPattern   = regexp.MustCompile(`^subjectClassMappings\[(\d+)\]\[classIds\]\[(\d*)\]$`)
)

type indexedValue struct {
	position int
	values   []string
}

// isMultipart reports whether the request carries multipart/form-data.
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// parseSubjectClassMappings rebuilds the subject/class mappings from bracket-indexed form keys.
// Subjects are ordered by index. Class ids addressed as [j] come first in j order, then ids sent
// under the bare [] key. A mapping whose subject id does not parse is dropped; one with no
// classes is kept so it can be reported.
func parseSubjectClassMappings(form map[string][]string) []dto.SubjectClassMapping {
	subjects := make(map[int]string)
	classes := make(map[int][]indexedValue)
	for key, values := range form {
		if len(values) == 0 {
			continue
		}
		if m := subjectKeyPattern.FindStringSubmatch(key); m != nil {
			idx, _ := strconv.Atoi(m[1])
			subjects[idx] = values[0]
			continue
		}
		if m := classKeyPattern.FindStringSubmatch(key); m != nil {
			idx, _ := strconv.Atoi(m[1])
			position := int(^uint(0) >> 1)
			if m[2] != "" {
				position, _ = strconv.Atoi(m[2])
			}
			classes[idx] = append(classes[idx], indexedValue{position: position, values: values})
		}
	}

	indices := make([]int, 0, len(subjects))
	for idx := range subjects {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	mappings := make([]dto.SubjectClassMapping, 0, len(indices))
	for _, idx := range indices {
		subjectID, err := strconv.ParseInt(strings.TrimSpace(subjects[idx]), 10, 64)
		if err != nil {
			continue
		}
		entries := classes[idx]
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].position < entries[j].position })

		classIDs := []int64{}
		seen := make(map[int64]struct{})
		for _, entry := range entries {
			for _, raw := range entry.values {
				id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
				if err != nil {
					continue
				}
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				classIDs = append(classIDs, id)
			}
		}
		mappings = append(mappings, dto.SubjectClassMapping{SubjectID: subjectID, ClassIDs: classIDs})
	}
	return mappings
}

// formList returns the values sent under key[] or key, blank entries removed.
func formList(form map[string][]string, key string) []string {
	raw := append(append([]string{}, form[key+"[]"]...), form[key]...)
	out := make([]string, 0, len(raw))
	for _, value := range raw {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}

func formValue(form map[string][]string, key string) string {
	if values := form[key]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func formOptional(form map[string][]string, key string) *string {
	value := formValue(form, key)
	if value == "" {
		return nil
	}
	return &value
}

func formInt64(form map[string][]string, key string) (int64, error) {
	value := formValue(form, key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be an integer", key))
	}
	return n, nil
}

func formBool(form map[string][]string, key string) bool {
	value, _ := strconv.ParseBool(formValue(form, key))
	return value
}

// readUpload loads the named file field. A missing field yields nil; a file above maxBytes is
// rejected with 413.
func readUpload(form *multipart.Form, field string, maxBytes int64) (*dto.Upload, error) {
	files := form.File[field]
	if len(files) == 0 {
		return nil, nil
	}
	header := files[0]
	if maxBytes > 0 && header.Size > maxBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("%s exceeds the maximum upload size", field))
	}
	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read "+field)
	}
	defer file.Close()

	reader := io.Reader(file)
	if maxBytes > 0 {
		reader = io.LimitReader(file, maxBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read "+field)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("%s exceeds the maximum upload size", field))
	}
	return &dto.Upload{Filename: header.Filename, ContentType: header.Header.Get("Content-Type"), Data: data}, nil
}

// parseMultipart parses the request body as multipart form data.
func parseMultipart(c *gin.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, "request body too large")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid multipart payload")
	}
	return form, nil
}

// bindTeacherRegistration decodes a registration from JSON or multipart form data.
func bindTeacherRegistration(c *gin.Context, imageMaxBytes int64) (dto.RegisterTeacherRequest, error) {
	var req dto.RegisterTeacherRequest
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(&req); err != nil {
			return req, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
		}
		return req, nil
	}

	form, err := parseMultipart(c)
	if err != nil {
		return req, err
	}
	values := form.Value

	if req.SchoolID, err = formInt64(values, "schoolId"); err != nil {
		return req, err
	}
	req.TeacherName = formValue(values, "teacherName")
	req.DOB = formValue(values, "dob")
	req.Email = formValue(values, "email")
	req.Password = formValue(values, "password")
	req.Qualification = formOptional(values, "qualification")
	req.PhoneNumber = formValue(values, "phone_number")
	req.AadhaarNumber = formValue(values, "aadhaar_number")
	req.Status = formValue(values, "status")
	if raw := formValue(values, "experienceYears"); raw != "" {
		years, err := strconv.Atoi(raw)
		if err != nil {
			return req, appErrors.Clone(appErrors.ErrValidation, "experienceYears must be an integer")
		}
		req.ExperienceYears = &years
	}
	req.Sections = formList(values, "sections")
	req.SubjectClassMappings = parseSubjectClassMappings(values)
	if len(req.SubjectClassMappings) == 0 {
		if subjectID, err := formInt64(values, "subject_id"); err == nil && subjectID > 0 {
			req.SubjectID = &subjectID
			if classID, err := formInt64(values, "class_id"); err == nil && classID > 0 {
				req.ClassID = &classID
			}
		}
	}

	if req.ProfileImage, err = readUpload(form, "profileImage", imageMaxBytes); err != nil {
		return req, err
	}
	return req, nil
}
