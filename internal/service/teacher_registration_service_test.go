package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/storage"
)

type teacherLink [3]int64

// memoryTeacherStore keeps teachers and assignment rows in memory and restores the previous
// snapshot when a transaction callback fails.
type memoryTeacherStore struct {
	teachers []models.Teacher
	links    map[teacherLink]struct{}
	classes  map[int64]string
	nextID   int64

	skipPrecheck bool
	existsErr    error
	insertErr    error
	failLinkOn   int
	linkCalls    int
	txCount      int
}

func newMemoryTeacherStore() *memoryTeacherStore {
	return &memoryTeacherStore{
		links:   make(map[teacherLink]struct{}),
		classes: map[int64]string{10: "Class 6", 20: "Class 7", 30: "Class 8"},
	}
}

func (m *memoryTeacherStore) ExistsByEmailOrAadhaar(_ context.Context, email, aadhaar string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	if m.skipPrecheck {
		return false, nil
	}
	return m.conflict(email, aadhaar) != "", nil
}

func (m *memoryTeacherStore) WithinTx(_ context.Context, fn func(repository.TeacherWriter) error) error {
	m.txCount++
	teachers := append([]models.Teacher(nil), m.teachers...)
	links := make(map[teacherLink]struct{}, len(m.links))
	for k := range m.links {
		links[k] = struct{}{}
	}
	nextID := m.nextID
	if err := fn(m); err != nil {
		m.teachers, m.links, m.nextID = teachers, links, nextID
		return err
	}
	return nil
}

func (m *memoryTeacherStore) InsertTeacher(_ context.Context, teacher *models.Teacher) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if constraint := m.conflict(teacher.Email, teacher.AadhaarNumber); constraint != "" {
		return &pq.Error{Code: "23505", Constraint: constraint}
	}
	m.nextID++
	teacher.ID = m.nextID
	teacher.CreatedAt = time.Now()
	teacher.UpdatedAt = teacher.CreatedAt
	m.teachers = append(m.teachers, *teacher)
	return nil
}

func (m *memoryTeacherStore) ClassNames(_ context.Context, classIDs []int64) ([]string, error) {
	var names []string
	for _, id := range classIDs {
		if name, ok := m.classes[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (m *memoryTeacherStore) UpdateAssignments(_ context.Context, teacherID int64, classes, sections []string) error {
	for i := range m.teachers {
		if m.teachers[i].ID == teacherID {
			m.teachers[i].AssignedClasses = classes
			m.teachers[i].AssignedSections = sections
			return nil
		}
	}
	return errors.New("teacher not found")
}

func (m *memoryTeacherStore) LinkClassSubject(_ context.Context, teacherID, subjectID, classID int64) (bool, error) {
	m.linkCalls++
	if m.failLinkOn > 0 && m.linkCalls == m.failLinkOn {
		return false, errors.New("connection reset")
	}
	key := teacherLink{teacherID, subjectID, classID}
	if _, ok := m.links[key]; ok {
		return false, nil
	}
	m.links[key] = struct{}{}
	return true, nil
}

func (m *memoryTeacherStore) conflict(email, aadhaar string) string {
	for _, t := range m.teachers {
		if t.Email == email {
			return "teachers_email_key"
		}
		if t.AadhaarNumber == aadhaar {
			return "teachers_aadhaar_number_key"
		}
	}
	return ""
}

type memoryObjects struct {
	objects map[string][]byte
	err     error
}

func (o *memoryObjects) Put(_ context.Context, key string, data []byte, contentType string) (*storage.Object, error) {
	if o.err != nil {
		return nil, o.err
	}
	if o.objects == nil {
		o.objects = make(map[string][]byte)
	}
	o.objects[key] = data
	return &storage.Object{Key: key, URL: "https://cdn.example.com/" + key, ContentType: contentType, Size: len(data)}, nil
}

type recordingScheduler struct {
	keys []string
}

func (r *recordingScheduler) Schedule(key string) {
	r.keys = append(r.keys, key)
}

type registrationFixture struct {
	store   *memoryTeacherStore
	objects *memoryObjects
	cleaner *recordingScheduler
	cache   *CacheService
	svc     *TeacherRegistrationService
}

func newRegistrationFixture() *registrationFixture {
	f := &registrationFixture{
		store:   newMemoryTeacherStore(),
		objects: &memoryObjects{},
		cleaner: &recordingScheduler{},
		cache:   NewCacheService(newMemoryCacheRepo(), nil, 0, nil),
	}
	f.svc = NewTeacherRegistrationService(f.store, f.objects, f.cleaner, f.cache, nil, NewMetricsService(), nil, TeacherRegistrationConfig{ImageMaxDim: 64})
	return f
}

func validRegistration() dto.RegisterTeacherRequest {
	return dto.RegisterTeacherRequest{
		SchoolID:      1,
		TeacherName:   "Asha Verma",
		DOB:           "1990-04-12",
		Email:         "asha@example.com",
		Password:      "s3cret-pass",
		PhoneNumber:   "9876543210",
		AadhaarNumber: "123412341234",
		Sections:      []string{"A", "B"},
		SubjectClassMappings: []dto.SubjectClassMapping{
			{SubjectID: 1, ClassIDs: []int64{10, 20}},
			{SubjectID: 2, ClassIDs: []int64{10}},
		},
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRegisterExpandsMappingsIntoAssignments(t *testing.T) {
	f := newRegistrationFixture()

	teacher, err := f.svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.Equal(t, int64(1), teacher.ID)
	assert.Equal(t, models.TeacherStatusActive, teacher.Status)
	assert.ElementsMatch(t, []string{"Class 6", "Class 7"}, []string(teacher.AssignedClasses))
	assert.Equal(t, []string{"A", "B"}, []string(teacher.AssignedSections))
	assert.Len(t, f.store.links, 3)
	assert.Contains(t, f.store.links, teacherLink{1, 1, 10})
	assert.Contains(t, f.store.links, teacherLink{1, 1, 20})
	assert.Contains(t, f.store.links, teacherLink{1, 2, 10})
	require.Len(t, f.store.teachers, 1)
	assert.Equal(t, []string{"Class 6", "Class 7"}, []string(f.store.teachers[0].AssignedClasses))
}

func TestRegisterHashesPassword(t *testing.T) {
	f := newRegistrationFixture()

	teacher, err := f.svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret-pass", teacher.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte("s3cret-pass")))
	cost, err := bcrypt.Cost([]byte(teacher.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestRegisterRepeatedPairsAreIdempotent(t *testing.T) {
	f := newRegistrationFixture()
	req := validRegistration()
	req.SubjectClassMappings = []dto.SubjectClassMapping{
		{SubjectID: 1, ClassIDs: []int64{10, 10}},
		{SubjectID: 1, ClassIDs: []int64{10}},
	}

	_, err := f.svc.Register(context.Background(), req)
	require.NoError(t, err)

	assert.Len(t, f.store.links, 1)
	assert.Contains(t, f.store.links, teacherLink{1, 1, 10})
}

func TestRegisterRollsBackWhenALinkFails(t *testing.T) {
	f := newRegistrationFixture()
	f.store.failLinkOn = 3
	req := validRegistration()
	req.SubjectClassMappings = []dto.SubjectClassMapping{
		{SubjectID: 1, ClassIDs: []int64{10, 20, 30}},
		{SubjectID: 2, ClassIDs: []int64{10, 20}},
	}

	teacher, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, teacher)
	assert.True(t, errors.Is(err, appErrors.ErrPersistence))
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
	assert.Empty(t, f.store.teachers)
	assert.Empty(t, f.store.links)
	assert.Equal(t, 3, f.store.linkCalls)
}

func TestRegisterValidationOrder(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.RegisterTeacherRequest)
		want   *appErrors.Error
	}{
		{
			name: "missing scalar wins over everything",
			mutate: func(r *dto.RegisterTeacherRequest) {
				r.Email = "  "
				r.SubjectClassMappings = nil
				r.Sections = nil
			},
			want: appErrors.ErrMissingFields,
		},
		{
			name: "no subjects before sections",
			mutate: func(r *dto.RegisterTeacherRequest) {
				r.SubjectClassMappings = nil
				r.Sections = nil
			},
			want: appErrors.ErrNoSubjects,
		},
		{
			name: "mapping without classes before sections",
			mutate: func(r *dto.RegisterTeacherRequest) {
				r.SubjectClassMappings = []dto.SubjectClassMapping{{SubjectID: 1, ClassIDs: []int64{10}}, {SubjectID: 2}}
				r.Sections = nil
			},
			want: appErrors.ErrIncompleteMapping,
		},
		{
			name: "blank sections are dropped",
			mutate: func(r *dto.RegisterTeacherRequest) {
				r.Sections = []string{" ", ""}
			},
			want: appErrors.ErrNoSections,
		},
		{
			name: "legacy subject without class",
			mutate: func(r *dto.RegisterTeacherRequest) {
				subjectID := int64(4)
				r.SubjectClassMappings = nil
				r.SubjectID = &subjectID
			},
			want: appErrors.ErrIncompleteMapping,
		},
		{
			name: "malformed dob",
			mutate: func(r *dto.RegisterTeacherRequest) {
				r.DOB = "12/04/1990"
			},
			want: appErrors.ErrValidation,
		},
		{
			name: "aadhaar longer than twelve characters",
			mutate: func(r *dto.RegisterTeacherRequest) {
				r.AadhaarNumber = "1234123412345"
			},
			want: appErrors.ErrValidation,
		},
		{
			name: "unknown status",
			mutate: func(r *dto.RegisterTeacherRequest) {
				r.Status = "retired"
			},
			want: appErrors.ErrValidation,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newRegistrationFixture()
			req := validRegistration()
			tc.mutate(&req)

			_, err := f.svc.Register(context.Background(), req)
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, tc.want.Code, appErr.Code)
			assert.Equal(t, http.StatusBadRequest, appErr.Status)
			assert.Zero(t, f.store.txCount)
		})
	}
}

func TestRegisterReportsNoSubjectsMessage(t *testing.T) {
	f := newRegistrationFixture()
	req := validRegistration()
	req.SubjectClassMappings = []dto.SubjectClassMapping{}

	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "At least one subject must be selected", appErrors.FromError(err).Message)
}

func TestRegisterAcceptsLegacyShape(t *testing.T) {
	f := newRegistrationFixture()
	req := validRegistration()
	subjectID, classID := int64(3), int64(30)
	req.SubjectClassMappings = nil
	req.SubjectID = &subjectID
	req.ClassID = &classID

	teacher, err := f.svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Class 8"}, []string(teacher.AssignedClasses))
	assert.Contains(t, f.store.links, teacherLink{teacher.ID, 3, 30})
}

func TestRegisterRejectsDuplicateAadhaar(t *testing.T) {
	f := newRegistrationFixture()
	_, err := f.svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	req := validRegistration()
	req.Email = "other@example.com"
	_, err = f.svc.Register(context.Background(), req)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrDuplicateTeacher.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "Teacher with this email or Aadhaar already exists", appErr.Message)
	assert.Len(t, f.store.teachers, 1)
	assert.Len(t, f.store.links, 3)
	assert.Equal(t, 1, f.store.txCount)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newRegistrationFixture()
	_, err := f.svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	req := validRegistration()
	req.AadhaarNumber = "999988887777"
	_, err = f.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateTeacher))
	assert.Len(t, f.store.teachers, 1)
	assert.Len(t, f.store.links, 3)
	assert.Equal(t, 1, f.store.txCount, "pre-check must reject before opening a transaction")
}

// teacherCountStats derives dashboard counts from the in-memory teacher store.
type teacherCountStats struct {
	store *memoryTeacherStore
}

func (s teacherCountStats) Stats(context.Context) (*models.DashboardStats, error) {
	return &models.DashboardStats{Teachers: len(s.store.teachers)}, nil
}

func TestRegisterInvalidatesDashboardStats(t *testing.T) {
	f := newRegistrationFixture()
	dashboard := NewDashboardService(teacherCountStats{store: f.store}, &stubActivityRepo{}, f.cache, time.Minute, nil)

	before, hit, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.False(t, hit)
	assert.Equal(t, 0, before.Teachers)

	_, hit, err = dashboard.Stats(context.Background())
	require.NoError(t, err)
	require.True(t, hit)

	_, err = f.svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	after, hit, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, after.Teachers)
}

func TestRegisterFailureKeepsDashboardCache(t *testing.T) {
	f := newRegistrationFixture()
	dashboard := NewDashboardService(teacherCountStats{store: f.store}, &stubActivityRepo{}, f.cache, time.Minute, nil)
	_, _, err := dashboard.Stats(context.Background())
	require.NoError(t, err)

	req := validRegistration()
	req.Sections = nil
	_, err = f.svc.Register(context.Background(), req)
	require.Error(t, err)

	_, hit, err := dashboard.Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestRegisterTranslatesUniqueViolationFromRace(t *testing.T) {
	f := newRegistrationFixture()
	_, err := f.svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	f.store.skipPrecheck = true
	req := validRegistration()
	req.AadhaarNumber = "999988887777"
	_, err = f.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrDuplicateTeacher))
	assert.Len(t, f.store.teachers, 1)
}

func TestRegisterTranslatesMissingSchool(t *testing.T) {
	f := newRegistrationFixture()
	f.store.insertErr = &pq.Error{Code: "23503", Constraint: "teachers_school_id_fkey"}

	_, err := f.svc.Register(context.Background(), validRegistration())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "school not found", appErr.Message)
}

func TestRegisterPrecheckFailureIsPersistenceError(t *testing.T) {
	f := newRegistrationFixture()
	f.store.existsErr = errors.New("db down")

	_, err := f.svc.Register(context.Background(), validRegistration())
	assert.True(t, errors.Is(err, appErrors.ErrPersistence))
}

func TestRegisterUploadsProfileImage(t *testing.T) {
	f := newRegistrationFixture()
	req := validRegistration()
	req.ProfileImage = &dto.Upload{Filename: "my photo.png", ContentType: "image/png", Data: pngBytes(t, 128, 32)}

	teacher, err := f.svc.Register(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, f.objects.objects, 1)
	var key string
	for k := range f.objects.objects {
		key = k
	}
	assert.True(t, strings.HasPrefix(key, storage.PrefixTeacherProfiles+"/"))
	assert.True(t, strings.HasSuffix(key, "my_photo.png"))
	require.NotNil(t, teacher.ProfileImage)
	assert.Equal(t, "https://cdn.example.com/"+key, *teacher.ProfileImage)

	img, _, err := image.Decode(bytes.NewReader(f.objects.objects[key]))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestRegisterStorageFailurePersistsNothing(t *testing.T) {
	f := newRegistrationFixture()
	f.objects.err = errors.New("bucket unavailable")
	req := validRegistration()
	req.ProfileImage = &dto.Upload{Filename: "p.png", Data: pngBytes(t, 8, 8)}

	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrStorage))
	assert.Zero(t, f.store.txCount)
	assert.Empty(t, f.store.teachers)
}

func TestRegisterRejectsNonImageProfile(t *testing.T) {
	f := newRegistrationFixture()
	req := validRegistration()
	req.ProfileImage = &dto.Upload{Filename: "p.png", Data: []byte("%PDF-1.4 not an image")}

	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, f.objects.objects)
}

func TestRegisterSchedulesCleanupWhenTransactionFails(t *testing.T) {
	f := newRegistrationFixture()
	f.store.failLinkOn = 1
	req := validRegistration()
	req.ProfileImage = &dto.Upload{Filename: "p.png", Data: pngBytes(t, 8, 8)}

	_, err := f.svc.Register(context.Background(), req)
	require.Error(t, err)

	require.Len(t, f.objects.objects, 1)
	for key := range f.objects.objects {
		assert.Equal(t, []string{key}, f.cleaner.keys)
	}
}
