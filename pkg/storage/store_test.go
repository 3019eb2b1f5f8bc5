package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/pkg/config"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	body    []byte
	deletes []string
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.puts = append(f.puts, params)
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(params.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorePutAndDelete(t *testing.T) {
	client := &fakeS3{}
	store := newS3Store(client, config.StorageConfig{Bucket: "portal", Region: "ap-south-1"})

	obj, err := store.Put(context.Background(), "lessons/1-unit_1.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	require.Len(t, client.puts, 1)
	assert.Equal(t, "portal", aws.ToString(client.puts[0].Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(client.puts[0].ContentType))
	assert.Equal(t, []byte("%PDF-1.4"), client.body)
	assert.Equal(t, "https://portal.s3.ap-south-1.amazonaws.com/lessons/1-unit_1.pdf", obj.URL)

	require.NoError(t, store.Delete(context.Background(), obj.Key))
	assert.Equal(t, []string{"lessons/1-unit_1.pdf"}, client.deletes)
}

func TestS3StorePutFailure(t *testing.T) {
	store := newS3Store(&fakeS3{putErr: errors.New("throttled")}, config.StorageConfig{Bucket: "portal", PublicBaseURL: "https://cdn.example.com/"})

	_, err := store.Put(context.Background(), "lessons/x.pdf", []byte("x"), "application/pdf")
	require.Error(t, err)

	url, err := store.URL("school-logos/a b.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/school-logos/a%20b.png", url)
}

func TestLocalStoreRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	store, err := NewLocalStore(t.TempDir(), "http://localhost:8080", signer)
	require.NoError(t, err)

	obj, err := store.Put(context.Background(), "teacher-profiles/1-me.png", []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Contains(t, obj.URL, "http://localhost:8080/files/")

	token := obj.URL[len("http://localhost:8080/files/"):]
	file, key, err := store.Open(token)
	require.NoError(t, err)
	data, _ := io.ReadAll(file)
	_ = file.Close()
	assert.Equal(t, "teacher-profiles/1-me.png", key)
	assert.Equal(t, []byte("img"), data)

	require.NoError(t, store.Delete(context.Background(), key))
	_, _, err = store.Open(token)
	assert.ErrorIs(t, err, ErrObjectNotFound)
	require.NoError(t, store.Delete(context.Background(), key))
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "", NewSignedURLSigner("secret", time.Hour))
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../outside.txt", []byte("x"), "text/plain")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Unit_1__Fractions_.pdf", SanitizeFilename("Unit 1 (Fractions).pdf"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "file", SanitizeFilename(""))

	now := time.UnixMilli(1700000000000)
	assert.Equal(t, "lessons/1700000000000-my_notes.pdf", TimestampKey(PrefixLessons, "my notes.pdf", now))
	a := UniqueKey(PrefixTeacherProfiles, "me.png", now)
	b := UniqueKey(PrefixTeacherProfiles, "me.png", now)
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "teacher-profiles/1700000000000-")
}

func TestContentDetection(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n%âãÏÓ\n1 0 obj\n")))
	assert.False(t, IsPDF([]byte("hello world")))
	assert.Equal(t, "image/png", DetectContentType(pngBytes(t, 4, 4)))
}

func TestNormalizeImageDownscales(t *testing.T) {
	data := pngBytes(t, 400, 200)

	out, contentType, err := NormalizeImage(data, 100)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())

	small := pngBytes(t, 20, 20)
	out, _, err = NormalizeImage(small, 100)
	require.NoError(t, err)
	assert.Equal(t, small, out)

	_, _, err = NormalizeImage([]byte("not an image"), 100)
	assert.ErrorIs(t, err, ErrNotImage)
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
