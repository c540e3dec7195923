package imagestore

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeyIsUnique(t *testing.T) {
	a, b := NewKey(".jpg"), NewKey(".jpg")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.Len(t, a, 36+len(".jpg"))
}

func TestLocalPutAndServe(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images")
	store, err := NewLocal(dir, "/images/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "abc.jpg", []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/images/abc.jpg", url)

	data, err := os.ReadFile(filepath.Join(dir, "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	srv := httptest.NewServer(http.StripPrefix("/images/", store.Handler()))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/images/abc.jpg")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "jpeg bytes", string(body))
}

func TestLocalRejectsPathKeys(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/images")
	require.NoError(t, err)

	for _, key := range []string{"", "..", "../escape.jpg", "a/b.jpg"} {
		_, err := store.Put(context.Background(), key, []byte("x"), "image/jpeg")
		assert.Errorf(t, err, "key %q", key)
	}
}

func TestLocalDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/images")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "abc.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "abc.jpg"))
	_, err = os.Stat(filepath.Join(dir, "abc.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), "abc.jpg"), "missing key")
	assert.Error(t, store.Delete(context.Background(), "../abc.jpg"))
}

type fakeS3 struct {
	input   *s3.PutObjectInput
	body    []byte
	deleted []string
	err     error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Put(t *testing.T) {
	fake := &fakeS3{}
	store := &S3{client: fake, Bucket: "garage-photos", Prefix: "service-images", Region: "eu-west-2"}

	url, err := store.Put(context.Background(), "abc.jpg", []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "https://garage-photos.s3.eu-west-2.amazonaws.com/service-images/abc.jpg", url)
	assert.Equal(t, "garage-photos", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "service-images/abc.jpg", aws.ToString(fake.input.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.input.ContentType))
	assert.Equal(t, int64(10), aws.ToInt64(fake.input.ContentLength))
	assert.Equal(t, "jpeg bytes", string(fake.body))
}

func TestS3PutWithBaseURL(t *testing.T) {
	store := &S3{client: &fakeS3{}, Bucket: "b", BaseURL: "https://cdn.example.com/"}

	url, err := store.Put(context.Background(), "abc.jpg", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/abc.jpg", url)
}

func TestS3PutFailure(t *testing.T) {
	cause := errors.New("access denied")
	store := &S3{client: &fakeS3{err: cause}, Bucket: "b"}

	_, err := store.Put(context.Background(), "abc.jpg", []byte("x"), "image/jpeg")
	assert.ErrorIs(t, err, cause)
}

func TestS3Delete(t *testing.T) {
	fake := &fakeS3{}
	store := &S3{client: fake, Bucket: "garage-photos", Prefix: "service-images"}

	require.NoError(t, store.Delete(context.Background(), "abc.jpg"))
	assert.Equal(t, []string{"garage-photos/service-images/abc.jpg"}, fake.deleted)

	failing := &S3{client: &fakeS3{err: errors.New("boom")}, Bucket: "b"}
	assert.Error(t, failing.Delete(context.Background(), "abc.jpg"))
}
