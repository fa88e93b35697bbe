package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("/api/files/")

	url, err := store.Put(ctx, "avatars/u1/a.jpg", "image/jpeg", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, "/api/files/avatars/u1/a.jpg", url)

	obj, err := store.Get(ctx, "/avatars/u1/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, []byte{1, 2, 3}, obj.Data)

	require.NoError(t, store.Delete(ctx, "avatars/u1/a.jpg"))
	_, err = store.Get(ctx, "avatars/u1/a.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

type fakeS3 struct {
	put    *s3.PutObjectInput
	body   []byte
	failOn string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if aws.ToString(in.Key) == f.failOn {
		return nil, errors.New("boom")
	}
	f.put = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, _ *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorePut(t *testing.T) {
	api := &fakeS3{failOn: "bad"}
	store := newS3Store(api, "careers", "https://cdn.example.com/")

	url, err := store.Put(context.Background(), "resumes/u1/1/cv.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/resumes/u1/1/cv.pdf", url)
	assert.Equal(t, "careers", aws.ToString(api.put.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(api.put.ContentType))
	assert.Equal(t, []byte("%PDF"), api.body)

	_, err = store.Put(context.Background(), "bad", "text/plain", nil)
	assert.Error(t, err)
}
