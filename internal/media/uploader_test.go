package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	p := &fakePutter{}
	u := newS3Uploader(p, S3Config{Bucket: "media", PublicBaseURL: "https://cdn.example.com/"})

	url, err := u.Upload(context.Background(), "Foto.JPG", "image/jpeg", strings.NewReader("img"))
	require.NoError(t, err)

	key := *p.in.Key
	assert.True(t, strings.HasPrefix(key, "noticias/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, "media", *p.in.Bucket)
	assert.Equal(t, "image/jpeg", *p.in.ContentType)
	assert.Equal(t, "img", p.body)
	assert.Equal(t, "https://cdn.example.com/"+key, url)
}

func TestS3Uploader_ExtensionFromContentType(t *testing.T) {
	p := &fakePutter{}
	u := newS3Uploader(p, S3Config{Bucket: "media"})

	url, err := u.Upload(context.Background(), "blob", "image/png", strings.NewReader("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(*p.in.Key, ".png"))
	assert.True(t, strings.HasPrefix(url, "https://media.s3.amazonaws.com/noticias/"))
}

func TestS3Uploader_PutFailure(t *testing.T) {
	u := newS3Uploader(&fakePutter{err: errors.New("denied")}, S3Config{Bucket: "media"})

	_, err := u.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"))
	assert.ErrorContains(t, err, "denied")
}

func TestNoopUploader(t *testing.T) {
	_, err := NoopUploader{}.Upload(context.Background(), "a.png", "", nil)
	assert.ErrorIs(t, err, ErrUploadDisabled)
}

func TestLoadS3ConfigFromEnv(t *testing.T) {
	t.Setenv("S3_BUCKET", "")
	assert.Nil(t, LoadS3ConfigFromEnv())
	assert.IsType(t, NoopUploader{}, NewUploader(context.Background(), nil))

	t.Setenv("S3_BUCKET", "media")
	t.Setenv("S3_REGION", "eu-west-1")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	cfg := LoadS3ConfigFromEnv()
	require.NotNil(t, cfg)
	assert.Equal(t, "media", cfg.Bucket)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.True(t, cfg.UsePathStyle)
}
