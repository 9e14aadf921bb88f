package legacyimages

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestDirSource_Open(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "12"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "12", "a.jpg"), []byte("data"), 0o600))

	src := NewDirSource(root)

	rc, err := src.Open(context.Background(), 12, "a.jpg")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "data", string(b))

	_, err = src.Open(context.Background(), 12, "missing.jpg")
	assert.ErrorIs(t, err, ErrNotExist)

	_, err = src.Open(context.Background(), 13, "a.jpg")
	assert.ErrorIs(t, err, ErrNotExist)

	// path components in the name are ignored
	rc, err = src.Open(context.Background(), 12, "../12/a.jpg")
	require.NoError(t, err)
	_ = rc.Close()
}

type fakeS3 struct {
	objects map[string]string
	err     error
	input   *s3.GetObjectInput
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestS3Source_Open(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{"5/b.png": "png"}}
	src := &S3Source{client: fake, bucket: "pics"}

	rc, err := src.Open(context.Background(), 5, "b.png")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "png", string(b))
	assert.Equal(t, "pics", aws.ToString(fake.input.Bucket))
	assert.Equal(t, "5/b.png", aws.ToString(fake.input.Key))

	_, err = src.Open(context.Background(), 5, "nope.png")
	assert.ErrorIs(t, err, ErrNotExist)

	fake.err = errBoom
	_, err = src.Open(context.Background(), 5, "b.png")
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, ErrNotExist)
}

func TestNewS3Source(t *testing.T) {
	origLoad, origClient := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origClient })

	var gotOpts s3.Options
	var gotRegion string
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		gotRegion = lo.Region
		assert.NotNil(t, lo.Credentials)
		return aws.Config{Region: lo.Region}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) getObjectAPI {
		for _, fn := range optFns {
			fn(&gotOpts)
		}
		return &fakeS3{}
	}

	cfg := &config.Config{
		S3Bucket:       "pics",
		S3Region:       "eu-west-1",
		S3AccessKey:    "ak",
		S3SecretKey:    "sk",
		S3BaseEndpoint: "http://minio:9000",
	}
	src, err := NewS3Source(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, "pics", src.bucket)
	assert.Equal(t, "eu-west-1", gotRegion)
	assert.Equal(t, "http://minio:9000", aws.ToString(gotOpts.BaseEndpoint))
	assert.True(t, gotOpts.UsePathStyle)
}

func TestNewS3Source_Errors(t *testing.T) {
	_, err := NewS3Source(context.Background(), &config.Config{})
	assert.Error(t, err)

	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errBoom
	}

	_, err = NewS3Source(context.Background(), &config.Config{S3Bucket: "pics"})
	assert.ErrorIs(t, err, errBoom)
}
