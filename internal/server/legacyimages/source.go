// Package legacyimages moves pictures that the previous backend kept as files
// (on local disk or in an S3 bucket) into the picture table.
package legacyimages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/foodrecipe/internal/server/config"
)

// ErrNotExist is returned by a Source when the stored file is gone.
var ErrNotExist = errors.New("legacy image does not exist")

// Source opens the file stored for a picture. Files are laid out as
// <recipe_id>/<legacy_name>.
type Source interface {
	Open(ctx context.Context, recipeID int64, name string) (io.ReadCloser, error)
}

type DirSource struct {
	root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

func (s *DirSource) Open(_ context.Context, recipeID int64, name string) (io.ReadCloser, error) {
	// legacy names are bare file names; Base keeps them inside the recipe dir
	p := filepath.Join(s.root, strconv.FormatInt(recipeID, 10), filepath.Base(name))

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	return f, nil
}

type getObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) getObjectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Source struct {
	client getObjectAPI
	bucket string
}

// NewS3Source builds a client from the S3 settings of cfg. A custom base
// endpoint (MinIO and similar) switches to path-style addressing.
func NewS3Source(ctx context.Context, cfg *config.Config) (*S3Source, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("s3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Source{client: client, bucket: cfg.S3Bucket}, nil
}

func (s *S3Source) Open(ctx context.Context, recipeID int64, name string) (io.ReadCloser, error) {
	key := path.Join(strconv.FormatInt(recipeID, 10), path.Base(name))

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	return out.Body, nil
}
