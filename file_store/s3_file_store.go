package file_store

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

type S3FileStore struct {
	bucket    string
	region    string
	urlPrefix string
	uploader  *s3manager.Uploader
	svc       *s3.S3
}

// NewS3FileStore uploads to bucket. Objects are public, urlPrefix is their
// public address (e.g. a CloudFront distribution), the bucket's own s3 url is
// used when it is empty.
func NewS3FileStore(bucket string, region string, urlPrefix string) (*S3FileStore, error) {
	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "fail to create aws session")
	}

	if urlPrefix == "" {
		urlPrefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	}

	return &S3FileStore{
		bucket:    bucket,
		region:    region,
		urlPrefix: withTrailingSlash(urlPrefix),
		uploader:  s3manager.NewUploader(sess),
		svc:       s3.New(sess),
	}, nil
}

func (s *S3FileStore) Store(ctx context.Context, format string, r io.Reader) (key string, err error) {
	key = GenerateKey(format)
	input := &s3manager.UploadInput{
		ACL:    aws.String("public-read"),
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType := mime.TypeByExtension(path.Ext(key)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err = s.uploader.UploadWithContext(ctx, input); err != nil {
		return "", errors.Wrap(err, "fail to upload to s3")
	}
	return key, nil
}

func (s *S3FileStore) GetUrlFromKey(key string) string {
	return s.urlPrefix + key
}

func (s *S3FileStore) Delete(ctx context.Context, key string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "fail to delete from s3")
}
