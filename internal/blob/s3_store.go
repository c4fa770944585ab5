package blob

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

// S3StoreConfig configures an S3Store.
type S3StoreConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store is the remote-object-store Storage Adapter implementation.
type S3Store struct {
	s3       *s3.S3
	uploader *s3manager.Uploader
}

// NewS3Store builds an S3Store from config.
func NewS3Store(config S3StoreConfig) (*S3Store, error) {
	awsConfig := aws.NewConfig().WithRegion(config.Region)
	if config.AccessKeyID != "" {
		awsConfig = awsConfig.WithCredentials(credentials.NewStaticCredentials(
			config.AccessKeyID, config.SecretAccessKey, ""))
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, errors.Wrap(err, "creating AWS session")
	}
	return &S3Store{
		s3:       s3.New(sess),
		uploader: s3manager.NewUploader(sess),
	}, nil
}

// Put uploads data to bucket/key.
func (s *S3Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return errors.Wrap(err, "uploading blob to S3")
	}
	return nil
}

// Get downloads bucket/key.
func (s *S3Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := s.s3.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, errors.Wrapf(ErrNotFound, "%s/%s", bucket, key)
		}
		return nil, errors.Wrap(err, "downloading blob from S3")
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading S3 object body")
	}
	return data, nil
}

// Delete removes bucket/key.
func (s *S3Store) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.s3.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errors.Wrap(err, "deleting blob from S3")
	}
	return nil
}
