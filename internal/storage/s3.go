package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const presignExpiry = 15 * time.Minute

// S3Store keeps renders in an S3 bucket under a key prefix
type S3Store struct {
	bucket   string
	prefix   string
	client   s3iface.S3API
	uploader *s3manager.Uploader
}

// NewS3Store creates an S3-backed store using the default credential chain.
// extra configs are merged after the region, for endpoints and credentials.
func NewS3Store(region, bucket, prefix string, extra ...*aws.Config) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for s3 audio storage")
	}
	cfgs := append([]*aws.Config{{Region: aws.String(region)}}, extra...)
	sess, err := session.NewSession(cfgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	client := s3.New(sess)
	log.Printf("💾 S3 audio store: s3://%s/%s", bucket, prefix)
	return newS3Store(client, bucket, prefix), nil
}

func newS3Store(client s3iface.S3API, bucket, prefix string) *S3Store {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Store{
		bucket:   bucket,
		prefix:   prefix,
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
	}
}

func (s *S3Store) Name() string { return "s3" }

func (s *S3Store) key(name string) (string, string, error) {
	clean, err := SanitizeFilename(name)
	if err != nil {
		return "", "", err
	}
	return clean, s.prefix + clean, nil
}

// Save uploads data with the multipart uploader
func (s *S3Store) Save(ctx context.Context, name, contentType string, data []byte) (Object, error) {
	clean, key, err := s.key(name)
	if err != nil {
		return Object{}, err
	}
	if contentType == "" {
		contentType = ContentTypeFor(clean)
	}

	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload render to s3: %w", err)
	}

	return Object{
		Name:        clean,
		Path:        "s3://" + path.Join(s.bucket, key),
		ContentType: contentType,
		Size:        int64(len(data)),
		ModTime:     time.Now(),
	}, nil
}

// Open streams a render from the bucket
func (s *S3Store) Open(ctx context.Context, name string) (io.ReadCloser, Object, error) {
	clean, key, err := s.key(name)
	if err != nil {
		return nil, Object{}, err
	}

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && (aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound") {
			return nil, Object{}, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, Object{}, fmt.Errorf("failed to fetch render from s3: %w", err)
	}

	obj := Object{
		Name:        clean,
		Path:        "s3://" + path.Join(s.bucket, key),
		ContentType: aws.StringValue(out.ContentType),
		Size:        aws.Int64Value(out.ContentLength),
		ModTime:     aws.TimeValue(out.LastModified),
	}
	if obj.ContentType == "" {
		obj.ContentType = ContentTypeFor(clean)
	}
	return out.Body, obj, nil
}

// URL returns a presigned GET link
func (s *S3Store) URL(_ context.Context, name string) (string, error) {
	_, key, err := s.key(name)
	if err != nil {
		return "", err
	}
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	url, err := req.Presign(presignExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign render url: %w", err)
	}
	return url, nil
}
