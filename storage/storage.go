// Package storage puts asset bytes in S3 or any S3-compatible store (minIO
// in development). Callers deal only in object keys and ObjectUrls.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/treconstruction/changeorderino-api/domain"
)

// ObjectUrl is where a stored object can be fetched from, and when that
// stops working.
type ObjectUrl struct {
	Url        string
	Expiration time.Time
}

type s3Config struct {
	accessKeyID     string
	secretAccessKey string
	endpoint        string
	region          string
	bucket          string
	disableSSL      bool
	presign         bool
}

func configFromEnv() s3Config {
	cfg := s3Config{
		accessKeyID:     domain.Env.AwsAccessKeyID,
		secretAccessKey: domain.Env.AwsSecretAccessKey,
		endpoint:        domain.Env.AwsS3Endpoint,
		region:          domain.Env.AwsRegion,
		bucket:          domain.Env.AwsS3Bucket,
		disableSSL:      domain.Env.AwsS3DisableSSL,
	}

	if domain.Env.GoEnv == domain.EnvDevelopment || domain.Env.GoEnv == domain.EnvTest {
		cfg.accessKeyID = "abc123"
		cfg.secretAccessKey = "abcd1234"
	}

	// Private objects need presigned URLs. So does minIO (signalled by a
	// custom endpoint), which has no public object URL scheme.
	cfg.presign = !strings.HasPrefix(domain.Env.AwsS3ACL, "public") || cfg.endpoint != ""

	return cfg
}

func (cfg s3Config) client() (*s3.S3, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(cfg.accessKeyID, cfg.secretAccessKey, ""),
		Endpoint:         aws.String(cfg.endpoint),
		Region:           aws.String(cfg.region),
		DisableSSL:       aws.Bool(cfg.disableSSL),
		S3ForcePathStyle: aws.Bool(cfg.endpoint != ""),
	})
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

func (cfg s3Config) objectURL(svc *s3.S3, key string) (ObjectUrl, error) {
	if !cfg.presign {
		return ObjectUrl{
			Url:        fmt.Sprintf("https://%s.s3.amazonaws.com/%s", cfg.bucket, url.PathEscape(key)),
			Expiration: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC),
		}, nil
	}

	req, _ := svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(cfg.bucket),
		Key:    aws.String(key),
	})

	lifespan := time.Duration(domain.Env.AwsS3URLLifeMinutes) * time.Minute
	signed, err := req.Presign(lifespan)
	if err != nil {
		return ObjectUrl{}, err
	}

	return ObjectUrl{
		Url: signed,
		// report expiration a minute early so a URL handed out near the
		// boundary is still usable
		Expiration: time.Now().Add(lifespan - time.Minute),
	}, nil
}

// StoreFile writes the content under the given key and returns a URL for
// reading it back.
func StoreFile(key, contentType string, content []byte) (ObjectUrl, error) {
	cfg := configFromEnv()

	svc, err := cfg.client()
	if err != nil {
		return ObjectUrl{}, err
	}

	acl := ""
	if !cfg.presign {
		acl = domain.Env.AwsS3ACL
	}
	if _, err := svc.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(cfg.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         aws.String(acl),
		Body:        bytes.NewReader(content),
	}); err != nil {
		return ObjectUrl{}, err
	}

	return cfg.objectURL(svc, key)
}

// GetFileURL returns a URL for the stored object that works without
// credentials: the plain object URL when the bucket is public, a presigned
// URL otherwise.
func GetFileURL(key string) (ObjectUrl, error) {
	cfg := configFromEnv()

	svc, err := cfg.client()
	if err != nil {
		return ObjectUrl{}, err
	}

	return cfg.objectURL(svc, key)
}

// RemoveFile deletes the object stored under the given key
func RemoveFile(key string) error {
	cfg := configFromEnv()

	svc, err := cfg.client()
	if err != nil {
		return err
	}

	_, err = svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(cfg.bucket),
		Key:    aws.String(key),
	})
	return err
}

// CreateS3Bucket makes the configured bucket, tolerating one that already
// exists. For the minIO instance backing development and test runs only.
func CreateS3Bucket() error {
	env := domain.Env.GoEnv
	if env != domain.EnvTest && env != domain.EnvDevelopment {
		return errors.New("CreateS3Bucket should only be used in test and development")
	}

	cfg := configFromEnv()

	svc, err := cfg.client()
	if err != nil {
		return err
	}

	if _, err := svc.CreateBucket(&s3.CreateBucketInput{Bucket: &cfg.bucket}); err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) {
			switch aerr.Code() {
			case s3.ErrCodeBucketAlreadyExists, s3.ErrCodeBucketAlreadyOwnedByYou:
				return nil
			}
		}
		return err
	}
	return nil
}
