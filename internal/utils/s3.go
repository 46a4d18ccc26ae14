package utils

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

var (
	S3Session       *session.Session
	S3Bucket        string
	S3Region        string
	CloudFrontURL   string
	UseLocalStorage bool = true // Toggle: true = local, false = S3
)

const presignTTL = 15 * time.Minute

// InitS3 switches the media layer into presigned-URL mode.
func InitS3(bucket, region, cloudfrontURL string) error {
	S3Bucket = bucket
	S3Region = region
	CloudFrontURL = cloudfrontURL

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return err
	}

	S3Session = sess
	UseLocalStorage = false
	return nil
}

// ObjectKey builds the storage key for a new upload: a date prefix for
// housekeeping plus a uuid so names never collide.
func ObjectKey(filename string) string {
	ext := filepath.Ext(filename)
	return fmt.Sprintf("%s/%s%s",
		time.Now().Format("2006/01"),
		uuid.New().String(),
		ext,
	)
}

// PresignUpload returns a URL the browser can PUT the file bytes to
// directly, so uploads never stream through the API server.
func PresignUpload(key, contentType string) (string, error) {
	if S3Session == nil {
		return "", fmt.Errorf("S3 not initialized")
	}

	svc := s3.New(S3Session)
	req, _ := svc.PutObjectRequest(&s3.PutObjectInput{
		Bucket:      aws.String(S3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})

	return req.Presign(presignTTL)
}

// PresignRead returns a short-lived GET URL for a stored object. When a
// CloudFront distribution fronts the bucket the public URL is used
// instead; those objects are readable without signing.
func PresignRead(key string) (string, error) {
	if CloudFrontURL != "" {
		return CloudFrontURL + "/" + key, nil
	}
	if S3Session == nil {
		return "", fmt.Errorf("S3 not initialized")
	}

	svc := s3.New(S3Session)
	req, _ := svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(S3Bucket),
		Key:    aws.String(key),
	})

	return req.Presign(presignTTL)
}

func DeleteFromS3(key string) error {
	if S3Session == nil {
		return fmt.Errorf("S3 not initialized")
	}

	svc := s3.New(S3Session)
	_, err := svc.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(S3Bucket),
		Key:    aws.String(key),
	})

	return err
}

func GetStorageMode() string {
	if UseLocalStorage {
		return "local"
	}
	return "s3"
}

func SetStorageMode(useLocal bool) {
	UseLocalStorage = useLocal
}
