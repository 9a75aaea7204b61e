package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// ErrUnsupportedMedia is returned for payloads that are not video files.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Config describes an S3-compatible bucket.
type Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
	Folder    string
}

type objectPutter interface {
	PutObjectWithContext(ctx aws.Context, input *s3.PutObjectInput, opts ...request.Option) (*s3.PutObjectOutput, error)
}

// Uploader stores submission videos in object storage.
type Uploader struct {
	client    objectPutter
	bucket    string
	folder    string
	publicURL string
	newKey    func() string
}

// NewUploader opens a session against the configured endpoint.
func NewUploader(cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media bucket is required")
	}
	awsCfg := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}
	return newUploader(s3.New(sess), cfg), nil
}

func newUploader(client objectPutter, cfg Config) *Uploader {
	folder := cfg.Folder
	if folder == "" {
		folder = "submissions"
	}
	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}
	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		folder:    folder,
		publicURL: publicURL,
		newKey:    uuid.NewString,
	}
}

// Upload stores the file under the owner's folder and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, ownerID, filename string, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "video/") {
		if ext := strings.ToLower(path.Ext(filename)); ext == ".mp4" || ext == ".mov" {
			contentType = "video/" + strings.TrimPrefix(ext, ".")
			if ext == ".mov" {
				contentType = "video/quicktime"
			}
		} else {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, contentType)
		}
	}

	key := path.Join(u.folder, ownerID, time.Now().UTC().Format("20060102"), u.newKey()+strings.ToLower(path.Ext(filename)))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}
	return u.publicURL + "/" + key, nil
}
