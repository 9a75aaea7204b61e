package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
)

type stubPutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (p *stubPutter) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	p.input = in
	p.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, p.err
}

func mp4Header() []byte {
	return []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
}

func TestUploadStoresVideo(t *testing.T) {
	putter := &stubPutter{}
	u := newUploader(putter, Config{Bucket: "collab", PublicURL: "https://cdn.example.com/"})
	u.newKey = func() string { return "fixed" }

	url, err := u.Upload(context.Background(), "inf-1", "Reel.MP4", mp4Header())
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/submissions/inf-1/") || !strings.HasSuffix(url, "/fixed.mp4") {
		t.Fatalf("unexpected url %s", url)
	}
	if aws.StringValue(putter.input.Bucket) != "collab" {
		t.Fatalf("unexpected bucket %s", aws.StringValue(putter.input.Bucket))
	}
	if aws.StringValue(putter.input.ContentType) != "video/mp4" {
		t.Fatalf("unexpected content type %s", aws.StringValue(putter.input.ContentType))
	}
	if len(putter.body) != len(mp4Header()) {
		t.Fatalf("body not forwarded")
	}
}

func TestUploadRejectsNonVideo(t *testing.T) {
	u := newUploader(&stubPutter{}, Config{Bucket: "collab"})
	_, err := u.Upload(context.Background(), "inf-1", "notes.txt", []byte("hello world"))
	if !errors.Is(err, ErrUnsupportedMedia) {
		t.Fatalf("expected unsupported media, got %v", err)
	}
}

func TestUploadWrapsStorageErrors(t *testing.T) {
	u := newUploader(&stubPutter{err: errors.New("denied")}, Config{Bucket: "collab"})
	if _, err := u.Upload(context.Background(), "inf-1", "a.mp4", mp4Header()); err == nil {
		t.Fatalf("expected error")
	}
}
