package spaces

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/DMarby/bgremove/internal/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Provider implements a digitalocean spaces (or any s3 compatible) image storage
type Provider struct {
	spaces *s3.S3
	space  string
}

// New returns a new Provider instance
func New(space, endpoint, accessKey, secretKey string, forcePathStyle bool) (*Provider, error) {
	spacesSession, err := session.NewSession(&aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String("us-east-1"), // Needs to be us-east-1 for Spaces, or it'll fail
		S3ForcePathStyle: aws.Bool(forcePathStyle),
	})
	if err != nil {
		return nil, err
	}

	spaces := s3.New(spacesSession)

	_, err = spaces.HeadBucket(&s3.HeadBucketInput{
		Bucket: aws.String(space),
	})
	if err != nil {
		return nil, err
	}

	return &Provider{
		spaces: spaces,
		space:  space,
	}, nil
}

func key(path string) string {
	return strings.TrimPrefix(path, "/")
}

func isNotFound(err error) bool {
	aerr, ok := err.(awserr.Error)
	if !ok {
		return false
	}

	// HeadObject has no response body, so the code is derived from the status
	return aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound"
}

// Exists reports whether an object exists at path
func (p *Provider) Exists(ctx context.Context, path string) (bool, error) {
	_, err := p.spaces.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: &p.space,
		Key:    aws.String(key(path)),
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Get returns the object data at path
func (p *Provider) Get(ctx context.Context, path string) ([]byte, error) {
	output, err := p.spaces.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: &p.space,
		Key:    aws.String(key(path)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}
	defer output.Body.Close()

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, output.Body)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Put uploads data to path, replacing any existing object
func (p *Provider) Put(ctx context.Context, path string, data []byte) error {
	_, err := p.spaces.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      &p.space,
		Key:         aws.String(key(path)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})

	return err
}
