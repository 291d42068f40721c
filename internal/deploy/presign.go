package deploy

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// defaultUploadExpiry is how long presigned schema upload URLs stay valid.
const defaultUploadExpiry = 15 * time.Minute

// PresignAPI abstracts the S3 presign client for testing.
type PresignAPI interface {
	PresignPutObject(
		ctx context.Context,
		input *s3.PutObjectInput,
		opts ...func(*s3.PresignOptions),
	) (*v4.PresignedHTTPRequest, error)
}

// PresignedUpload is a URL the caller may PUT one file to.
type PresignedUpload struct {
	URL       string            `json:"uploadUrl"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	Key       string            `json:"key"`
	ExpiresIn int               `json:"expiresIn"`
}

// Presigner issues upload URLs for gateway target schemas.
type Presigner interface {
	PresignUpload(ctx context.Context, key string, tags map[string]string) (*PresignedUpload, error)
}

// SchemaPresigner is the Presigner backed by S3.
type SchemaPresigner struct {
	client PresignAPI
	bucket string
	expiry time.Duration
}

// NewSchemaPresigner creates a Presigner for objects in bucket.
func NewSchemaPresigner(client PresignAPI, bucket string) *SchemaPresigner {
	return &SchemaPresigner{client: client, bucket: bucket, expiry: defaultUploadExpiry}
}

// PresignUpload implements Presigner. tags are attached to the uploaded
// object.
func (p *SchemaPresigner) PresignUpload(ctx context.Context, key string, tags map[string]string) (*PresignedUpload, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(key),
	}
	if len(tags) > 0 {
		input.Tagging = aws.String(encodeTagging(tags))
	}

	req, err := p.client.PresignPutObject(ctx, input, s3.WithPresignExpires(p.expiry))
	if err != nil {
		return nil, newDeployError("presign", resourceSchema, key, err)
	}
	return &PresignedUpload{
		URL:       req.URL,
		Method:    req.Method,
		Headers:   flattenHeader(req.SignedHeader),
		Key:       key,
		ExpiresIn: int(p.expiry.Seconds()),
	}, nil
}

func flattenHeader(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 && k != "Host" {
			out[k] = v[0]
		}
	}
	return out
}

// encodeTagging renders tags in the query-string form S3 expects.
func encodeTagging(tags map[string]string) string {
	v := url.Values{}
	for k, val := range tags {
		v.Set(k, val)
	}
	return v.Encode()
}
