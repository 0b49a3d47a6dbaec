package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPutObject struct {
	mock.Mock
	body []byte
}

func (m *MockPutObject) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if params.Body != nil {
		m.body, _ = io.ReadAll(params.Body)
	}
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*s3.PutObjectOutput)
	return out, args.Error(1)
}

func writeChart(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "top_influencers_roi.png")
	require.NoError(t, os.WriteFile(p, []byte("png-bytes"), 0o644))
	return p
}

func TestNewS3Publisher_RequiresBucket(t *testing.T) {
	_, err := NewS3Publisher(new(MockPutObject), "", "charts")
	assert.Error(t, err)
}

func TestS3Publisher_Publish(t *testing.T) {
	chart := writeChart(t)
	api := new(MockPutObject)
	api.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "reports" &&
			aws.ToString(in.Key) == "influencer/run-1/top_influencers_roi.png" &&
			aws.ToString(in.ContentType) == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil)

	p, err := NewS3Publisher(api, "reports", "/influencer/")
	require.NoError(t, err)

	url, err := p.Publish(context.Background(), "run-1", chart)
	require.NoError(t, err)
	assert.Equal(t, "s3://reports/influencer/run-1/top_influencers_roi.png", url)
	assert.Equal(t, []byte("png-bytes"), api.body)
	api.AssertCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestS3Publisher_Publish_NoPrefix(t *testing.T) {
	p, err := NewS3Publisher(new(MockPutObject), "reports", "")
	require.NoError(t, err)
	assert.Equal(t, "run-1/chart.png", p.Key("run-1", "/tmp/out/chart.png"))
}

func TestS3Publisher_Publish_UploadFails(t *testing.T) {
	chart := writeChart(t)
	api := new(MockPutObject)
	api.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("AccessDenied"))

	p, err := NewS3Publisher(api, "reports", "")
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), "run-1", chart)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestS3Publisher_Publish_MissingFile(t *testing.T) {
	api := new(MockPutObject)
	p, err := NewS3Publisher(api, "reports", "")
	require.NoError(t, err)

	_, err = p.Publish(context.Background(), "run-1", filepath.Join(t.TempDir(), "absent.png"))
	assert.Error(t, err)
	api.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", contentType("a.PNG"))
	assert.Equal(t, "image/svg+xml", contentType("a.svg"))
	assert.Equal(t, "application/octet-stream", contentType("a"))
}
