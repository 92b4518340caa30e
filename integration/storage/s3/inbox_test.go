package s3_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dcSpark/agentnode/integration/storage/s3"
)

// MockClient mocks the S3 API subset used by the inbox.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) PutObject(ctx context.Context, params *s3aws.PutObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3aws.PutObjectOutput), args.Error(1)
}

func (m *MockClient) GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3aws.GetObjectOutput), args.Error(1)
}

func (m *MockClient) HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3aws.HeadObjectOutput), args.Error(1)
}

func (m *MockClient) ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3aws.ListObjectsV2Output), args.Error(1)
}

func (m *MockClient) DeleteObjects(ctx context.Context, params *s3aws.DeleteObjectsInput, optFns ...func(*s3aws.Options)) (*s3aws.DeleteObjectsOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3aws.DeleteObjectsOutput), args.Error(1)
}

func newTestInbox(t *testing.T, client s3.Client) *s3.Inbox {
	t.Helper()

	inbox, err := s3.New(context.Background(), s3.Config{
		Bucket: "test-bucket",
		Region: "us-east-1",
	}, s3.WithClient(client))
	require.NoError(t, err)
	return inbox
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("missing bucket", func(t *testing.T) {
		t.Parallel()

		_, err := s3.New(context.Background(), s3.Config{Region: "us-east-1"})
		assert.ErrorIs(t, err, s3.ErrInvalidConfig)
	})

	t.Run("missing region", func(t *testing.T) {
		t.Parallel()

		_, err := s3.New(context.Background(), s3.Config{Bucket: "b"})
		assert.ErrorIs(t, err, s3.ErrInvalidConfig)
	})
}

func TestInbox_Upload(t *testing.T) {
	t.Parallel()

	t.Run("stores under job prefix", func(t *testing.T) {
		t.Parallel()

		mockClient := new(MockClient)
		defer mockClient.AssertExpectations(t)
		inbox := newTestInbox(t, mockClient)

		mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3aws.PutObjectInput) bool {
			return *in.Bucket == "test-bucket" &&
				*in.Key == "inbox/job_id::123::false/report.pdf" &&
				*in.ContentType == "application/pdf"
		})).Return(&s3aws.PutObjectOutput{}, nil)

		key, err := inbox.Upload(context.Background(), "job_id::123::false", "report.pdf",
			strings.NewReader("content"), "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, "inbox/job_id::123::false/report.pdf", key)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		t.Parallel()

		inbox := newTestInbox(t, new(MockClient))

		_, err := inbox.Upload(context.Background(), "job-a", "../escape", strings.NewReader(""), "")
		assert.ErrorIs(t, err, s3.ErrInvalidKey)
	})

	t.Run("rejects empty job id", func(t *testing.T) {
		t.Parallel()

		inbox := newTestInbox(t, new(MockClient))

		_, err := inbox.Upload(context.Background(), "", "file.txt", strings.NewReader(""), "")
		assert.ErrorIs(t, err, s3.ErrEmptyJobID)
	})
}

func TestInbox_Fetch(t *testing.T) {
	t.Parallel()

	mockClient := new(MockClient)
	defer mockClient.AssertExpectations(t)
	inbox := newTestInbox(t, mockClient)

	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3aws.GetObjectInput) bool {
		return *in.Key == "inbox/job-a/file.txt"
	})).Return(&s3aws.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader("hello")),
	}, nil)

	body, err := inbox.Fetch(context.Background(), "inbox/job-a/file.txt")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestInbox_ListAndPurge(t *testing.T) {
	t.Parallel()

	mockClient := new(MockClient)
	defer mockClient.AssertExpectations(t)
	inbox := newTestInbox(t, mockClient)

	listOut := &s3aws.ListObjectsV2Output{
		Contents: []s3types.Object{
			{Key: aws.String("inbox/job-a/one.txt")},
			{Key: aws.String("inbox/job-a/two.txt")},
		},
	}
	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3aws.ListObjectsV2Input) bool {
		return *in.Prefix == "inbox/job-a/"
	})).Return(listOut, nil)
	mockClient.On("DeleteObjects", mock.Anything, mock.MatchedBy(func(in *s3aws.DeleteObjectsInput) bool {
		return len(in.Delete.Objects) == 2
	})).Return(&s3aws.DeleteObjectsOutput{}, nil)

	keys, err := inbox.List(context.Background(), "job-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"inbox/job-a/one.txt", "inbox/job-a/two.txt"}, keys)

	require.NoError(t, inbox.Purge(context.Background(), "job-a"))
}
