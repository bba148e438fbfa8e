package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"go-hrms/internal/shared/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
)

type fakeS3 struct {
	putInput *s3.PutObjectInput
	body     string
	putErr   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.putInput = params
	if params.Body != nil {
		b, _ := io.ReadAll(params.Body)
		f.body = string(b)
	}
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(f.body)))}, nil
}

func TestS3Store_Save(t *testing.T) {
	t.Run("success returns public url", func(t *testing.T) {
		client := &fakeS3{}
		store := storage.NewS3StoreWithClient(client, "payslips", "https://cdn.example.com/")

		info, err := store.Save(context.Background(), "/2024/03/abc.pdf", strings.NewReader("%PDF"), "application/pdf")

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/2024/03/abc.pdf", info.URL)
		assert.Equal(t, int64(4), info.Size)
		assert.Equal(t, "payslips", aws.ToString(client.putInput.Bucket))
		assert.Equal(t, "application/pdf", aws.ToString(client.putInput.ContentType))
	})

	t.Run("put failure is wrapped", func(t *testing.T) {
		store := storage.NewS3StoreWithClient(&fakeS3{putErr: errors.New("denied")}, "payslips", "")

		_, err := store.Save(context.Background(), "a.pdf", strings.NewReader("x"), "application/pdf")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "s3 put object")
	})

	t.Run("url without public base", func(t *testing.T) {
		store := storage.NewS3StoreWithClient(&fakeS3{}, "payslips", "")
		assert.Equal(t, "s3://payslips/a.pdf", store.URL("a.pdf"))
	})
}
