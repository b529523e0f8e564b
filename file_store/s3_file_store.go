package file_store

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/Ishwaqsyed03/Brand-manager/utils"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

const (
	DevS3MediaBucket  = "brandmanager-dev-media"
	ProdS3MediaBucket = "brandmanager-media-uploads"
)

type S3FileStore struct {
	bucket                   string
	urlPrefix                string
	uploader                 *s3manager.Uploader
	svc                      *s3.S3
	customizeFileNameFunc    CustomizeFileNameFuncType
	customizeUploadedUrlFunc CustomizeUploadedUrlType
}

func NewS3FileStore(bucket string, urlPrefix string) (*S3FileStore, error) {
	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String("us-west-1"),
	})
	if err != nil {
		return nil, err
	}

	return &S3FileStore{
		bucket:                   bucket,
		urlPrefix:                urlPrefix,
		uploader:                 s3manager.NewUploader(sess),
		svc:                      s3.New(session.Must(sess, err)),
		customizeFileNameFunc:    nil,
		customizeUploadedUrlFunc: nil,
	}, nil
}

func (s *S3FileStore) SetCustomizeFileNameFunc(f CustomizeFileNameFuncType) {
	s.customizeFileNameFunc = f
}

func (s *S3FileStore) SetCustomizeUploadedUrlFunc(f CustomizeUploadedUrlType) {
	s.customizeUploadedUrlFunc = f
}

// S3 key is content addressed so re-uploading the same bytes dedupes.
func (s *S3FileStore) GenerateS3Key(data []byte, fileName string) (key string, err error) {
	if s.customizeFileNameFunc != nil {
		key = s.customizeFileNameFunc(fileName)
	} else {
		key, err = utils.BytesToMd5Hash(data)
	}

	if len(key) == 0 {
		err = errors.New("generate empty s3 key, invalid")
	}

	return key + utils.GetFileExtNameWithDot(fileName), err
}

// If the key already exists the upload is skipped, the existing object wins.
func (s *S3FileStore) Store(body io.Reader, fileName string) (key string, err error) {
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return "", err
	}

	key, err = s.GenerateS3Key(data, fileName)
	if err != nil {
		return "", err
	}

	if !s.IsKeyExisted(key) {
		_, err = s.uploader.Upload(&s3manager.UploadInput{
			ACL:    aws.String("public-read"),
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(data),
		})
	}
	return key, err
}

func (s *S3FileStore) IsKeyExisted(key string) bool {
	_, err := s.svc.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

func (s *S3FileStore) GetUrlFromKey(key string) string {
	if s.customizeUploadedUrlFunc == nil {
		return s.urlPrefix + key
	}
	return s.customizeUploadedUrlFunc(key)
}

func (s *S3FileStore) CleanUp() {
	// do nothing for s3
}
