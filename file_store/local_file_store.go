package file_store

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ishwaqsyed03/Brand-manager/utils"
	"github.com/pkg/errors"
)

const (
	TmpFileDirPrefix = "_tmp_media_store_"
)

// LocalFileStore keeps uploads on local disk, mainly for development and
// testing where no S3 bucket is around.
type LocalFileStore struct {
	bucket                string
	folderName            string
	customizeFileNameFunc CustomizeFileNameFuncType
}

func NewLocalFileStore(bucket string) (*LocalFileStore, error) {
	folderName, err := CreateFolder(bucket)
	if err != nil {
		return nil, err
	}

	return &LocalFileStore{
		bucket:                bucket,
		folderName:            folderName,
		customizeFileNameFunc: nil,
	}, nil
}

func CreateFolder(bucket string) (string, error) {
	folderName := TmpFileDirPrefix + bucket
	err := os.MkdirAll(folderName, os.ModePerm)
	if err != nil && strings.Contains(err.Error(), "file exists") {
		return folderName, nil
	}
	return folderName, err
}

func DeleteFolder(folderName string) error {
	return os.RemoveAll(folderName)
}

func (s *LocalFileStore) SetCustomizeFileNameFunc(f CustomizeFileNameFuncType) {
	s.customizeFileNameFunc = f
}

func (s *LocalFileStore) GenerateFileName(data []byte, fileName string) (key string, err error) {
	if s.customizeFileNameFunc != nil {
		key = s.customizeFileNameFunc(fileName)
	} else {
		key, err = utils.BytesToMd5Hash(data)
	}

	if len(key) == 0 {
		err = errors.New("generate empty file name, invalid")
	}

	return key + utils.GetFileExtNameWithDot(fileName), err
}

func (s *LocalFileStore) Store(body io.Reader, fileName string) (string, error) {
	data, err := ioutil.ReadAll(body)
	if err != nil {
		return "", err
	}

	key, err := s.GenerateFileName(data, fileName)
	if err != nil {
		return "", err
	}

	if err := ioutil.WriteFile(filepath.Join(s.folderName, key), data, 0644); err != nil {
		return "", err
	}
	return key, nil
}

func (s *LocalFileStore) GetUrlFromKey(key string) string {
	return fmt.Sprintf("file://%s", filepath.Join(s.folderName, key))
}

func (s *LocalFileStore) CleanUp() {
	DeleteFolder(s.folderName)
}
