package file_store

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ishwaqsyed03/Brand-manager/model"
	"github.com/Ishwaqsyed03/Brand-manager/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMediaKind(t *testing.T) {
	kind, err := DetectMediaKind("image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, model.MediaKindImage, kind)

	kind, err = DetectMediaKind("image/png")
	require.NoError(t, err)
	assert.Equal(t, model.MediaKindImage, kind)

	kind, err = DetectMediaKind("video/mp4")
	require.NoError(t, err)
	assert.Equal(t, model.MediaKindVideo, kind)

	kind, err = DetectMediaKind("video/quicktime")
	require.NoError(t, err)
	assert.Equal(t, model.MediaKindVideo, kind)

	_, err = DetectMediaKind("application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
}

func TestLocalFileStore_StoreAndGetUrl(t *testing.T) {
	store, err := NewLocalFileStore(utils.RandomAlphabetString(6))
	require.NoError(t, err)
	defer store.CleanUp()

	content := []byte("not really a jpeg")
	key, err := store.Store(bytes.NewReader(content), "banner.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	stored, err := ioutil.ReadFile(filepath.Join(store.folderName, key))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	assert.Equal(t, "file://"+filepath.Join(store.folderName, key), store.GetUrlFromKey(key))
}

func TestLocalFileStore_ContentAddressedKey(t *testing.T) {
	store, err := NewLocalFileStore(utils.RandomAlphabetString(6))
	require.NoError(t, err)
	defer store.CleanUp()

	first, err := store.Store(bytes.NewReader([]byte("same bytes")), "a.png")
	require.NoError(t, err)
	second, err := store.Store(bytes.NewReader([]byte("same bytes")), "b.png")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	other, err := store.Store(bytes.NewReader([]byte("different bytes")), "a.png")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestLocalFileStore_CustomizeFileName(t *testing.T) {
	store, err := NewLocalFileStore(utils.RandomAlphabetString(6))
	require.NoError(t, err)
	defer store.CleanUp()

	store.SetCustomizeFileNameFunc(func(fileName string) string {
		return "fixed"
	})
	key, err := store.Store(bytes.NewReader([]byte("x")), "upload.mp4")
	require.NoError(t, err)
	assert.Equal(t, "fixed.mp4", key)
}

func TestFakeFileStore(t *testing.T) {
	store := NewFakeFileStore()
	key, err := store.Store(bytes.NewReader([]byte("payload")), "clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "clip.mp4", key)
	assert.Equal(t, []byte("payload"), store.Stored(key))
	assert.Equal(t, "https://fake.store/clip.mp4", store.GetUrlFromKey(key))
}
