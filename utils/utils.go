package utils

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ishwaqsyed03/Brand-manager/utils/dotenv"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

// RandomAlphabetString generates a random lowercase string of length n.
func RandomAlphabetString(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

func IsProdEnv() bool {
	return os.Getenv("BRANDMANAGER_ENV") == dotenv.ProdEnv
}

// BytesToMd5Hash returns the hex md5 digest of data.
func BytesToMd5Hash(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("cannot hash empty content")
	}
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:]), nil
}

// GetFileExtNameWithDot extracts the extension of fileName, dot included, in
// lower case. Query strings are stripped first so URL paths work too.
func GetFileExtNameWithDot(fileName string) string {
	if idx := strings.IndexByte(fileName, '?'); idx >= 0 {
		fileName = fileName[:idx]
	}
	return strings.ToLower(filepath.Ext(fileName))
}
