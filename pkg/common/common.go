package common

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"golang.org/x/crypto/pbkdf2"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a new snowflake id.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a new snowflake id in base36 string form.
func UUID() string {
	return snowflakeNode.Generate().Base36()
}

// GetSecretSalt returns the process password salt, overridable for
// deployments via INVTRACK_SECRET_SALT.
func GetSecretSalt() string {
	if s := os.Getenv("INVTRACK_SECRET_SALT"); s != "" {
		return s
	}
	return "invtrack-1229-11e9-secret"
}

// HashPasswordWithSalt derives a hex-encoded PBKDF2-SHA256 password hash.
func HashPasswordWithSalt(password, salt string) string {
	dk := pbkdf2.Key([]byte(password), []byte(salt), 4096, 32, sha256.New)
	return hex.EncodeToString(dk)
}

// NextSaleNumber builds a human-facing sale reference such as
// SALE-20240115103000-3F2A.
func NextSaleNumber(now time.Time) string {
	var b [2]byte
	_, _ = rand.Read(b[:])
	return fmt.Sprintf("SALE-%s-%s", now.Format("20060102150405"), hex.EncodeToString(b[:]))
}
