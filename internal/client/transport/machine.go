package transport

import (
	"encoding/hex"
	"os"
	"os/user"

	"golang.org/x/crypto/blake2b"
)

// MachineID возвращает стабильный идентификатор машины: хэш имени хоста и пользователя.
// Сервер по нему снимает блокировки, оставшиеся от прошлых соединений этой машины.
func MachineID() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown-host"
	}

	name := os.Getenv("USER")
	if u, err := user.Current(); err == nil {
		name = u.Username
	}

	sum := blake2b.Sum256([]byte(host + "\x00" + name))
	return hex.EncodeToString(sum[:16])
}
