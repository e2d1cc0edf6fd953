package security

import (
	"github.com/matthewhartstonge/argon2"
)

var hashConfig = argon2.DefaultConfig()

// HashPassword hashes the password with argon2id and returns the encoded hash.
func HashPassword(password string) (string, error) {
	encoded, err := hashConfig.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether password matches the encoded hash.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
