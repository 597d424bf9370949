package secrets

import (
	"fmt"
	"os"
)

// SaveAPIKey encrypts the upstream API key and writes it to path.
func SaveAPIKey(enc *AgeEncryptor, path, key string) error {
	ciphertext, err := enc.Encrypt([]byte(key))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, ciphertext, 0o600); err != nil {
		return fmt.Errorf("write api key file: %w", err)
	}
	return nil
}

// LoadAPIKey reads and decrypts the upstream API key from path.
func LoadAPIKey(enc *AgeEncryptor, path string) (string, error) {
	ciphertext, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read api key file: %w", err)
	}
	plaintext, err := enc.Decrypt(ciphertext)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}
