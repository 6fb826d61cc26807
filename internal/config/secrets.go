// internal/config/secrets.go
package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/99designs/keyring"
)

const serviceName = "querypad"

const masterKeyName = "__master_key__"

// GetMasterKey retrieves the encryption key from the OS keyring, generating
// and storing a fresh one on first use
func GetMasterKey() ([]byte, error) {
	ring, err := keyring.Open(keyring.Config{ServiceName: serviceName})
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}

	item, err := ring.Get(masterKeyName)
	if err == nil {
		return base64.StdEncoding.DecodeString(string(item.Data))
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}

	err = ring.Set(keyring.Item{
		Key:  masterKeyName,
		Data: []byte(base64.StdEncoding.EncodeToString(key)),
	})
	if err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt encrypts a string with AES-GCM, returning base64 text
func Encrypt(plainText string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plainText), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt decrypts a base64 string produced by Encrypt
func Decrypt(cipherText string, key []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plainText, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", err
	}
	return string(plainText), nil
}
