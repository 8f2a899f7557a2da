// Package cryptox implements the symmetric envelope used for card numbers
// and CCVs. An envelope is "hex(nonce):hex(ciphertext)" where the nonce is a
// fresh random 12-byte GCM nonce per call, so encrypting the same plaintext
// twice never yields the same envelope.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const keySize = 32

// ErrCipher covers every envelope failure: bad format, wrong nonce length,
// failed authentication. Callers must not see anything more specific.
var ErrCipher = errors.New("cryptox: invalid envelope")

type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a 32-byte key. Key problems are a startup error,
// not a per-request one.
func New(key []byte) (*Cipher, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("cryptox: key must be %d bytes, got %d", keySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: %w", err)
	}
	return &Cipher{aead: aead}, nil
}

func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cryptox: nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

func (c *Cipher) Decrypt(envelope string) (string, error) {
	nonceHex, dataHex, ok := strings.Cut(envelope, ":")
	if !ok {
		return "", ErrCipher
	}
	nonce, err := hex.DecodeString(nonceHex)
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return "", ErrCipher
	}
	sealed, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", ErrCipher
	}
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrCipher
	}
	return string(plaintext), nil
}
