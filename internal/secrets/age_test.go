package secrets

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	enc, err := NewEphemeralEncryptor()
	if err != nil {
		t.Fatal(err)
	}

	plaintext := []byte("sk-live-0123456789")
	ciphertext, err := enc.Encrypt(plaintext)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(ciphertext, plaintext) {
		t.Fatal("ciphertext contains plaintext")
	}

	got, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("got %q, want %q", got, plaintext)
	}
}

func TestEnsureKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "vetgate.key")

	enc1, err := EnsureKeyFile(path)
	if err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("key file mode = %o, want 600", perm)
	}

	// Second call loads the same identity.
	enc2, err := EnsureKeyFile(path)
	if err != nil {
		t.Fatal(err)
	}

	ciphertext, err := enc1.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := enc2.Decrypt(ciphertext)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "secret" {
		t.Fatalf("got %q", got)
	}
}

func TestSaveLoadAPIKey(t *testing.T) {
	dir := t.TempDir()
	enc, err := EnsureKeyFile(filepath.Join(dir, "id.key"))
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "apikey.age")
	if err := SaveAPIKey(enc, path, "v3t-api-key"); err != nil {
		t.Fatal(err)
	}

	key, err := LoadAPIKey(enc, path)
	if err != nil {
		t.Fatal(err)
	}
	if key != "v3t-api-key" {
		t.Fatalf("got %q", key)
	}

	// Wrong identity cannot decrypt.
	other, err := NewEphemeralEncryptor()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAPIKey(other, path); err == nil {
		t.Fatal("expected decrypt error with wrong identity")
	}
}
