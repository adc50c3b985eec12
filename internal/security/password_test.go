package security

import (
	"bytes"
	"errors"
	"testing"
)

var testParams = Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func TestHashPasswordRoundtrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatal("expected hash to verify against its own password")
	}
}

func TestVerifyPasswordMismatch(t *testing.T) {
	hash, err := HashPasswordWithParams("right", testParams)
	if err != nil {
		t.Fatalf("HashPasswordWithParams: %v", err)
	}

	ok, err := VerifyPassword("wrong", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPasswordWithParams("same", testParams)
	if err != nil {
		t.Fatalf("HashPasswordWithParams: %v", err)
	}
	b, err := HashPasswordWithParams("same", testParams)
	if err != nil {
		t.Fatalf("HashPasswordWithParams: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Fatal("two hashes of the same password are identical; salt is not random")
	}
}

func TestVerifyPasswordHonorsEmbeddedParams(t *testing.T) {
	// Verification must use the parameters stored in the hash, not the
	// current defaults.
	hash, err := HashPasswordWithParams("portable", Argon2Params{Time: 2, Memory: 16 * 1024, Threads: 1, KeyLen: 16, SaltLen: 8})
	if err != nil {
		t.Fatalf("HashPasswordWithParams: %v", err)
	}

	ok, err := VerifyPassword("portable", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatal("hash with non-default params did not verify")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, bad := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$t=3,m=65536,p=2$only-one-part",
		"$bcrypt$v=19$t=3,m=65536,p=2$c2FsdA==$ZGlnZXN0",
		"$argon2id$v=19$t=x,m=65536,p=2$c2FsdA==$ZGlnZXN0",
		"$argon2id$v=19$t=3,m=65536,p=2$!notbase64$ZGlnZXN0",
	} {
		if _, err := VerifyPassword("whatever", []byte(bad)); !errors.Is(err, ErrMalformedHash) {
			t.Errorf("VerifyPassword(%q) err = %v, want ErrMalformedHash", bad, err)
		}
	}
}
