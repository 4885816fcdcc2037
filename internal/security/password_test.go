package security

import "testing"

func TestHashPasswordAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "" {
		t.Fatalf("expected non-empty hash")
	}
	if hash == "s3cret" {
		t.Fatalf("expected hash to differ from plain text")
	}
	if !CheckPassword("s3cret", hash) {
		t.Fatalf("expected password check to pass")
	}
	if CheckPassword("wrong", hash) {
		t.Fatalf("expected password check to fail")
	}
	if CheckPassword("S3cret", hash) {
		t.Fatalf("expected case-sensitive check to fail")
	}
}

func TestGenerateRandomString(t *testing.T) {
	first, err := GenerateRandomString(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := GenerateRandomString(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if first == "" || first == second {
		t.Fatalf("expected distinct non-empty strings")
	}
}
