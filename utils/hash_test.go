package utils

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2" {
		t.Fatalf("password stored in plaintext")
	}
	if !CheckPasswordHash("hunter2", hash) {
		t.Fatalf("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatalf("wrong password accepted")
	}
}
