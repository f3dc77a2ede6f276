package utils

import "golang.org/x/crypto/bcrypt"

// bcryptCost is fixed; changing it only affects newly hashed passwords.
const bcryptCost = 14

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash compares a candidate password against a stored bcrypt
// hash in constant time.
func CheckPasswordHash(password, hashedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
