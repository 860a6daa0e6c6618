package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt 单向哈希；存库的永远是这个，不存明文
func HashPassword(pw string) string {
	b, _ := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b)
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}
