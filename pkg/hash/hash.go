// Package hash 提供基于 bcrypt 的密钥哈希与校验。
package hash

import "golang.org/x/crypto/bcrypt"

// HashSecret 为给定的明文密钥生成 bcrypt 哈希。
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckSecret 校验明文密钥与 bcrypt 哈希是否匹配。
// 配置中保存的是管理密钥的哈希，避免明文落盘。
func CheckSecret(secret, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(secret)) == nil
}
