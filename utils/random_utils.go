package utils

import "crypto/rand"

// RandomBytes 生成 n 字节的安全随机数据
func RandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
