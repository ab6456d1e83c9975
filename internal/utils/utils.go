package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SecureRandomInt 生成[0,max)范围内的安全随机整数
func SecureRandomInt(max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

// FormatBalance 格式化余额显示
func FormatBalance(balance int64) string {
	return fmt.Sprintf("💰%d", balance)
}
