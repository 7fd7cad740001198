package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// generateVoucherCode 生成券码：固定前缀 + 定长零填充随机十进制数字
func generateVoucherCode(prefix string, digits int) string {
	prefix = normalizeCodePrefix(prefix)
	if digits <= 0 || digits > 18 {
		digits = 8
	}
	var max uint64 = 1
	for i := 0; i < digits; i++ {
		max *= 10
	}

	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// 随机源不可用时退化为时间戳派生码
		return fallbackVoucherCode(prefix, time.Now())
	}
	n := binary.BigEndian.Uint64(buf[:]) % max
	return fmt.Sprintf("%s%0*d", prefix, digits, n)
}

// fallbackVoucherCode 时间戳派生码：重试耗尽或随机源失败时的兜底
func fallbackVoucherCode(prefix string, now time.Time) string {
	prefix = normalizeCodePrefix(prefix)
	if now.IsZero() {
		now = time.Now()
	}
	suffix := uint64(now.UnixNano()) % 100
	return fmt.Sprintf("%s%s%02d", prefix, now.Format("060102150405"), suffix)
}

func normalizeCodePrefix(prefix string) string {
	prefix = strings.TrimSpace(strings.ToUpper(prefix))
	if prefix == "" {
		prefix = "BA"
	}
	return prefix
}
