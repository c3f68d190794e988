// Package hexcodec 提供十六进制文本与字节序列之间的转换
package hexcodec

import (
	"strings"
	"unicode"

	"github.com/wfunc/serial-tool/internal/errors"
)

// Decode 解析十六进制文本为字节序列
// 输入中的空白字符和冒号分隔符会被忽略，如 "A1:B2 c3" => [0xA1 0xB2 0xC3]
func Decode(input string) ([]byte, error) {
	// 去掉空白和冒号分隔符
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == ':' {
			return -1
		}
		return r
	}, input)

	// 剩余字符数必须为偶数
	if len(cleaned)%2 != 0 {
		return nil, errors.Newf(errors.ErrInvalidHex, "长度为奇数(%d): %q", len(cleaned), cleaned)
	}

	data := make([]byte, 0, len(cleaned)/2)
	for i := 0; i < len(cleaned); i += 2 {
		pair := cleaned[i : i+2]
		hi, ok1 := hexDigit(pair[0])
		lo, ok2 := hexDigit(pair[1])
		if !ok1 || !ok2 {
			return nil, errors.Newf(errors.ErrInvalidHex, "无效的字节 %q", pair)
		}
		data = append(data, hi<<4|lo)
	}

	return data, nil
}

// Encode 将字节序列渲染为大写十六进制文本，字节之间以空格分隔
// 如 [0x41 0x0A] => "41 0A"，空输入返回空字符串
func Encode(data []byte) string {
	if len(data) == 0 {
		return ""
	}

	const digits = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(data)*3 - 1)
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(digits[c>>4])
		b.WriteByte(digits[c&0x0F])
	}

	return b.String()
}

// hexDigit 解析单个十六进制字符，大小写均可
func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
