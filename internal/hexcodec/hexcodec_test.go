package hexcodec

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/wfunc/serial-tool/internal/errors"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{
			name:  "基本解析",
			input: "A1B2",
			want:  []byte{0xA1, 0xB2},
		},
		{
			name:  "分隔符和小写",
			input: "a1:b2 c3",
			want:  []byte{0xA1, 0xB2, 0xC3},
		},
		{
			name:  "制表符和换行",
			input: "41\t42\n43",
			want:  []byte{0x41, 0x42, 0x43},
		},
		{
			name:  "空输入",
			input: "",
			want:  []byte{},
		},
		{
			name:  "纯分隔符",
			input: " : : ",
			want:  []byte{},
		},
		{
			name:    "奇数长度",
			input:   "ABC",
			wantErr: true,
		},
		{
			name:    "非法字符",
			input:   "ZZ",
			wantErr: true,
		},
		{
			name:    "部分非法",
			input:   "41 G2",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Decode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidHex) {
					t.Errorf("Decode(%q) 错误码 = %d, 期望 ErrInvalidHex", tt.input, errors.GetCode(err))
				}
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Decode(%q) = %v, 期望 %v", tt.input, got, tt.want)
			}
		})
	}
}

// 非法字节对必须出现在错误详情中
func TestDecodeErrorNamesOffendingPair(t *testing.T) {
	_, err := Decode("ZZ")
	if err == nil {
		t.Fatal("Decode(\"ZZ\") 应该返回错误")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("错误类型 = %T, 期望 *errors.AppError", err)
	}
	if appErr.Code != errors.ErrInvalidHex {
		t.Errorf("错误码 = %d, 期望 %d", appErr.Code, errors.ErrInvalidHex)
	}
	if want := `"ZZ"`; !strings.Contains(appErr.Details, want) {
		t.Errorf("错误详情 %q 未包含 %s", appErr.Details, want)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "基本编码",
			input: []byte{0x41, 0x0A},
			want:  "41 0A",
		},
		{
			name:  "单字节",
			input: []byte{0xFF},
			want:  "FF",
		},
		{
			name:  "空输入",
			input: nil,
			want:  "",
		},
		{
			name:  "零值字节",
			input: []byte{0x00, 0x01},
			want:  "00 01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Encode(tt.input); got != tt.want {
				t.Errorf("Encode(%v) = %q, 期望 %q", tt.input, got, tt.want)
			}
		})
	}
}

// 往返属性: Decode(Encode(b)) == b
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 100; i++ {
		data := make([]byte, rng.Intn(64))
		rng.Read(data)

		encoded := Encode(data)
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(Encode(%v)) 失败: %v", data, err)
		}
		if !bytes.Equal(decoded, data) {
			t.Fatalf("往返不一致: %v -> %q -> %v", data, encoded, decoded)
		}
	}
}
