package otp

import (
	"errors"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// ErrInvalidCode 验证码错误
var ErrInvalidCode = errors.New("invalid totp code")

// Key 新生成的 TOTP 密钥
type Key struct {
	Secret string // base32
	URL    string // otpauth:// 链接，用于生成二维码
}

// TOTP 两步验证工具
type TOTP struct {
	issuer string
	skew   uint
}

// New 创建 TOTP 工具，skew 为允许的前后时间步数
func New(issuer string, skew uint) *TOTP {
	return &TOTP{issuer: issuer, skew: skew}
}

// Generate 为账户生成新密钥
func (t *TOTP) Generate(account string) (*Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, err
	}
	return &Key{Secret: key.Secret(), URL: key.URL()}, nil
}

// Validate 校验验证码
func (t *TOTP) Validate(code, secret string) error {
	return t.ValidateAt(code, secret, time.Now())
}

// ValidateAt 按指定时间校验验证码
func (t *TOTP) ValidateAt(code, secret string, at time.Time) error {
	ok, err := totp.ValidateCustom(code, secret, at.UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      t.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil || !ok {
		return ErrInvalidCode
	}
	return nil
}

// CodeAt 计算指定时间的验证码（测试与运维脚本使用）
func CodeAt(secret string, at time.Time) (string, error) {
	return totp.GenerateCode(secret, at)
}
