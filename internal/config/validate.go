package config

import (
	"github.com/wfunc/serial-tool/internal/errors"
)

// 常见波特率，仅用于提示，不作为硬性限制
var commonBaudRates = []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Serial.Port == "" {
		return errors.New(errors.ErrConfigValidate, "串口名不能为空")
	}
	if c.Serial.BaudRate <= 0 {
		return errors.Newf(errors.ErrConfigValidate, "无效的波特率: %d", c.Serial.BaudRate)
	}
	if c.Action == ActionSend && c.Message == "" {
		return errors.New(errors.ErrConfigValidate, "send 操作需要消息内容")
	}
	return nil
}

// IsCommonBaudRate 判断是否为常见波特率
func IsCommonBaudRate(rate int) bool {
	for _, v := range commonBaudRates {
		if rate == v {
			return true
		}
	}
	return false
}
