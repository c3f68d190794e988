// Package port 负责枚举和打开物理串口设备
package port

import (
	"io"
	"time"

	"go.bug.st/serial"

	"github.com/wfunc/serial-tool/internal/errors"
)

// ReadTimeout 单次读取的超时时间，monitor循环靠它周期性让出控制权
const ReadTimeout = 100 * time.Millisecond

// Handle 串口句柄抽象
// Read带超时返回，超时返回 n==0 且 err==nil；Drain等待输出真正发出
type Handle interface {
	io.ReadWriteCloser
	Drain() error
}

// nativePort 是底层驱动句柄需要满足的最小接口
type nativePort interface {
	Handle
	SetReadTimeout(t time.Duration) error
}

// 允许测试替换底层串口操作
var (
	openPort = func(name string, mode *serial.Mode) (nativePort, error) {
		return serial.Open(name, mode)
	}
	getPortsList = serial.GetPortsList
)

// List 返回当前主机上可用的串口名列表
func List() ([]string, error) {
	ports, err := getPortsList()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPortNotFound, "枚举串口失败")
	}
	return ports, nil
}

// Exists 判断指定串口是否存在
// 枚举失败一律视为不存在，不向上抛错
func Exists(name string) bool {
	ports, err := getPortsList()
	if err != nil {
		return false
	}
	for _, p := range ports {
		if p == name {
			return true
		}
	}
	return false
}

// Open 以8N1帧格式打开指定串口
func Open(name string, baudRate int) (Handle, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := openPort(name, mode)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPortOpen, "打开串口 %s 失败", name)
	}

	if err := p.SetReadTimeout(ReadTimeout); err != nil {
		p.Close()
		return nil, errors.Wrapf(err, errors.ErrPortOpen, "设置串口 %s 读取超时失败", name)
	}

	return p, nil
}
