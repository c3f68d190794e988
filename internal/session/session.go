// Package session 实现针对单个串口句柄的发送与监听操作
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wfunc/serial-tool/internal/errors"
	"github.com/wfunc/serial-tool/internal/hexcodec"
	"github.com/wfunc/serial-tool/internal/logger"
	"github.com/wfunc/serial-tool/internal/port"
)

// readBufferSize 单次读取的缓冲区容量
const readBufferSize = 256

// Engine 会话引擎，一次调用只执行一个操作
type Engine struct {
	handle  port.Handle
	hexMode bool

	// 串口数据的输出端，日志走logger，两者不混用
	out io.Writer

	logger *zap.Logger
}

// New 创建会话引擎
func New(handle port.Handle, hexMode bool) *Engine {
	return &Engine{
		handle:  handle,
		hexMode: hexMode,
		out:     os.Stdout,
		logger: logger.With(
			zap.String("session_id", uuid.New().String()),
		),
	}
}

// Send 发送一条消息
// hex模式下先按十六进制文本解码，否则按UTF-8字节原样发送
// 成功只代表字节已交给底层传输，不等待对端确认
func (e *Engine) Send(ctx context.Context, message string) error {
	var payload []byte
	if e.hexMode {
		data, err := hexcodec.Decode(message)
		if err != nil {
			return errors.Wrap(err, errors.ErrInvalidHex, "解析待发送消息失败")
		}
		payload = data
	} else {
		payload = []byte(message)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	// 完整写入，部分写入继续补齐
	written := 0
	for written < len(payload) {
		n, err := e.handle.Write(payload[written:])
		if err != nil {
			return errors.Wrap(err, errors.ErrPortWrite, "发送消息失败")
		}
		written += n
	}

	// 显式刷新，确保数据真正发出而不是停留在缓冲区
	if err := e.handle.Drain(); err != nil {
		return errors.Wrap(err, errors.ErrPortFlush, "刷新串口失败")
	}

	e.logger.Debug("消息已发送",
		zap.Int("bytes", len(payload)),
		zap.Bool("hex_mode", e.hexMode),
	)

	return nil
}

// Monitor 持续读取串口数据并逐行输出，直到出错或ctx被取消
// 读取超时（100ms内无数据）是正常的空闲状态，不会中断循环
func (e *Engine) Monitor(ctx context.Context) error {
	e.logger.Info("开始监听",
		zap.Bool("hex_mode", e.hexMode),
	)

	buf := make([]byte, readBufferSize)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := e.handle.Read(buf)
		if err != nil {
			return errors.Wrap(err, errors.ErrPortRead, "读取串口数据失败")
		}
		if n == 0 {
			// 超时无数据，继续轮询
			continue
		}

		fmt.Fprintln(e.out, e.format(buf[:n]))
	}
}

// format 将收到的字节块转换为一行输出
func (e *Engine) format(data []byte) string {
	if e.hexMode {
		return hexcodec.Encode(data)
	}
	// 非法UTF-8序列以替换字符输出
	return strings.ToValidUTF8(string(data), "�")
}
