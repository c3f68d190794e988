package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/wfunc/serial-tool/internal/config"
	"github.com/wfunc/serial-tool/internal/errors"
	"github.com/wfunc/serial-tool/internal/logger"
	"github.com/wfunc/serial-tool/internal/port"
	"github.com/wfunc/serial-tool/internal/session"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// 命令行参数
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		portName    = flag.String("port", "", "串口名 (如 COM3, /dev/ttyUSB0)")
		baudRate    = flag.Int("baud", 0, "波特率 (默认 115200)")
		hexMode     = flag.Bool("hex", false, "十六进制模式")
		showVersion = flag.Bool("version", false, "显示版本信息")
		showHelp    = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	// 显示版本信息
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// 显示帮助信息
	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	// 加载配置
	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Get()

	// 命令行参数覆盖配置文件
	if *portName != "" {
		cfg.Serial.Port = *portName
	}
	if *baudRate > 0 {
		cfg.Serial.BaudRate = *baudRate
	}
	if *hexMode {
		cfg.Serial.HexMode = true
	}

	// 解析子命令
	if err := parseAction(cfg, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n\n", err)
		printHelp()
		os.Exit(1)
	}

	// 初始化日志系统
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		// 所有失败最终都汇到这里，带上下文输出后退出
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

// parseAction 解析子命令及其参数
func parseAction(cfg *config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New(errors.ErrInvalidParam, "缺少操作 (send/monitor/list)")
	}

	switch args[0] {
	case "send":
		cfg.Action = config.ActionSend
		if len(args) < 2 {
			return errors.New(errors.ErrInvalidParam, "send 操作需要消息内容")
		}
		cfg.Message = args[1]
	case "monitor":
		cfg.Action = config.ActionMonitor
	case "list":
		cfg.Action = config.ActionList
	default:
		return errors.Newf(errors.ErrInvalidParam, "未知操作: %s", args[0])
	}

	return nil
}

// run 执行本次调用的操作
func run(cfg *config.Config) error {
	// list 不需要打开串口，也不依赖串口配置
	if cfg.Action == config.ActionList {
		return listPorts()
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info("启动",
		zap.String("port", cfg.Serial.Port),
		zap.Int("baud_rate", cfg.Serial.BaudRate),
		zap.String("action", cfg.Action.String()),
		zap.Bool("hex_mode", cfg.Serial.HexMode),
	)

	if !config.IsCommonBaudRate(cfg.Serial.BaudRate) {
		logger.Warn("非常见波特率", zap.Int("baud_rate", cfg.Serial.BaudRate))
	}

	// 先确认设备存在，错误信息里带上可用列表方便排查
	if !port.Exists(cfg.Serial.Port) {
		available, _ := port.List()
		return errors.Newf(errors.ErrPortNotFound,
			"串口 %s 不在可用列表中，当前可用: %v", cfg.Serial.Port, available)
	}

	handle, err := port.Open(cfg.Serial.Port, cfg.Serial.BaudRate)
	if err != nil {
		return err
	}
	defer handle.Close()

	// 信号触发取消，monitor循环每轮都会检查
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := session.New(handle, cfg.Serial.HexMode)

	switch cfg.Action {
	case config.ActionSend:
		return engine.Send(ctx, cfg.Message)
	case config.ActionMonitor:
		// monitor长时间运行，支持改配置文件动态调日志级别
		config.Watch(func(c *config.Config) {
			logger.SetLevel(c.Log.Level)
		})

		err := engine.Monitor(ctx)
		if stderrors.Is(err, context.Canceled) {
			return errors.New(errors.ErrCanceled, "监听被中断")
		}
		return err
	}

	return nil
}

// listPorts 输出当前可用的串口列表
func listPorts() error {
	ports, err := port.List()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Println("未找到可用串口")
		return nil
	}

	for _, p := range ports {
		fmt.Println(p)
	}
	return nil
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("serial-tool %s\n", Version)
	fmt.Printf("  构建时间: %s\n", BuildTime)
	fmt.Printf("  Git提交: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("serial-tool - 串口调试工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  serial-tool [选项] send <消息>   发送一条消息后退出")
	fmt.Println("  serial-tool [选项] monitor       持续监听串口数据")
	fmt.Println("  serial-tool [选项] list          列出可用串口")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Printf("  -port   串口名 (默认 %s)\n", config.DefaultPort())
	fmt.Println("  -baud   波特率 (默认 115200)")
	fmt.Println("  -hex    十六进制模式: send按十六进制文本解析，monitor按十六进制输出")
	fmt.Println("  -config 配置文件路径")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  serial-tool -port /dev/ttyUSB0 -baud 115200 send \"hello\"")
	fmt.Println("  serial-tool -port COM3 -hex send \"DE AD BE EF\"")
	fmt.Println("  serial-tool -port /dev/ttyUSB0 monitor")
}
