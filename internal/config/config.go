package config

import (
	"runtime"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/wfunc/serial-tool/internal/errors"
)

// Action 本次调用要执行的操作
type Action int

const (
	ActionSend    Action = iota // 发送一条消息后退出
	ActionMonitor               // 持续监听串口数据
	ActionList                  // 列出可用串口
)

// String 返回操作名称
func (a Action) String() string {
	switch a {
	case ActionSend:
		return "send"
	case ActionMonitor:
		return "monitor"
	case ActionList:
		return "list"
	default:
		return "unknown"
	}
}

// Config 全局配置结构体
type Config struct {
	Serial SerialConfig `mapstructure:"serial"`
	Log    LogConfig    `mapstructure:"log"`

	// 本次调用的操作，由命令行子命令决定，不从配置文件读取
	Action  Action `mapstructure:"-"`
	Message string `mapstructure:"-"`
}

// SerialConfig 串口配置
type SerialConfig struct {
	Port     string `mapstructure:"port"`
	BaudRate int    `mapstructure:"baud_rate"`
	HexMode  bool   `mapstructure:"hex_mode"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string        `mapstructure:"level"`
	Format string        `mapstructure:"format"`
	Output string        `mapstructure:"output"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Path       string `mapstructure:"path"`
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxAge     int    `mapstructure:"max_age"`
	MaxBackups int    `mapstructure:"max_backups"`
	Compress   bool   `mapstructure:"compress"`
}

var (
	cfg  *Config
	once sync.Once
	mu   sync.RWMutex
	v    *viper.Viper
)

// DefaultPort 返回当前平台的默认串口名
func DefaultPort() string {
	if runtime.GOOS == "windows" {
		return "COM3"
	}
	return "/dev/ttyUSB0"
}

// Init 初始化配置
func Init(configPath string) error {
	var err error
	once.Do(func() {
		v = viper.New()

		// 设置配置文件路径
		if configPath != "" {
			v.SetConfigFile(configPath)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath("./config")
			v.AddConfigPath(".")
		}

		// 设置环境变量前缀
		v.SetEnvPrefix("SERIAL_TOOL")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		// 设置默认值
		setDefaults(v)

		// 读取配置文件
		if err = v.ReadInConfig(); err != nil {
			// 如果配置文件不存在，使用默认配置
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				err = errors.Wrap(err, errors.ErrConfigLoad)
				return
			}
			err = nil
		}

		// 解析配置到结构体
		cfg = &Config{}
		if err = v.Unmarshal(cfg); err != nil {
			err = errors.Wrap(err, errors.ErrConfigLoad)
			return
		}
	})

	return err
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 串口默认配置
	v.SetDefault("serial.port", DefaultPort())
	v.SetDefault("serial.baud_rate", 115200)
	v.SetDefault("serial.hex_mode", false)

	// 日志默认配置
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file.path", "./logs")
	v.SetDefault("log.file.filename", "serial-tool.log")
	v.SetDefault("log.file.max_size", 10)
	v.SetDefault("log.file.max_age", 7)
	v.SetDefault("log.file.max_backups", 3)
	v.SetDefault("log.file.compress", false)
}

// Get 获取配置
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Watch 监听配置文件变化（monitor模式下用于动态调整日志级别）
func Watch(callback func(*Config)) {
	if v == nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err == nil {
			newCfg.Action = cfg.Action
			newCfg.Message = cfg.Message
			cfg = newCfg
		}
		mu.Unlock()

		if callback != nil {
			callback(Get())
		}
	})

	v.WatchConfig()
}
