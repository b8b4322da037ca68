// Package log 提供进程级共享的 zap logger。
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

func init() {
	var err error
	logger, err = zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
}

// Logger 返回当前 logger。
func Logger() *zap.Logger {
	return logger
}

// SetLogger 重新构建 logger。debug 模式输出 console 格式 + Debug 级别，
// 否则输出 JSON + Info 级别；outputPaths 为空时写 stderr，stdout 留给命令输出。
func SetLogger(debug bool, outputPaths ...string) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.999999")
	cfg.OutputPaths = outputs(outputPaths)
	l, err := cfg.Build()
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func outputs(paths []string) []string {
	if len(paths) > 0 {
		return paths
	}
	return []string{"stderr"}
}

// CloseLogger 只保留 Fatal 级别输出，测试中用于静音。
func CloseLogger() {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.FatalLevel)
	var err error
	logger, err = cfg.Build()
	if err != nil {
		panic(err)
	}
}
