package logger

import (
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	once   sync.Once
	logger = zap.NewNop()

	// Log é o logger açucarado usado pelo serviço. Até Init ser chamado é um no-op.
	Log = logger.Sugar()
)

var (
	AppName = "ReportService"
	Env     = "production"
	LogPath = "logs/app.log"
)

// Configure ajusta nome, ambiente e arquivo antes de Init.
func Configure(env, path string) {
	if env != "" {
		Env = env
	}
	if path != "" {
		LogPath = path
	}
}

func Init() error {
	once.Do(func() {
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.TimeKey = "timestamp"
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoderCfg.CallerKey = "caller"
		encoderCfg.LevelKey = "level"
		encoderCfg.MessageKey = "message"

		consoleCfg := encoderCfg
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

		fileWriter := zapcore.AddSync(&lumberjack.Logger{
			Filename:   LogPath,
			MaxSize:    50,
			MaxBackups: 7,
			MaxAge:     30,
			Compress:   true,
		})

		logLevel := zapcore.DebugLevel
		if Env == "production" {
			logLevel = zapcore.InfoLevel
		}

		core := zapcore.NewTee(
			zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(os.Stdout), logLevel),
			zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), fileWriter, logLevel),
		)

		logger = zap.New(core,
			zap.AddCaller(),
			zap.AddStacktrace(zapcore.ErrorLevel),
			zap.Fields(
				zap.String("app", AppName),
				zap.String("env", Env),
			),
		)

		Log = logger.Sugar()
	})
	return nil
}

func GetLogger() *zap.Logger {
	return logger
}

func GetSugaredLogger() *zap.SugaredLogger {
	return Log
}

func Sync() {
	_ = logger.Sync()
}

func Trace(fn string, start time.Time) {
	elapsed := time.Since(start)
	Log.Debugf("%s executado em %d ms", fn, elapsed.Milliseconds())
}

func TraceAuto() func() {
	start := time.Now()
	pc, _, _, ok := runtime.Caller(1)
	funcName := "unknown"
	if ok {
		funcName = trimPackagePath(runtime.FuncForPC(pc).Name())
	}
	return func() {
		Log.Debugw("Fim da função", "function", funcName, "duration", time.Since(start).String())
	}
}

func trimPackagePath(fullName string) string {
	if idx := strings.LastIndex(fullName, "/"); idx != -1 {
		fullName = fullName[idx+1:]
	}
	if idx := strings.Index(fullName, "."); idx != -1 {
		return fullName[idx+1:]
	}
	return fullName
}
