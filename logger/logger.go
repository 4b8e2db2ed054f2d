// Package logger provides centralized logging for the application.
// File: logger/logger.go
package logger

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ------------------- global loggers -------------------

// four logger levels accessible throughout the application
var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

// level gates every logger; SetLogLevel moves it.
var level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

// base is the zap logger the four std loggers write through.
var base *zap.Logger

// ------------------- logger initialization -------------------

// InitLogger creates or reinitializes the logging system. It:
// - Writes logs to stdout.
// - When logDir is set, ensures it exists and also writes to a timestamped file inside it.
// - Bridges the Info, Warn, Error and Debug loggers onto a single zap core.
func InitLogger(logDir string) error {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
	encoder := zapcore.NewConsoleEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if logDir != "" {
		if err := os.MkdirAll(logDir, 0700); err != nil {
			return err
		}
		logFileName := filepath.Join(logDir, time.Now().Format("2006-01-02_15-04-05")+".log")
		file, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // #nosec
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(file), level))
	}

	base = zap.New(zapcore.NewTee(cores...), zap.AddCaller())

	var err error
	if Info, err = zap.NewStdLogAt(base, zapcore.InfoLevel); err != nil {
		return err
	}
	if Warn, err = zap.NewStdLogAt(base, zapcore.WarnLevel); err != nil {
		return err
	}
	if Error, err = zap.NewStdLogAt(base, zapcore.ErrorLevel); err != nil {
		return err
	}
	if Debug, err = zap.NewStdLogAt(base, zapcore.DebugLevel); err != nil {
		return err
	}
	return nil
}

// SetLogLevel adjusts how much is written depending on environment.
// In production debug lines are dropped; every other env keeps them.
func SetLogLevel(env string) {
	if env == "production" {
		level.SetLevel(zapcore.InfoLevel)
		return
	}
	level.SetLevel(zapcore.DebugLevel)
}

// Sync flushes any buffered entries. Call it before the process exits.
func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}

// init gives every package a usable stdout logger before main configures the file sink.
func init() {
	if err := InitLogger(""); err != nil {
		log.Fatalf("Failed to initialise custom logger: %v", err)
	}
}
