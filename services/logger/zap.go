package logsvc

import (
	"go.uber.org/zap"

	"github.com/Apollox9/fusion-loom-sub002/core"
)

// ZapLogger adapts a *zap.Logger to core.Logger. It is the default logger when
// no Rollbar token is configured.
type ZapLogger struct {
	zl *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	zapcfg := zap.NewProductionConfig()
	if conf.Debug {
		zapcfg = zap.NewDevelopmentConfig()
	}
	zl, err := zapcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &ZapLogger{zl: zl.Sugar()}, nil
}

// fields flattens our variadic args (errors, maps) into zap key-value pairs.
func fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, 2*len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			kvs = append(kvs, "error", v)
		case map[string]interface{}:
			for k, val := range v {
				kvs = append(kvs, k, val)
			}
		default:
			kvs = append(kvs, zap.Any("arg", v))
		}
	}
	return kvs
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.zl.Debugw(msg, fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.zl.Infow(msg, fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.zl.Warnw(msg, fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.zl.Errorw(msg, fields(args)...) }
func (l *ZapLogger) Fatal(msg string, args ...interface{}) { l.zl.Fatalw(msg, fields(args)...) }

func (l *ZapLogger) Sync() error { return l.zl.Sync() }
