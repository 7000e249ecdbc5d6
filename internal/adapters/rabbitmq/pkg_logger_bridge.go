package rabbitmq

import (
	"fmt"

	"ingestion-service/internal/core/port"
	"ingestion-service/pkg/rabbitmq/rabbitmq_common"
)

// PkgLoggerBridge адаптирует наш LoggerPort к интерфейсу логгера pkg-уровня
// (у pkg-кода - пары ключ/значение, у нас - Fields).
type PkgLoggerBridge struct {
	logger port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) *PkgLoggerBridge {
	return &PkgLoggerBridge{logger: logger}
}

func keysAndValuesToFields(keysAndValues ...interface{}) port.Fields {
	fields := make(port.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.logger.Debug(msg, keysAndValuesToFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.logger.Info(msg, keysAndValuesToFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.logger.Warn(msg, keysAndValuesToFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.logger.Error(msg, err, keysAndValuesToFields(keysAndValues...))
}

var _ rabbitmq_common.Logger = (*PkgLoggerBridge)(nil)
