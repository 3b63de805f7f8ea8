package dap2

// Logger is the minimal structured-logging surface dap2 calls into. A
// *logrus.Logger satisfies this directly; callers on a foreign host can
// plug in NopLogger or their own adapter.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// NopLogger discards everything. It is the zero-value default when no
// Logger option is supplied.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...interface{}) {}
func (NopLogger) Warnf(format string, args ...interface{})  {}
