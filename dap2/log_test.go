package dap2

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// A *logrus.Logger satisfies Logger directly; no adapter is needed.
var _ Logger = (*logrus.Logger)(nil)

func newCapturingLogrus() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return logger, &buf
}

func TestWithLoggerTracesParseDAS(t *testing.T) {
	logger, buf := newCapturingLogrus()
	_, err := ParseDAS(`Attributes { NC_GLOBAL { String title "x"; } }`, WithLogger(logger))
	if err != nil {
		t.Fatalf("ParseDAS: %v", err)
	}
	if !strings.Contains(buf.String(), "parsed DAS") {
		t.Fatalf("expected logrus output to contain a DAS trace message, got %q", buf.String())
	}
}

func TestWithLoggerTracesParseDDS(t *testing.T) {
	logger, buf := newCapturingLogrus()
	_, err := ParseDDS("Dataset { Float32 latitude[latitude = 5]; } ds;", WithLogger(logger))
	if err != nil {
		t.Fatalf("ParseDDS: %v", err)
	}
	if !strings.Contains(buf.String(), "parsed DDS") {
		t.Fatalf("expected logrus output to contain a DDS trace message, got %q", buf.String())
	}
}

func TestWithLoggerWarnsOnLenientTrailingGarbage(t *testing.T) {
	logger, buf := newCapturingLogrus()

	var dods bytes.Buffer
	dods.WriteString("Dataset { Int32 v[v = 1]; } d;\nData:\n")
	dods.Write(u32(1))
	dods.Write(u32(1))
	dods.Write(u32(42))
	dods.WriteByte(0xFF)

	if _, err := ParseDODS(dods.Bytes(), WithLenientTrailingGarbage(), WithLogger(logger)); err != nil {
		t.Fatalf("ParseDODS: %v", err)
	}
	if !strings.Contains(buf.String(), "discarded") {
		t.Fatalf("expected logrus output to contain a trailing-bytes warning, got %q", buf.String())
	}
}
