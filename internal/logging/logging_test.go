package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDebug_DisabledInProduction(t *testing.T) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(log.DebugLevel)

	appLogger := &AppLogger{
		logger: logger,
		debug:  false, // Production mode
	}

	appLogger.Debug("debug message that should not appear")

	output := buf.String()
	if strings.Contains(output, "debug message that should not appear") {
		t.Errorf("Expected debug message to be suppressed in production mode, got: %s", output)
	}
}

func TestLevels(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.Info("info line", "key", "value")
	logger.Warn("warn line")
	logger.Error("error line")
	logger.Debug("debug line")

	output := buf.String()
	for _, want := range []string{"INFO", "info line", "key=value", "WARN", "warn line", "ERRO", "error line", "DEBU", "debug line"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log output to contain %q, got: %s", want, output)
		}
	}
}

func TestDebugObject(t *testing.T) {
	logger, buf := NewTestLogger()

	testObj := struct {
		Name  string
		Value int
	}{
		Name:  "test",
		Value: 42,
	}

	logger.DebugObject("test_object", testObj)

	output := buf.String()
	if !strings.Contains(output, "Object dump") {
		t.Errorf("Expected log output to contain 'Object dump', got: %s", output)
	}
	if !strings.Contains(output, "test_object") {
		t.Errorf("Expected log output to contain object name, got: %s", output)
	}
	if !strings.Contains(output, "42") {
		t.Errorf("Expected log output to contain object data, got: %s", output)
	}
}

func TestLogPerformance(t *testing.T) {
	logger, buf := NewTestLogger()

	start := time.Now()
	time.Sleep(1 * time.Millisecond)
	logger.LogPerformance("test_operation", start)

	output := buf.String()
	if !strings.Contains(output, "Performance") {
		t.Errorf("Expected log output to contain 'Performance', got: %s", output)
	}
	if !strings.Contains(output, "test_operation") {
		t.Errorf("Expected log output to contain operation name, got: %s", output)
	}
	if !strings.Contains(output, "duration") {
		t.Errorf("Expected log output to contain duration, got: %s", output)
	}
}

func TestLogStateTransition(t *testing.T) {
	logger, buf := NewTestLogger()

	logger.LogStateTransition("supervisor", "starting", "running")

	output := buf.String()
	for _, want := range []string{"State transition", "supervisor", "starting", "running"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected log output to contain %q, got: %s", want, output)
		}
	}
}

func TestStandardLog(t *testing.T) {
	logger, buf := NewTestLogger()

	std := logger.StandardLog()
	std.Printf("read failed: %s", "broken pipe")

	output := buf.String()
	if !strings.Contains(output, "read failed: broken pipe") {
		t.Errorf("Expected standard logger output to be forwarded, got: %s", output)
	}
	if !strings.Contains(output, "ERRO") {
		t.Errorf("Expected standard logger output at error level, got: %s", output)
	}
}

func TestPackageLevelFunctions(t *testing.T) {
	// Reset the singleton for testing
	defaultLogger = nil
	once = sync.Once{}
	t.Cleanup(func() {
		defaultLogger = nil
		once = sync.Once{}
	})

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DEBUG", "1")

	Info("package level info")
	Warn("package level warn")
	Error("package level error")
	Debug("package level debug")
	LogPerformance("package_operation", time.Now())

	content, err := os.ReadFile(filepath.Join(dir, debugLogFile))
	if err != nil {
		t.Fatalf("Expected debug log file to be created: %v", err)
	}
	if !strings.Contains(string(content), "package level debug") {
		t.Errorf("Expected debug log file to contain debug line, got: %s", content)
	}
}

func TestSetDefault_RoutesPackageLevelFunctions(t *testing.T) {
	defaultLogger = nil
	once = sync.Once{}
	t.Cleanup(func() {
		defaultLogger = nil
		once = sync.Once{}
	})

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("DEBUG", "1")

	appLogger, buf := NewTestLogger()
	SetDefault(appLogger)

	if GetDefault() != appLogger {
		t.Fatal("Expected GetDefault() to return the logger passed to SetDefault")
	}

	Info("package level info")
	Debug("package level debug")

	output := buf.String()
	if !strings.Contains(output, "package level info") || !strings.Contains(output, "package level debug") {
		t.Errorf("Expected package-level lines in the app logger, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(dir, debugLogFile)); !os.IsNotExist(err) {
		t.Errorf("Expected no second logger to open %s, stat err = %v", debugLogFile, err)
	}
}

func TestGetDefault_Singleton(t *testing.T) {
	// Reset the singleton for testing
	defaultLogger = nil
	once = sync.Once{}

	logger1 := GetDefault()
	logger2 := GetDefault()

	if logger1 != logger2 {
		t.Error("Expected GetDefault() to return the same instance (singleton)")
	}
}

// Benchmark tests
func BenchmarkInfo(b *testing.B) {
	logger, _ := NewTestLogger()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Info("benchmark message", "iteration", i)
	}
}

func BenchmarkDebug(b *testing.B) {
	logger, _ := NewTestLogger()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logger.Debug("benchmark debug message", "iteration", i)
	}
}
