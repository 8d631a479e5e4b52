package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given the Logger package", t, func() {
		Convey("New function", func() {
			Convey("When creating a logger with console output only", func() {
				var buf bytes.Buffer
				logger, err := newWithWriter("info", "", &buf)

				Convey("It should write to the console writer", func() {
					So(err, ShouldBeNil)
					So(logger, ShouldNotBeNil)

					logger.Infof("upload %s", "photo.png")
					logger.Sync()
					So(buf.String(), ShouldContainSubstring, "upload photo.png")
					So(buf.String(), ShouldContainSubstring, "INFO")
				})
			})

			Convey("When creating a logger with a valid log file", func() {
				tempDir, err := os.MkdirTemp("", "logger_test")
				So(err, ShouldBeNil)
				defer os.RemoveAll(tempDir)

				logFile := filepath.Join(tempDir, "logs", "fileup.log")
				var buf bytes.Buffer
				logger, err := newWithWriter("debug", logFile, &buf)

				Convey("It should create the log directory and file", func() {
					So(err, ShouldBeNil)

					logger.Debug("Test debug log")
					logger.Close()

					content, err := os.ReadFile(logFile)
					So(err, ShouldBeNil)
					So(string(content), ShouldContainSubstring, `"msg":"Test debug log"`)
				})
			})

			Convey("When creating a logger with an invalid log level", func() {
				var buf bytes.Buffer
				logger, err := newWithWriter("invalid", "", &buf)

				Convey("It should default to Info level", func() {
					So(err, ShouldBeNil)

					logger.Debug("hidden")
					logger.Info("shown")
					logger.Sync()
					So(buf.String(), ShouldNotContainSubstring, "hidden")
					So(buf.String(), ShouldContainSubstring, "shown")
				})
			})

			Convey("When creating a logger with an invalid log file path", func() {
				logger, err := New("info", "/proc/invalid/path/test.log")

				Convey("It should return an error", func() {
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, "failed to create log directory")
					So(logger, ShouldBeNil)
				})
			})
		})

		Convey("Nop and Close", func() {
			Convey("It should not panic", func() {
				logger := Nop()
				So(func() { logger.Warnf("ignored %d", 1) }, ShouldNotPanic)
				So(func() { logger.Close() }, ShouldNotPanic)
			})
		})
	})
}
