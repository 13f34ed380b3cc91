//go:build verbose_vulkan_creation

package vulqueno

import (
	"os"

	"github.com/sirupsen/logrus"
)

var creationLog = &logrus.Logger{
	Out:       os.Stdout,
	Formatter: &logrus.TextFormatter{DisableTimestamp: true},
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

func logCreation(rt *Runtime) {
	for _, line := range creationDiagnostics(rt) {
		creationLog.Info(line)
	}
}
