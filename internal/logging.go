package internal

import (
	"os"

	"github.com/op/go-logging"
)

var Log = logging.MustGetLogger("remirror")

const logFormat = "%{color}%{time:15:04:05} %{level:.4s}%{color:reset} %{message}"

func InitLogging(level int) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, logging.MustStringFormatter(logFormat))
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.Level(level), "")
	logging.SetBackend(leveled)
}
