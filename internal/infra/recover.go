package infra

import (
	"fmt"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
)

// GoRecoverable runs f, catching panics and restarting the job until the
// panic budget runs out. A negative maxPanics restarts forever; zero means
// one strike and the process exits.
func GoRecoverable(maxPanics int, id string, f func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		entry := log.WithField("job", id).WithField("origin", identifyPanic())
		entry.Errorf("job panicked: %v", r)
		if maxPanics == 0 {
			entry.Fatalln("panic budget exhausted, exiting")
		}
		if maxPanics > 0 {
			maxPanics--
		}
		entry.WithField("panics_left", maxPanics).Debugln("restarting job")
		go GoRecoverable(maxPanics, id, f)
	}()
	f()
}

// identifyPanic walks past the runtime frames of the recover machinery to the
// frame that actually blew up.
func identifyPanic() string {
	var pc [16]uintptr
	n := runtime.Callers(3, pc[:])

	var name, file string
	var line int
	for _, p := range pc[:n] {
		fn := runtime.FuncForPC(p)
		if fn == nil {
			continue
		}
		file, line = fn.FileLine(p)
		name = fn.Name()
		if !strings.HasPrefix(name, "runtime.") {
			break
		}
	}

	switch {
	case name != "":
		return fmt.Sprintf("%s:%d", name, line)
	case file != "":
		return fmt.Sprintf("%s:%d", file, line)
	}
	return fmt.Sprintf("pc:%x", pc)
}
