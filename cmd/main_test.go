package cmd

import (
	"io"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestMain(m *testing.M) {
	if os.Getenv("DEBUG_TESTS") == "" {
		logrus.SetLevel(logrus.FatalLevel)
	}
	os.Exit(m.Run())
}

// captureDebugLogs raises the standard logger to debug and records every
// entry until the test ends.
func captureDebugLogs(t *testing.T) *test.Hook {
	t.Helper()
	prevLevel := logrus.GetLevel()
	prevOut := logrus.StandardLogger().Out
	hook := test.NewLocal(logrus.StandardLogger())
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetOutput(io.Discard)
	t.Cleanup(func() {
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
		logrus.SetLevel(prevLevel)
		logrus.SetOutput(prevOut)
	})
	return hook
}

// loggedMessages returns the messages of all captured entries.
func loggedMessages(hook *test.Hook) []string {
	var msgs []string
	for _, e := range hook.AllEntries() {
		msgs = append(msgs, e.Message)
	}
	return msgs
}
