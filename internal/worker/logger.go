package worker

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
)

// loggerAdapter routes Watermill's log output to a [log.Logger].
// Debug and trace messages are dropped.
type loggerAdapter struct {
	log    *log.Logger
	fields watermill.LogFields
}

var _ watermill.LoggerAdapter = (*loggerAdapter)(nil)

func newLoggerAdapter(l *log.Logger) *loggerAdapter {
	return &loggerAdapter{log: l}
}

func (l *loggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	if err != nil {
		msg += ": " + err.Error()
	}
	l.print("ERROR", msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.print("INFO", msg, fields)
}

func (*loggerAdapter) Debug(string, watermill.LogFields) {}

func (*loggerAdapter) Trace(string, watermill.LogFields) {}

func (l *loggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &loggerAdapter{
		log:    l.log,
		fields: l.fields.Add(fields),
	}
}

func (l *loggerAdapter) print(level, msg string, fields watermill.LogFields) {
	fields = l.fields.Add(fields)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(level)
	sb.WriteString(" ")
	sb.WriteString(msg)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, fields[k])
	}
	l.log.Print(sb.String())
}
