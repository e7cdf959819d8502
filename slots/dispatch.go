package slots

// Dispatcher is the outbound channel for messages shown to the user.
type Dispatcher interface {
	Utter(text string)
}

// CollectingDispatcher keeps messages in emission order.
type CollectingDispatcher struct {
	Messages []string
}

// Utter appends text, ignoring empty messages.
func (d *CollectingDispatcher) Utter(text string) {
	if text == "" {
		return
	}
	d.Messages = append(d.Messages, text)
}

// Logger is the observability sink injected into every component.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

func orNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}
