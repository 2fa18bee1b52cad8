package logging

// Discard is a Logger that drops everything. Tests use it when log output is
// irrelevant to the assertion.
var Discard Logger = discardLogger{}

type discardLogger struct{}

func (discardLogger) Debug(string, ...Field) {}
func (discardLogger) Info(string, ...Field)  {}
func (discardLogger) Warn(string, ...Field)  {}
func (discardLogger) Error(string, ...Field) {}
func (discardLogger) Fatal(string, ...Field) {}

func (d discardLogger) WithError(error) Logger               { return d }
func (d discardLogger) WithField(string, interface{}) Logger { return d }
func (d discardLogger) WithFields(...Field) Logger           { return d }
