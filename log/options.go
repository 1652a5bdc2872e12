package log

import "go.uber.org/zap/zapcore"

type Options struct {
	//log level, the optional value is DebugLevel InfoLevel WarnLevel ErrorLevel
	level zapcore.Level
	//use console encoding instead of json
	console bool
	//time layout
	timeLayout string
	//init the named
	name string
}

func (o *Options) WithLevel(level zapcore.Level) *Options {
	o.level = level
	return o
}

func (o *Options) WithConsole(console bool) *Options {
	o.console = console
	return o
}

func (o *Options) WithTimeLayout(timeLayout string) *Options {
	o.timeLayout = timeLayout
	return o
}

func (o *Options) WithNamed(name string) *Options {
	o.name = name
	return o
}

func DefaultOptions() *Options {
	return &Options{
		level:      zapcore.InfoLevel,
		timeLayout: "02/Jan/2006:15:04:05 -0700",
	}
}
