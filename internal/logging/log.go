//
// FrankyGo - UCI chess engine in GO for learning purposes
//
// MIT License
//
// Copyright (c) 2018-2020 Frank Kopp
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//

// Package logging wraps github.com/op/go-logging with the handful of
// per-subsystem loggers the engine uses: a standard log for setup/teardown,
// a search trace log (file-backed, usually left at INFO), a UCI trace log,
// and a test log.
package logging

import (
	"os"

	"github.com/op/go-logging"

	"github.com/corvidchess/corvid/internal/config"
)

var standardLog *logging.Logger
var searchLog *logging.Logger
var uciLog *logging.Logger
var testLog *logging.Logger
var uciLogFile *os.File

var standardFormat = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{shortfile:18s} %{level:7s}:  %{message}`,
)

// GetLog returns the standard logger, creating it on first use.
func GetLog() *logging.Logger {
	if standardLog == nil {
		standardLog = logging.MustGetLogger("standard")
		backend := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(os.Stdout, "", 0), standardFormat))
		backend.SetLevel(levelOf(config.Settings.Log.LogLvl), "")
		standardLog.SetBackend(backend)
	}
	return standardLog
}

// GetSearchLog returns the search trace logger. This is the logger the
// search recursion calls into when its internal tracing flag is on; it is
// deliberately separate from the standard log so a verbose search trace
// never drowns out setup/UCI messages.
func GetSearchLog() *logging.Logger {
	if searchLog == nil {
		searchLog = logging.MustGetLogger("search")
		backend := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(os.Stdout, "", 0), standardFormat))
		backend.SetLevel(levelOf(config.Settings.Log.SearchLogLvl), "")
		searchLog.SetBackend(backend)
	}
	return searchLog
}

// GetUciLog returns the UCI protocol logger, also mirrored to a file so a
// GUI's stdin/stdout traffic can be replayed after a crash.
func GetUciLog() *logging.Logger {
	if uciLog == nil {
		uciLog = logging.MustGetLogger("uci")
		stdoutBackend := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(os.Stdout, "", 0), standardFormat))
		stdoutBackend.SetLevel(levelOf(config.Settings.Log.UciLogLvl), "")
		backends := []logging.Backend{stdoutBackend}
		if f, err := os.OpenFile("corvid_uci.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			uciLogFile = f
			fileBackend := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(f, "", 0), standardFormat))
			fileBackend.SetLevel(levelOf(config.Settings.Log.UciLogLvl), "")
			backends = append(backends, fileBackend)
		}
		logging.SetBackend(backends...)
		uciLog.SetBackend(logging.MultiLogger(backends...))
	}
	return uciLog
}

// GetTestLog returns a quiet logger for use in _test.go files.
func GetTestLog() *logging.Logger {
	if testLog == nil {
		testLog = logging.MustGetLogger("test")
		backend := logging.AddModuleLevel(logging.NewBackendFormatter(logging.NewLogBackend(os.Stdout, "", 0), standardFormat))
		backend.SetLevel(logging.ERROR, "")
		testLog.SetBackend(backend)
	}
	return testLog
}

func levelOf(name string) logging.Level {
	lvl, err := logging.LogLevel(name)
	if err != nil {
		return logging.INFO
	}
	return lvl
}
