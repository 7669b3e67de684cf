/*
 * FrankyGo - UCI chess engine in GO for learning purposes
 *
 * MIT License
 *
 * Copyright (c) 2018-2020 Frank Kopp
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package config

// logConfiguration holds the per-subsystem log levels. Values are the
// go-logging level names ("debug", "info", "notice", "warning", "error",
// "critical") so they read naturally from a toml file.
type logConfiguration struct {
	LogLvl       string
	SearchLogLvl string
	UciLogLvl    string
	TestLogLvl   string
	LogPath      string
}

// LogLevels maps the command line's log level flag values to go-logging's
// numeric levels, mirroring github.com/op/go-logging's own Level constants
// so cmd line overrides and config-file values share one vocabulary.
var LogLevels = map[string]int{
	"critical": 0,
	"error":    1,
	"warning":  2,
	"notice":   3,
	"info":     4,
	"debug":    5,
}

func init() {
	Settings.Log.LogLvl = "info"
	Settings.Log.SearchLogLvl = "info"
	Settings.Log.UciLogLvl = "info"
	Settings.Log.TestLogLvl = "error"
	Settings.Log.LogPath = "./logs"
}

// sets defaults for configurations here in case a configuration
// is not available from the config file
func setupLogLvl() {
	if Settings.Log.LogLvl == "" {
		Settings.Log.LogLvl = "info"
	}
	if Settings.Log.SearchLogLvl == "" {
		Settings.Log.SearchLogLvl = "info"
	}
	if Settings.Log.UciLogLvl == "" {
		Settings.Log.UciLogLvl = "info"
	}
	if Settings.Log.TestLogLvl == "" {
		Settings.Log.TestLogLvl = "error"
	}
}
