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

// Package version exposes the engine's build identity for the UCI "id"
// response and the command line's -version flag.
package version

// these are overridable at build time via -ldflags, e.g.
//   -X github.com/corvidchess/corvid/internal/version.gitCommit=<sha>
var (
	programName = "Corvid"
	majorMinor  = "1.0"
	gitCommit   = "dev"
)

// Version returns the engine's version string as shown in UCI's "id name"
// response and the -version command line flag.
func Version() string {
	if gitCommit == "dev" {
		return majorMinor + "-dev"
	}
	return majorMinor + "+" + gitCommit
}

// Name returns the engine's display name.
func Name() string {
	return programName
}
