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

package util

import (
	"os"
	"path/filepath"
)

// ResolveFile resolves a possibly relative path against the directory the
// running executable lives in, so config/book/log paths work the same way
// whether the engine is launched from a GUI with an arbitrary working
// directory or from a shell in the project root.
func ResolveFile(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	exe, err := os.Executable()
	if err != nil {
		return filepath.Clean(path), err
	}
	return filepath.Clean(filepath.Join(filepath.Dir(exe), path)), nil
}

// ResolveFolder resolves path like ResolveFile and ensures the directory
// (the path itself if it names a directory, else its parent) exists,
// creating it if necessary.
func ResolveFolder(path string) (string, error) {
	resolved, err := ResolveFile(path)
	if err != nil {
		return resolved, err
	}
	dir := resolved
	if ext := filepath.Ext(resolved); ext != "" {
		dir = filepath.Dir(resolved)
	}
	if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
		return resolved, mkErr
	}
	return resolved, nil
}

// ResolveCreateFolder is an alias of ResolveFolder kept for call sites that
// spell out the create-if-missing behavior explicitly.
func ResolveCreateFolder(path string) (string, error) {
	return ResolveFolder(path)
}
