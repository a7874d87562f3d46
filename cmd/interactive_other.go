//go:build !windows

package main

// enableVT is a no-op; other terminals interpret ANSI sequences natively.
func enableVT() {}
