//go:build !unix && !windows

package search

import "os"

// Platforms without advisory locks fall back to the in-process mutex only.
func tryLock(f *os.File) error { return nil }

func unlock(f *os.File) error { return nil }
