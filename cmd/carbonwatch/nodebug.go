//go:build !debug
// +build !debug

package main

import (
	"github.com/carbonwatch/carbonwatch/internal/store"
)

func startDebugLogger(s *store.Store) {
}
