// Package logging provides debugging and development utilities for the RMI
// bridge.
//
// This file contains debug functions that provide detailed location
// information for troubleshooting and development. Debug output includes
// file names, line numbers, and function names to help identify issues
// during development.
//
// Debug Mode:
// All debug functions check config.DEBUG_MODE. DebugPrint produces no
// output when it is off; DebugError and DebugPanic still log a bare
// message, and DebugPanic panics only when it is on.
// Set the DEBUG environment variable to "true" to enable debug logging.
package logging

import (
	"log"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/shaply/rmibridge/internal/config"
)

// DebugPrint automatically gets file, line, and function info.
func DebugPrint(format string, args ...interface{}) {
	if !config.DEBUG_MODE {
		return
	}

	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		log.Printf("DEBUG: "+format+"\n", args...)
		return
	}

	filename := filepath.Base(file)
	funcName := getShortFuncName(runtime.FuncForPC(pc).Name())

	log.Printf("[%s:%d %s]: "+format+"\n", append([]interface{}{filename, line, funcName}, args...)...)
}

// DebugError prints an error with file/line info when debug mode is on,
// and a bare message otherwise.
func DebugError(err error) {
	if !config.DEBUG_MODE {
		log.Printf("ERROR: %v\n", err)
		return
	}

	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		log.Printf("ERROR: %v\n", err)
		return
	}

	filename := filepath.Base(file)
	funcName := getShortFuncName(runtime.FuncForPC(pc).Name())

	log.Printf("ERROR [%s:%d %s]: %v\n", filename, line, funcName, err)
}

// DebugPanic logs a critical condition; it only actually panics when debug
// mode is enabled, so a misbehaving production bridge degrades rather than
// crashes.
func DebugPanic(format string, args ...interface{}) {
	if !config.DEBUG_MODE {
		log.Printf("CRITICAL ERROR (would panic in debug): "+format, args...)
		return
	}

	pc, file, line, ok := runtime.Caller(1)
	if !ok {
		log.Panicf("PANIC: "+format, args...)
		return
	}

	filename := filepath.Base(file)
	funcName := getShortFuncName(runtime.FuncForPC(pc).Name())

	log.Panicf("PANIC [%s:%d %s]: "+format,
		append([]interface{}{filename, line, funcName}, args...)...)
}

func getShortFuncName(fullName string) string {
	if lastSlash := strings.LastIndex(fullName, "/"); lastSlash >= 0 {
		fullName = fullName[lastSlash+1:]
	}
	if lastDot := strings.LastIndex(fullName, "."); lastDot >= 0 {
		return fullName[lastDot+1:]
	}
	return fullName
}
