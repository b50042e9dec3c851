package service

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrTimerRunning  = errors.New("timer already started")
	ErrTimerNotFound = errors.New("timer not started")
	ErrNoTimeLogs    = errors.New("no time logs found")
)
