package server

import "errors"

var (
	ErrMissingAddress       = errors.New("server address is required")
	ErrServerAlreadyRunning = errors.New("server is already running")
	ErrListen               = errors.New("failed to listen")
	ErrHTTPServer           = errors.New("http server error")
	ErrHTTPShutdown         = errors.New("http shutdown error")
	ErrFailedLoadCert       = errors.New("failed to load certificate")
)
