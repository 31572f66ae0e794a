// Package app contains the core application logic. It defines the main App
// struct, its startup options, and the fitting pipeline lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
package app
