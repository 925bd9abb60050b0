// Package cli implements the interactive recipeshare command line client.
//
// The REPL reads one command per line and dispatches it to App, which talks
// to the API through client.Client. Commands that need an account prompt
// for login first; passwords are read without echo.
package cli
