// Package logging provides structured logging for essctl.
//
// This package wraps a process-wide zap logger. Logging is silent unless a
// level is given with --log-level or the ESSCTL_LOG_LEVEL environment
// variable, so normal command output is never interleaved with log lines.
//
// # Log Levels
//
//   - Debug: every request to the switch, raw page dumps
//   - Info: session login and logout, writes issued
//   - Warn: retries, verification mismatches
//   - Error: failed operations
//
// # Credentials
//
// LogRequest runs paths through RedactPath, so the login query never shows
// the password:
//
//	logging.LogRequest("POST", "logon.cgi?username=admin&password=secret&cpassword=&logon=Login", 200, 512)
//	// path=logon.cgi?username=admin&password=REDACTED&cpassword=REDACTED&logon=Login
//
// Output goes to stderr in zap's console format.
package logging
