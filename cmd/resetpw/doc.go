// Command resetpw provides a CLI utility for password management in the
// slideshow viewer.
//
// Usage:
//
//	resetpw <command>
//
// Commands:
//
//	reset   Reset the password for the configured user account.
//	        This requires that a password has already been set up via
//	        the control API. All existing sessions will be invalidated.
//
//	status  Display whether a password is configured. If no password
//	        exists, initial setup must be done via the control API.
//
// Environment:
//
//	DATABASE_DIR - Path to database directory (default: /database)
//
// The slideshow viewer uses a single-user authentication model. Initial
// password setup goes through the /api/auth/setup endpoint; this utility
// only resets an existing password or reports configuration status.
package main
