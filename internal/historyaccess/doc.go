// Package historyaccess gives the CLI one view of the request journal whether
// the daemon is running or not.
package historyaccess
