// Package audit records unlock sessions to a JSON Lines log in the user
// config directory. Entries note who unlocked what and how the session
// ended, so a restored tree can be traced back to the run that touched it.
// Logging is best effort: an unwritable log never blocks an unlock.
package audit
