// Package dedupe remembers recently seen keys so repeated activity events
// can be dropped within a configurable window.
package dedupe
