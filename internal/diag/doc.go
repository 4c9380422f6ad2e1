// Package diag defines the compiler's diagnostic model: severities, a closed
// code space per subsystem, and a Bag that phases append to without aborting.
package diag
