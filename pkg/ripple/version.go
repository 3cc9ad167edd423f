// Package ripple holds module-level metadata.
package ripple

// Version is the current release version of the ripple module.
const Version = "0.1.0"
