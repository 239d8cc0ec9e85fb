// Package domain defines the presence types and the narrow interfaces
// the transport layer uses to talk to the core.
package domain
