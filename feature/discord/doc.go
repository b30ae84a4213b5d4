// Package discord is the gateway boundary. It maps live channel traffic and
// slash commands onto the tracker service and pages full channel history as a
// rescan source. Gateway payload types never leak past this package.
package discord
