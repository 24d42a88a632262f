// Package config loads and validates the YAML scenario files that
// configure a venuecore run: the room/furniture request for the layout
// solver, and the tunables for the transport and optimization engines.
package config
