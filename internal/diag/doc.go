// Package diag defines the diagnostic model shared by the inspection,
// validation and driver layers: codes, severities, spans into the loaded
// sources, and a capped bag that collects diagnostics per package.
package diag
