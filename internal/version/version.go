// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Config file, cobra commands, transit series and change events
// 0.2.0 - JPL Horizons longitudes with analytic fallback, --ephem flag
// 0.1.0 - Initial release: chart tables, aspect grid, midpoints, JSON export
