// Package version holds this server's fixed, reported version, checked
// against a workspace manifest's language constraint.
package version

// Version is the server's fixed semantic version.
const Version = "1.0.0"
