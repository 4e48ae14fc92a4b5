package version

// Version is the release version stamped into reports and the CLI banner.
const Version = "1.0.0"
