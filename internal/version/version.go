package version

// Version is stamped by the release workflow via -ldflags.
var Version = "0.4.0-dev"
