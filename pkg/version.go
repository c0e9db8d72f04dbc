package devlog

// Version is the current release of devlog.
const Version = "0.1.0"
