package seedbed

// Version is the library version, overridable at build time with
// -ldflags "-X github.com/aretw0/seedbed.Version=...".
var Version = "0.1.0"
