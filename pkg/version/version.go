package version

// Version is overwritten by -ldflags "-X github.com/c9s/zigzag/pkg/version.Version=..." in release builds
var Version = "v0.1.0-dev"
