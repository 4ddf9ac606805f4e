// Package buildinfo exposes version information for relaychat binaries.
//
// Version, Commit and BuildTime are set through ldflags:
//
//	go build -ldflags "-X github.com/yndnr/relaychat-go/internal/infra/buildinfo.Version=v0.3.0" ./cmd/relaychat-server
//
// When they are not, the VCS stamp recorded by the Go toolchain is used.
package buildinfo
