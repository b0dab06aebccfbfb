//go:build !unix

package monitoring

// Inodes are not exposed on this platform.
func executableInode() string { return "" }
