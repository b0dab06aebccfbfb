// Package interceptor hooks the capture pipeline into inbound surfaces:
// HTTP handlers, render operations and CLI commands.
package interceptor
