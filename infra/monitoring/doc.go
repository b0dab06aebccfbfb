// Package monitoring binds the capture pipeline to the Sentry SDK.
//
// A Reporter owns one sentry.Hub. Init builds the client exactly once from
// configuration: release detection, process tags, in-app frame rules and the
// delivery transport are resolved there. Captures clone the hub so that
// concurrent requests never share a scope.
package monitoring
