// Command captionsync replays captured caption payloads through the
// stabilization pipeline and manages configuration.
package main
