// Package surface renders designs in an isolated headless-browser page and
// keeps that page in step with the host's edits.
//
// The host talks to the page only through a Channel carrying typed
// messages: update and checkReady flow in, ready and readyStatus flow back.
// Design markup never gets a handle on the host: the page runs under a
// Content-Security-Policy that only admits the bootstrap script.
//
// A Surface moves through Unmounted, Loading and Ready. Updates are
// fire-and-forget and the latest one wins. WhenReady waits for the newest
// update to settle but gives up after a bounded timeout, so a stuck page
// never blocks an export.
package surface
