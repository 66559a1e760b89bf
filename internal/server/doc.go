// Package server exposes a Studio over HTTP for a browser front end.
package server
