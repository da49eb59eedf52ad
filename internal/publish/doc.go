// Package publish builds the externally reachable URL for a finished
// deliverable and renders it as a scannable QR image. When the server is
// bound to loopback or all interfaces, the LAN-routable address is
// preferred so the URL works from a phone on the same network.
package publish
