// Package clientip resolves the client IP address from proxy headers.
//
// Headers are consulted in priority order: X-Forwarded-For (leftmost entry,
// the original client), CF-Connecting-IP (Cloudflare), then X-Real-IP
// (nginx and other reverse proxies). When no header yields a candidate the
// sentinel "unknown-ip" is returned; candidates that are not dotted-quad
// IPv4 addresses are normalized to "invalid-ip" so downstream identifiers
// stay well-formed regardless of header spoofing.
package clientip
