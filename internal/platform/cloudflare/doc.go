// Package cloudflare provides a minimal Cloudflare API client for the zone
// and DNS records that front a site.
package cloudflare
