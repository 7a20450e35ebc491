// Package destroy tears a site down from its manifest.
//
// It runs the compensations of the provisioning step catalogue in reverse
// order, skipping every step whose resources the manifest does not record.
// DNS records, the DNS zone and the source repository are left in place.
package destroy
