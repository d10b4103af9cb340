// Package backend fetches the call and department lists the console offers
// from the management backend over HTTP.
package backend
