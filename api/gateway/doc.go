// Package gateway implements the HTTP routes of the Creator Hub gateway and
// a Go client for them.
//
// Handler translates JSON requests into contract calls, pinning uploads and
// key distribution, and maps failures to {"detail": ...} responses using
// errors.Is on the sentinels in package interfaces.
package gateway
