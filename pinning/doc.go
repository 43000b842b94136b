// Package pinning relays already-encrypted payloads to an IPFS pinning
// service and derives the addressing information returned to the frontend.
//
// The relay is byte-transparent: it never inspects, encrypts or decrypts the
// payload. Three pinners are provided:
//
//   - PinataPinner: Pinata's pinFileToIPFS endpoint, authenticated by a JWT
//   - KuboPinner: a self-hosted IPFS node's HTTP API
//   - S3Pinner: an S3-compatible bucket that pins objects to IPFS and reports
//     the CID in the object's metadata
//
// Uploads are attempted exactly once; a rejection is surfaced to the caller.
package pinning
