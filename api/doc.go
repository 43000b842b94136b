/*
Package api defines the wire contract of the Creator Hub gateway.

It holds the server configuration shared by the binaries and the JSON
request and response models of every route. Request models validate
themselves; a failed validation is reported to the caller as 400.

The gateway subpackage implements the routes (Handler) and a Go client
for them (Client).

# Routes

	POST /ipfs/upload              multipart "file" -> {cid, ipfs_uri, gateway_url}
	POST /creator/register         RegisterCreatorRequest -> OKResponse
	POST /creator/update           RegisterCreatorRequest -> OKResponse
	GET  /creator/{address}        -> CreatorResponse
	POST /content/mint             MintContentRequest -> MintContentResponse
	GET  /content/{content_id}     -> ContentResponse
	POST /subscription/subscribe   SubscribeRequest -> OKResponse
	POST /subscription/check       SubscriptionCheckRequest -> SubscriptionCheckResponse
	POST /content/buy              BuyContentRequest -> OKResponse
	POST /access/check             AccessCheckRequest -> AccessCheckResponse
	POST /content/key              ContentKeyRequest -> ContentKeyResponse

# Errors

Failures are returned as {"detail": "..."} with status 400 for invalid
input, 403 when the contract denies access, 404 when no key is stored
and 500 for everything else.
*/
package api
