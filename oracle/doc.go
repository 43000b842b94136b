// Package oracle implements the client side of the Creator Hub contract.
//
// The contract is the authority for creator registration, content minting,
// subscriptions, purchases and, most importantly, access control. The gateway
// never decides access itself; it asks the contract through has_access.
//
// Key components:
//   - CLIInvoker: spawns the contract-invocation CLI once per call and
//     interprets its exit code, standard output and standard error
//   - CreatorHubClient: typed wrappers for each contract method, choosing the
//     signer each method requires
//   - RPCProbe: JSON-RPC health probe of the network's RPC endpoint
//
// Invocation command line:
//
//	stellar contract invoke --network <net> --source-account <signer> --id <contract> -- <method> [--flag value]...
//
// State-changing methods (register_creator, update_creator, mint_content,
// subscribe, buy_content) are signed by the acting account so that the
// contract's require_auth checks pass. Read-only methods (has_access,
// is_subscribed, get_creator, get_content) are signed by the configured
// administrative identity.
//
// Invocations are blocking and never retried: a single failure of the
// external process surfaces immediately to the caller.
package oracle
