/*
Package httpserver implements the HTTP server of the Creator Hub gateway.

It owns the process-level concerns around the API routes: request logging,
panic recovery, request metrics, health and readiness probes, draining and
graceful shutdown. API routes are contributed by handlers implementing
RouteRegistrar.

# Health Endpoints

	GET /                 {"message": ...}
	GET /health           {"status": "ok"} while the process is up
	GET /livez            {"status": "alive"}
	GET /readyz           503 while draining
	GET /db-health        {"db_ok": bool} from a ping of the secret store
	GET /network-health   health of the network RPC endpoint, when configured
	GET /drain            mark the server not ready
	GET /undrain          mark the server ready again

The liveness endpoints never touch the store or the network, so they keep
answering while the database is unreachable.

# Lifecycle

	srv, err := httpserver.New(cfg, store, probe, gatewayHandler)
	srv.RunInBackground()
	<-sigCh
	srv.Shutdown()
*/
package httpserver
