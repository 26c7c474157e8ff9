package httpapi

import (
	"context"
	"net/http"
)

// serverBaseCtx is canceled when the daemon begins shutdown. Handlers derive
// their work contexts from it so in-flight generations stop emitting tokens
// instead of running to completion against a closing engine.
var serverBaseCtx = context.Background()

// SetBaseContext installs the daemon's shutdown context. nil resets to
// Background, which never cancels.
func SetBaseContext(ctx context.Context) {
	if ctx == nil {
		serverBaseCtx = context.Background()
		return
	}
	serverBaseCtx = ctx
}

// requestContext derives the context a handler hands to the manager. It
// follows the request context, so client disconnects cancel it and
// request-scoped values such as the request id stay visible, and it is
// additionally canceled when the daemon shuts down. The returned stop func
// detaches the shutdown hook and must be called when the handler returns.
func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(serverBaseCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
