package response

import (
	"net/http"

	"github.com/zanix-io/auth/core/handler"
)

// Render executes the given response with the provided context.
// Rendering failures degrade to a plain 500.
func Render(ctx handler.Context, resp handler.Response) {
	if err := resp(ctx.ResponseWriter(), ctx.Request()); err != nil {
		http.Error(ctx.ResponseWriter(), err.Error(), http.StatusInternalServerError)
	}
}
