package tracing

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func GinMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}

// WrapTransport makes outgoing requests carry a client span and traceparent.
func WrapTransport(base http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(base)
}
