package logging

import (
	"context"
)

type contextKey string

const (
	ConnectionIDKey contextKey = "connection_id"
	RequestIDKey    contextKey = "request_id"
	ServiceNameKey  contextKey = "service_name"
)

func WithConnectionID(ctx context.Context, connectionID string) context.Context {
	return context.WithValue(ctx, ConnectionIDKey, connectionID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithServiceName(ctx context.Context, serviceName string) context.Context {
	return context.WithValue(ctx, ServiceNameKey, serviceName)
}

func GetConnectionID(ctx context.Context) string {
	if id, ok := ctx.Value(ConnectionIDKey).(string); ok {
		return id
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

func GetServiceName(ctx context.Context) string {
	if serviceName, ok := ctx.Value(ServiceNameKey).(string); ok {
		return serviceName
	}
	return ""
}

func GetLogFields(ctx context.Context) []interface{} {
	fields := make([]interface{}, 0, 6)

	if id := GetConnectionID(ctx); id != "" {
		fields = append(fields, string(ConnectionIDKey), id)
	}

	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, string(RequestIDKey), id)
	}

	if serviceName := GetServiceName(ctx); serviceName != "" {
		fields = append(fields, string(ServiceNameKey), serviceName)
	}

	return fields
}
