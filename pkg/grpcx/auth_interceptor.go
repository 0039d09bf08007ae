package grpcx

import (
	"context"
	"slices"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const bearerPrefix = "Bearer "

// TokenVerifier resolves a bearer token and returns ctx enriched with the caller identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (context.Context, error)
}

// AuthInterceptor rejects calls without a valid bearer token, except for public methods.
func AuthInterceptor(verifier TokenVerifier, public ...string) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		if slices.Contains(public, info.FullMethod) {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "md from incoming request")
		}

		token, ok := BearerToken(md.Get("authorization"))
		if !ok {
			return nil, status.Error(
				codes.Unauthenticated,
				"metadata doesn't contain authorization token",
			)
		}

		ctx, err := verifier.VerifyToken(ctx, token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "authorization token is not valid")
		}

		return handler(ctx, req)
	}
}

// BearerToken returns the first non-empty bearer token among header values.
func BearerToken(headers []string) (string, bool) {
	for _, h := range headers {
		if token, ok := strings.CutPrefix(h, bearerPrefix); ok && token != "" {
			return token, true
		}
	}
	return "", false
}
