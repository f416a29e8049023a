package model

import "context"

type authContextKey struct{}

// AuthInfo リクエストの認証情報
type AuthInfo struct {
	UserID string
	Token  string
}

// WithAuth 認証情報をコンテキストに格納する
func WithAuth(ctx context.Context, info AuthInfo) context.Context {
	return context.WithValue(ctx, authContextKey{}, info)
}

// AuthFrom コンテキストから認証情報を取り出す
func AuthFrom(ctx context.Context) (AuthInfo, bool) {
	info, ok := ctx.Value(authContextKey{}).(AuthInfo)
	return info, ok
}
