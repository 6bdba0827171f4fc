package testutil

import (
	"bytes"
	"context"
	"io"
)

func withUser(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ctxUser{}, id)
}

func userFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ctxUser{}).(int64)
	return id
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
