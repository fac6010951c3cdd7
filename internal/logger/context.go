package logger

import "context"

type ctxKey int

const (
	jobKey ctxKey = iota
	requestKey
)

// WithJob tags every line logged with ctx by the join code of a job.
func WithJob(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, jobKey, code)
}

// WithRequest tags every line logged with ctx by an HTTP request id.
func WithRequest(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestKey, id)
}

func jobFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	code, _ := ctx.Value(jobKey).(string)
	return code
}

func requestFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestKey).(string)
	return id
}
