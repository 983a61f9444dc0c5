package ctxutil

import "context"

type traceDataKey struct{}

// TraceData is attached once per request by the HTTP middleware.
type TraceData struct {
	TraceID   string
	RequestID string
	// SessionID is the raw :sessionId path parameter, unvalidated.
	SessionID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

func RequestID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.RequestID
	}
	return ""
}

func SessionID(ctx context.Context) string {
	if td := GetTraceData(ctx); td != nil {
		return td.SessionID
	}
	return ""
}
