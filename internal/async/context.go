package async

import "context"

type strandKey struct{}

// WithStrand tags ctx with the strand the caller is currently executing
// on. EnsureOnStrand tags the ctx it hands to fn; Strand.Run, Submit and
// Post take no context and tag nothing, so code running inside them must
// tag its own ctx with WithStrand for a nested EnsureOnStrand on the same
// strand to run inline.
func WithStrand(ctx context.Context, s *Strand) context.Context {
	return context.WithValue(ctx, strandKey{}, s)
}

func currentStrand(ctx context.Context) *Strand {
	s, _ := ctx.Value(strandKey{}).(*Strand)
	return s
}

// EnsureOnStrand runs fn with the guarantee that it executes on s: if ctx
// shows the caller is already on s, fn runs inline (a no-op reschedule);
// otherwise the call blocks while fn is posted to s and run there. Either
// way fn observes a ctx tagged with s, so nested EnsureOnStrand calls for
// the same strand stay inline.
func (s *Strand) EnsureOnStrand(ctx context.Context, fn func(context.Context)) {
	if currentStrand(ctx) == s {
		fn(ctx)
		return
	}
	s.Run(func() {
		fn(WithStrand(ctx, s))
	})
}
