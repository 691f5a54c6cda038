package auth

import (
	"context"

	"github.com/mind-engage/safety-quiz/internal/quiz"
	"github.com/mind-engage/safety-quiz/internal/rbac"
)

type ctxKey string

const (
	ctxKeySub ctxKey = "sub"
	ctxKeyOrg ctxKey = "org"
)

func WithSubject(ctx context.Context, sub string) context.Context {
	return context.WithValue(ctx, ctxKeySub, sub)
}

func SubjectFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeySub); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func WithOrganization(ctx context.Context, org string) context.Context {
	return context.WithValue(ctx, ctxKeyOrg, org)
}

func OrganizationFromContext(ctx context.Context) string {
	if v := ctx.Value(ctxKeyOrg); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GraderFromContext returns the authenticated user as a quiz grader.
func GraderFromContext(ctx context.Context) quiz.Grader {
	return quiz.Grader{
		Username:     SubjectFromContext(ctx),
		Role:         rbac.RoleFromContext(ctx),
		Organization: OrganizationFromContext(ctx),
	}
}
