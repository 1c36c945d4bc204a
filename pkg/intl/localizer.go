package intl

import (
	"context"
	"errors"

	"github.com/iota-uz/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

type localizerKey struct{}
type localeKey struct{}

var ErrNoLocalizer = errors.New("localizer not found in context")

// WithLocalizer attaches a localizer to the context.
func WithLocalizer(ctx context.Context, l *i18n.Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

// UseLocalizer returns the localizer stored in the context, when available.
func UseLocalizer(ctx context.Context) (*i18n.Localizer, bool) {
	l, ok := ctx.Value(localizerKey{}).(*i18n.Localizer)
	return l, ok
}

// MustUseLocalizer panics when the context carries no localizer. Request
// middleware always installs one, so a miss is a wiring bug.
func MustUseLocalizer(ctx context.Context) *i18n.Localizer {
	l, ok := UseLocalizer(ctx)
	if !ok {
		panic(ErrNoLocalizer)
	}
	return l
}

// WithLocale attaches the resolved locale tag to the context.
func WithLocale(ctx context.Context, locale language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// UseLocale returns the locale stored in the context, falling back to
// the given default.
func UseLocale(ctx context.Context, fallback language.Tag) language.Tag {
	locale, ok := ctx.Value(localeKey{}).(language.Tag)
	if !ok {
		return fallback
	}
	return locale
}
