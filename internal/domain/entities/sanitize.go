package entities

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

var (
	// reKeyChars matches characters not allowed in type/status keys.
	reKeyChars = regexp.MustCompile(`[^a-z0-9_-]`)
	// reSlugSeparators matches runs of characters collapsed to a dash.
	reSlugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
)

// Fields is the set of writable relationship fields. A nil pointer
// means "not supplied" so updates can be partial; transport-only noise
// (submit buttons, tokens) simply has nowhere to go.
type Fields struct {
	Author  *int64
	Name    *string
	Slug    *string
	Content *string
	Type    *string
	Status  *string
	Parent  *int64
	Order   *int64
	FromID  *int64
	ToID    *int64
}

// Sanitize merges the supplied fields over base, coerces and cleans
// each value, and validates the result. Free text passes through an
// HTML-stripping sanitizer, keys through a slug-safe sanitizer, and
// the slug is derived from the name when absent. The write timestamps
// are always advanced to now.
//
// Returns ErrInvalidStatus when the status is outside {active,
// inactive}.
func Sanitize(base Relationship, f Fields, now time.Time) (Relationship, error) {
	r := base

	if f.Author != nil {
		r.Author = *f.Author
	}
	if f.Name != nil {
		r.Name = StripTags(*f.Name)
	}
	if f.Content != nil {
		r.Content = StripTags(*f.Content)
	}
	if f.Type != nil {
		r.Type = SanitizeKey(*f.Type)
	}
	if f.Status != nil {
		r.Status = Status(SanitizeKey(*f.Status))
	}
	if f.Parent != nil {
		r.Parent = *f.Parent
	}
	if f.Order != nil {
		r.Order = *f.Order
	}
	if f.FromID != nil {
		r.FromID = *f.FromID
	}
	if f.ToID != nil {
		r.ToID = *f.ToID
	}

	switch {
	case f.Slug != nil && *f.Slug != "":
		r.Slug = Slugify(*f.Slug)
	case r.Slug == "":
		r.Slug = Slugify(r.Name)
	}

	r.Modified = now
	r.Updated = now

	if r.Status != StatusActive && r.Status != StatusInactive {
		return r, ErrInvalidStatus
	}

	return r, nil
}

// StripTags removes HTML markup from s, keeping only text content.
func StripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	tok := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tok.Text())
		}
	}
	return strings.TrimSpace(b.String())
}

// SanitizeKey lowercases s and strips everything outside [a-z0-9_-].
func SanitizeKey(s string) string {
	return reKeyChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "")
}

// Slugify converts free text into a dash-separated slug.
func Slugify(s string) string {
	s = strings.ToLower(StripTags(s))
	s = reSlugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
