// Package tags derives the tag expression handed to the BDD runner from the
// command line, the TAGS environment variable and the profile table.
package tags

import (
	"maps"
	"regexp"
	"strings"
)

// DefaultExpression selects everything not explicitly ignored.
const DefaultExpression = "not @ignore"

const EnvTags = "TAGS"

var defaultProfiles = map[string]string{
	"smoke":      "@smoke",
	"regression": "@regression",
	"login":      "@login",
}

var operatorRe = regexp.MustCompile(`\b(and|or|not)\b`)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Profiles returns a copy of the built-in profile table.
func Profiles() map[string]string {
	return maps.Clone(defaultProfiles)
}

// LooksLikeExpression reports whether a bare token reads as a tag expression:
// it starts with @ or uses and/or/not as a standalone word.
func LooksLikeExpression(token string) bool {
	return strings.HasPrefix(token, "@") || operatorRe.MatchString(token)
}

// Resolve uses the built-in profile table.
func Resolve(args []string, lookup LookupFunc) string {
	return NewResolver(nil).Resolve(args, lookup)
}

type Resolver struct {
	profiles map[string]string
}

// NewResolver returns a resolver whose profile table is the built-in one
// extended (or overridden) by extra.
func NewResolver(extra map[string]string) *Resolver {
	profiles := Profiles()
	for name, expr := range extra {
		profiles[name] = expr
	}

	return &Resolver{profiles: profiles}
}

// candidates holds the first value seen for each source. Values given
// through a flag outrank the ones picked up from bare tokens.
type candidates struct {
	explicitFlag string
	explicitBare string
	profileFlag  string
	profileBare  string
}

func (c *candidates) explicit() string {
	if c.explicitFlag != "" {
		return c.explicitFlag
	}

	return c.explicitBare
}

func (c *candidates) profile() string {
	if c.profileFlag != "" {
		return c.profileFlag
	}

	return c.profileBare
}

func fill(slot *string, v string) {
	if *slot == "" {
		*slot = v
	}
}

// Resolve returns the tag expression for args. Precedence is explicit tags,
// then profile, then the TAGS variable, then DefaultExpression.
func (r *Resolver) Resolve(args []string, lookup LookupFunc) string {
	c := r.scan(args)

	resolved := c.explicit()
	if resolved == "" {
		if name := c.profile(); name != "" {
			resolved = r.profiles[name]
		}
	}

	if resolved == "" && lookup != nil {
		if v, ok := lookup(EnvTags); ok {
			resolved = v
		}
	}

	resolved = trimOuterQuotes(resolved)
	if resolved == "" {
		return DefaultExpression
	}

	return resolved
}

func (r *Resolver) scan(args []string) candidates {
	var c candidates

	next := func(i int) string {
		if i+1 < len(args) {
			return args[i+1]
		}

		return ""
	}

	for i := 0; i < len(args); i++ {
		a := args[i]

		switch {
		case a == "--tags" || a == "-t":
			fill(&c.explicitFlag, next(i))
			i++
			continue
		case strings.HasPrefix(a, "--tags="):
			fill(&c.explicitFlag, strings.TrimPrefix(a, "--tags="))
			continue
		case a == "--profile" || a == "-p":
			fill(&c.profileFlag, next(i))
			i++
			continue
		}

		if strings.HasPrefix(a, "--") {
			continue
		}

		// a profile name wins over the expression check for the same token
		if _, ok := r.profiles[a]; ok {
			if c.profileBare == "" {
				c.profileBare = a
				continue
			}
		}

		if LooksLikeExpression(a) {
			fill(&c.explicitBare, a)
		}
	}

	return c
}

func trimOuterQuotes(s string) string {
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(s, q) {
			s = s[1:]
			break
		}
	}

	for _, q := range []string{`"`, `'`} {
		if strings.HasSuffix(s, q) {
			s = s[:len(s)-1]
			break
		}
	}

	return strings.TrimSpace(s)
}
