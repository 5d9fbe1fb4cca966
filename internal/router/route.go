package router

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// paramDef matches <type:name> and <name> placeholders inside a route pattern.
var paramDef = regexp.MustCompile(`<(?:(\w+):)?(\w+)>`)

type converter struct {
	pattern string
	convert func(string) (any, bool)
}

var typeConverters = map[string]converter{
	"str": {
		pattern: `[^/]+`,
		convert: func(s string) (any, bool) { return s, true },
	},
	"int": {
		pattern: `\d+`,
		convert: func(s string) (any, bool) {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, false
			}
			return n, true
		},
	},
	"path": {
		pattern: `.+?`,
		convert: func(s string) (any, bool) { return s, true },
	},
}

// Route represents a single registered route with its compiled matcher and
// parameter converters.
type Route struct {
	Pattern  string
	Methods  []string
	Endpoint string
	Handler  Handler

	regex      *regexp.Regexp
	converters map[string]converter
	paramNames []string
}

func compileRoute(pattern string, methods []string, endpoint string, handler Handler) (*Route, error) {
	route := &Route{
		Pattern:    pattern,
		Methods:    normalizeMethods(methods),
		Endpoint:   endpoint,
		Handler:    handler,
		converters: map[string]converter{},
	}

	var b strings.Builder
	b.WriteString("^")

	last := 0
	for _, loc := range paramDef.FindAllStringSubmatchIndex(pattern, -1) {
		b.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))

		typeName := "str"
		if loc[2] >= 0 {
			typeName = pattern[loc[2]:loc[3]]
		}
		name := pattern[loc[4]:loc[5]]

		conv, ok := typeConverters[typeName]
		if !ok {
			conv = typeConverters["str"]
		}
		if _, dup := route.converters[name]; dup {
			return nil, fmt.Errorf("router: duplicate parameter %q in pattern %q", name, pattern)
		}
		route.converters[name] = conv
		route.paramNames = append(route.paramNames, name)

		fmt.Fprintf(&b, "(?P<%s>%s)", name, conv.pattern)
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))
	b.WriteString("$")

	regex, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("router: compile pattern %q: %w", pattern, err)
	}
	route.regex = regex
	return route, nil
}

// Match reports the converted parameters when path matches the route. A
// parameter whose value fails conversion (e.g. int overflow) is treated as a
// non-match rather than an error.
func (r *Route) Match(path string) (map[string]any, bool) {
	submatch := r.regex.FindStringSubmatch(path)
	if submatch == nil {
		return nil, false
	}

	params := make(map[string]any, len(r.paramNames))
	for i, name := range r.regex.SubexpNames() {
		if i == 0 || name == "" {
			continue
		}
		value, ok := r.converters[name].convert(submatch[i])
		if !ok {
			return nil, false
		}
		params[name] = value
	}
	return params, true
}

// AllowsMethod reports whether the route accepts the HTTP verb. HEAD requests
// fall back to GET handlers.
func (r *Route) AllowsMethod(method string) bool {
	method = strings.ToUpper(method)
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	if method == "HEAD" {
		for _, m := range r.Methods {
			if m == "GET" {
				return true
			}
		}
	}
	return false
}

// urlkitPath rewrites the pattern into go-urlkit placeholder syntax
// ("/users/<int:id>" becomes "/users/:id").
func (r *Route) urlkitPath() string {
	return paramDef.ReplaceAllString(r.Pattern, ":$2")
}

func normalizeMethods(methods []string) []string {
	if len(methods) == 0 {
		return []string{"GET"}
	}
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		if trimmed := strings.ToUpper(strings.TrimSpace(m)); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"GET"}
	}
	return out
}
