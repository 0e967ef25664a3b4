// Package factory selects a router adapter by name.
package factory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nimburion/correlation/pkg/server/router"
	ginadapter "github.com/nimburion/correlation/pkg/server/router/gin"
	gorillaadapter "github.com/nimburion/correlation/pkg/server/router/gorilla"
	nethttpadapter "github.com/nimburion/correlation/pkg/server/router/nethttp"
)

// DefaultType is used when no router type is configured.
const DefaultType = "nethttp"

var supported = map[string]func() router.Router{
	"nethttp": func() router.Router { return nethttpadapter.NewRouter() },
	"gin":     func() router.Router { return ginadapter.NewRouter() },
	"gorilla": func() router.Router { return gorillaadapter.NewRouter() },
}

// NewRouter creates a router adapter. Matching is case-insensitive and an
// empty type selects DefaultType.
func NewRouter(routerType string) (router.Router, error) {
	rt := strings.TrimSpace(strings.ToLower(routerType))
	if rt == "" {
		rt = DefaultType
	}
	if create, ok := supported[rt]; ok {
		return create(), nil
	}

	return nil, fmt.Errorf("unsupported router type %q (supported: %s)", routerType, strings.Join(SupportedTypes(), ", "))
}

// IsSupported reports whether routerType names a known adapter.
func IsSupported(routerType string) bool {
	rt := strings.TrimSpace(strings.ToLower(routerType))
	if rt == "" {
		return true
	}
	_, ok := supported[rt]
	return ok
}

// SupportedTypes returns the supported router types, sorted.
func SupportedTypes() []string {
	types := make([]string, 0, len(supported))
	for t := range supported {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
