// Package links builds hypermedia links from route templates.
package links

import "strings"

// Route is a path template. The ":id" segment is replaced with an item ID.
type Route string

// Product routes.
const (
	ProductsRoute Route = "/products"
	ProductRoute  Route = "/products/:id"
)

// Relation names used in product representations.
const (
	RelSelf         = "self"
	RelProductsList = "Products List"
)

// Link is a single HAL link object.
type Link struct {
	Href string `json:"href"`
}

// Links maps relation names to links, rendered as "_links".
type Links map[string]Link

// Build returns the absolute URL for route with id substituted.
// id is ignored for routes without an ":id" segment.
func Build(baseURL string, route Route, id string) string {
	path := strings.Replace(string(route), ":id", id, 1)
	return strings.TrimRight(baseURL, "/") + path
}
