package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRouteSpecWithMethod(t *testing.T) {
	method, path := ParseRouteSpec("GET /hello")
	assert.Equal(t, "GET", method)
	assert.Equal(t, "/hello", path)
}

func TestParseRouteSpecPost(t *testing.T) {
	method, path := ParseRouteSpec("POST /users")
	assert.Equal(t, "POST", method)
	assert.Equal(t, "/users", path)
}

func TestParseRouteSpecLowercaseMethod(t *testing.T) {
	method, path := ParseRouteSpec("get /hello")
	assert.Equal(t, "GET", method)
	assert.Equal(t, "/hello", path)
}

func TestParseRouteSpecWithoutMethod(t *testing.T) {
	method, path := ParseRouteSpec("/hello/:name")
	assert.Equal(t, "ANY", method)
	assert.Equal(t, "/hello/:name", path)
}

func TestParseRouteSpecAnyMethod(t *testing.T) {
	method, path := ParseRouteSpec("ANY /api")
	assert.Equal(t, "ANY", method)
	assert.Equal(t, "/api", path)
}

func TestParseRouteSpecInvalidMethodBecomesAny(t *testing.T) {
	method, path := ParseRouteSpec("INVALID /path")
	assert.Equal(t, "ANY", method)
	assert.Equal(t, "INVALID /path", path)
}

func TestParseRouteSpecAllMethods(t *testing.T) {
	for _, method := range []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"} {
		parsed, _ := ParseRouteSpec(fmt.Sprintf("%s /test", method))
		assert.Equal(t, method, parsed)
	}
}

func TestParseRouteSpecTrimsWhitespace(t *testing.T) {
	method, path := ParseRouteSpec("  GET /hello  ")
	assert.Equal(t, "GET", method)
	assert.Equal(t, "/hello", path)
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/user/{id}", NormalizePath("/user/:id"))
	assert.Equal(t, "/users/{user_id}/posts/{post_id}", NormalizePath("/users/:user_id/posts/:post_id"))
	assert.Equal(t, "/static", NormalizePath("/static"))
	assert.Equal(t, "/a/{b1}/c", NormalizePath("/a/:b1/c"))
}

func TestParseRoutesNormalizesParams(t *testing.T) {
	routes, err := ParseRoutes([]RouteSpec{
		{Spec: "GET /user/:id", Command: "echo :id"},
	})

	assert.Nil(t, err)
	assert.Len(t, routes, 1)
	assert.Equal(t, "GET", routes[0].Method)
	assert.Equal(t, "/user/{id}", routes[0].Path)
	assert.Equal(t, "echo :id", routes[0].Command)
}

func TestParseRoutesMultiple(t *testing.T) {
	routes, err := ParseRoutes([]RouteSpec{
		{Spec: "GET /hello", Command: "echo hello"},
		{Spec: "POST /data", Command: "cat"},
	})

	assert.Nil(t, err)
	assert.Len(t, routes, 2)
	assert.Equal(t, "GET", routes[0].Method)
	assert.Equal(t, "/hello", routes[0].Path)
	assert.Equal(t, "POST", routes[1].Method)
	assert.Equal(t, "/data", routes[1].Path)
}

func TestParseRoutesEmptyCommand(t *testing.T) {
	_, err := ParseRoutes([]RouteSpec{
		{Spec: "GET /hello", Command: "   "},
	})

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "GET /hello")
}

func TestParseRoutesEmpty(t *testing.T) {
	routes, err := ParseRoutes(nil)
	assert.Nil(t, err)
	assert.Empty(t, routes)
}

func TestRouteTableLookup(t *testing.T) {
	entries, err := ParseRoutes([]RouteSpec{
		{Spec: "GET /hello", Command: "echo hello"},
		{Spec: "/fallback", Command: "echo any"},
	})
	assert.Nil(t, err)

	table := NewRouteTable(entries)

	command, ok := table.Lookup("GET", "/hello")
	assert.True(t, ok)
	assert.Equal(t, "echo hello", command)

	// A method-specific binding doesn't answer other methods.
	_, ok = table.Lookup("POST", "/hello")
	assert.False(t, ok)

	// An ANY binding answers every method.
	for _, method := range []string{"GET", "POST", "DELETE"} {
		command, ok := table.Lookup(method, "/fallback")
		assert.True(t, ok)
		assert.Equal(t, "echo any", command)
	}

	_, ok = table.Lookup("GET", "/unknown")
	assert.False(t, ok)
}
