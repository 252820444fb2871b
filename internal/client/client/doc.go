// Package client talks to the inkpost server over HTTP: GraphQL queries and
// mutations on /graphql and image uploads on /post-image.
//
// The access token from Login is kept in memory and sent in the
// Authorization header of every later request.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Failures reported by the server are
// returned as *APIError; errors.Is(err, ErrUnauthorized) holds for 401s.
package client
