// Package server provides the loopback HTTP infrastructure for the
// CLI's OAuth flow.
//
// The [Router] interface defines routing with middleware support;
// [Middleware] wraps handlers in reverse order (last added executes
// first). [BasicRouter] implements it over [http.ServeMux] with method
// filtering.
//
// [OAuthHandler] implements the authorization code callback: it
// validates the state parameter, exchanges the code for a token, and
// delivers the result over a channel. Only the first callback is
// processed. Authentication commands start a temporary server on the
// redirect URI's port, wait for the result, and shut it down.
package server
