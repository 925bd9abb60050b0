// Package client contains the HTTP client of the recipeshare API.
//
// HTTPClient keeps the token pair returned by register/login, attaches the
// access token to every call and, when the server rejects it, refreshes the
// pair once and retries. Server errors carry the {msg} body of the response
// as an *APIError; transport failures are reported as ErrUnavailable.
package client
