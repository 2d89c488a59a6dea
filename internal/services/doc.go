// Package services contains the HTTP clients for the conversion service API.
//
// [Client] is the shared transport: it signs every request with the current
// session's bearer token, classifies responses uniformly, and invalidates the
// session on an authorization failure. [AuthService], [CatalogService] and
// [JobsService] are the typed clients built on top of it.
package services
