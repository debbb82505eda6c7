// Package fetch retrieves remote index pages for scrapers and parsers.
//
// A Client sends curl-like GET and HEAD requests, stores every successful
// body in an on-disk response cache keyed by URL, and can serve later runs
// from that cache. Login produces a second Client that carries a cookie
// session for listings that are only visible to signed-in users.
package fetch
