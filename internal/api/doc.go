// Package api reads the odds line stream from a Supabase project through its
// PostgREST interface (/rest/v1/<table>).
//
// Rows are requested newest first with Range headers; the first request of a
// collection asks for an exact count so paging can stop at the table size.
package api
