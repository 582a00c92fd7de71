// Package domain defines the core types shared by the campaign studio's
// handlers, services and repositories.
//
// Types in this package are plain values: no database handles, no HTTP
// concerns and no imports from other internal/ packages. JSON/DB tags and
// pure validation helpers are fine.
package domain
