// Package job implements the job monitoring and control service.
//
// Snapshots are read through an optional Redis cache so that every open
// monitoring page polling the same job does not become a database read.
// Control actions run under a distributed lock per job: the status read,
// the transition check and the conditional update happen as one unit even
// with several server instances.
//
// The service layer depends on the Repository interface defined in
// repository.go. It never imports net/http or database/sql directly.
package job
