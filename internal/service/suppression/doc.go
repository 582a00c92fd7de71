// Package suppression implements the suppression list fed by the
// unsubscribe link of tracked emails.
//
// Addresses are stored lower-cased and trimmed with an MD5 of the normalized
// address, the form list-exchange partners expect. The service depends on the
// Repository interface defined in repository.go and never imports net/http or
// database/sql directly.
package suppression
