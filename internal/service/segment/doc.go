// Package segment manages recipient segments and their contacts.
//
// Contacts arrive one at a time or as a pasted block of "email,name" lines.
// The service validates input and depends only on the Repository interface
// in repository.go.
package segment
