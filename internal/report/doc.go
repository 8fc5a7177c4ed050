// Package report turns MyGES API data into display records.
//
// Every builder is a pure function: it never calls the API and never
// prints. Times are formatted in the location passed by the caller.
package report
