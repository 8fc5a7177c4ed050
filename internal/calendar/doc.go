// Package calendar mirrors the MyGES agenda into a Google Calendar.
//
// The mirror is computed in three steps. BuildEvents turns agenda items
// into Events with identifiers derived from their reservation id, Diff
// compares them with the events already present in the calendar and
// produces a Plan, and a Syncer applies the Plan through a Provider.
//
// Only events created by this package are considered: GoogleProvider tags
// every event with a private extended property and lists only tagged
// events, so events created by the user are never updated or deleted.
//
// Authorization uses the Google installed-application flow. A loopback
// CallbackServer receives the authorization code and the token is
// persisted through a callback whenever it is refreshed.
package calendar
