// Package account exposes the credential flow over HTTP and owns the
// MongoDB-backed identity store.
//
// Routes mirror the classic form-based flow: GET /register and GET /login
// serve minimal HTML forms, their POST counterparts run the flow, GET
// /profile answers "who am I" from the session cookie, and GET /logout
// clears it. Registration accepts an optional multipart "profilePicture"
// upload stored through the asset Storage; only the returned reference
// reaches the identity record.
package account
