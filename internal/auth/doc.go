// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

/*
Package auth issues and checks the bearer tokens used by the REST API.

Login returns an access token and a refresh token, both HS256 JWTs signed with
JWT_SECRET. They differ only in lifetime and in the token_type claim, and a
refresh token is never accepted where an access token is required.

	Authorization: Bearer <access token>

Passwords are stored as bcrypt hashes.
*/
package auth
