/*
 * Copyright 2026 the PlantSync Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package plantbook

import "errors"

var (
	// ErrMissingCredentials indicates the client id or secret is not configured.
	ErrMissingCredentials = errors.New("missing client id or secret")

	// ErrInvalidAuth indicates the remote service rejected the credentials.
	ErrInvalidAuth = errors.New("authentication with plantbook failed")

	// ErrRateLimited indicates the remote service throttled the request.
	ErrRateLimited = errors.New("plantbook rate limit exceeded")

	// ErrInvalidPID indicates an instance registration was rejected because
	// the supplied species identifier is not a canonical PID.
	ErrInvalidPID = errors.New("invalid species identifier")

	// ErrNotFound indicates the requested species does not exist.
	ErrNotFound = errors.New("species not found")

	// ErrEmptyResponse indicates the remote service answered without usable data.
	ErrEmptyResponse = errors.New("empty response from plantbook")

	errUnexpectedStatusCode = errors.New("unexpected status code")
	errTokenRequestFailed   = errors.New("token request failed")
)
