// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source fetches inventory payloads. A source spec selects where the
// records come from:
//   - "" or "-": standard input
//   - "s3://bucket/key": an S3 object, using the shared AWS config chain
//   - "http://..." or "https://...": an inventory API, with an optional
//     bearer token, retries and a disk cache
//   - anything else: a local file
//
// Payloads are either a JSON array of records or an object carrying the
// array under "items" or "data". Records extracts the list.
package source
