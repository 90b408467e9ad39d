// EventPulse - Event Management Backend with Activity Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/eventpulse

// Package files stores uploaded files on local disk and keeps their metadata
// (original name, size, content type, uploader) in a BadgerDB index.
//
// Stored names have the form <base>_<32 hex chars><ext>, so two uploads of
// the same file never collide. Downloads accept only a bare stored name;
// anything that could escape the upload directory is rejected.
package files
