// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

// Package services adapts menurec components to suture.Service.
//
// Each service blocks in Serve until its context is cancelled and returns
// an error only for conditions a restart can fix, such as a failed NATS
// connection or a listener that could not bind.
package services
