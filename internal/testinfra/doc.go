// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

//go:build integration

// Package testinfra starts Docker containers for integration tests with
// testcontainers-go. Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/database/...
//
// Tests call SkipIfNoDocker first so the suite still passes on machines
// without a Docker daemon.
package testinfra
