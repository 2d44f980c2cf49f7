// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package supervisor runs the long-lived services of menurec under a suture v4
supervisor tree.

	RootSupervisor ("menurec")
	├── DataSupervisor ("data-layer")
	│   └── SnapshotLoaderService
	├── MessagingSupervisor ("messaging-layer")
	│   └── NATSReloadService (if NATS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A crashed service is restarted with backoff without disturbing the other
layers. In particular a lost NATS connection never takes the HTTP server
down, and predictions keep being served from the last published snapshot
while the loader restarts.

Supervisor events are logged through sutureslog, backed by the zerolog
adapter in the logging package.
*/
package supervisor
