// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

/*
Package ingest turns raw order rows into the interaction table consumed by
the recommendation engine.

# Pipeline

Each order row goes through the same steps:

 1. The items column is parsed. It may hold a JSON array, a JSON object with
    an "items" array, a single-quoted pseudo-JSON string, or plain text.
 2. Each item is cleaned: surrounding whitespace, one leading '*' and a
    leading quantity token such as "2x " are removed, and receipt lines
    containing a blacklisted token ("Total:", "Pago:", ...) are dropped.
 3. The order's bundle signature is the sorted cleaned list joined by ", ".
 4. The order explodes into one InteractionRecord per cleaned item.

Hour and day of week come from created_at in the configured time zone; a
missing timestamp yields hour 12 on Monday. The ticket is coerced to a number
and falls back to 0. Customer identifiers are normalized to digits.

# Reloading

Reloader ties the pipeline to an OrderSource and a recommend.Engine. A
reload loads every order, maps it, trains a new snapshot and publishes it
atomically. When the first load fails an empty snapshot is published so the
service answers "model not trained" instead of refusing requests; later
failures keep the previous snapshot.

# Usage

	mapper := ingest.NewMapper(time.UTC, ingest.DefaultBlacklist())
	reloader := ingest.NewReloader(source, mapper, engine, logger)
	info, err := reloader.Reload(ctx)
*/
package ingest
