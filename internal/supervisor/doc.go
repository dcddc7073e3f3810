// Skinmatch - Skincare Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skinmatch

/*
Package supervisor provides process supervision for Skinmatch using suture v4.

The tree has three layers under a root supervisor:

	skinmatch (root)
	├── storage-layer
	│   └── history-dispatcher     (when history is enabled)
	├── catalog-layer
	│   └── catalog-reload-service (periodic reloads)
	└── api-layer
	    └── http-server

Each layer restarts its own services with the configured failure threshold,
decay and backoff. A panicking history writer or reload loop never takes the
HTTP server down with it.

Supervisor events are logged through sutureslog, so the tree needs a
*slog.Logger; cmd/server bridges it onto zerolog with logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddStorageService(dispatcher)
	tree.AddCatalogService(reloadSvc)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)
*/
package supervisor
