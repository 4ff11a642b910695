// Package server serves resolved playlists over HTTP for players that open
// network playlists but cannot run the extractor themselves.
//
//	mgr := resolve.NewManager(settings, nil)
//	srv := server.NewServer(mgr, settings, slog.Default())
//	http.ListenAndServe(settings.ServerAddress, srv.Handler())
//
// A player can then open
//
//	http://127.0.0.1:8089/playlist.m3u?url=https%3A%2F%2Fwww.youtube.com%2Fwatch%3Fv%3Dabc123
package server
