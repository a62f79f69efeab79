package framestream

import (
	"fmt"
	"net/http"

	"tailscale.com/tsweb"
)

// AttachAdminRoutes registers a debug endpoint reporting whether a viewer is
// connected and its session id.
func (s *Streamer) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	debug.HandleFunc("stream-state", "show the frame streamer's connected client", func(w http.ResponseWriter, r *http.Request) {
		session, connected := s.ClientSession()
		if !connected {
			fmt.Fprintln(w, "no client connected")
			return
		}
		fmt.Fprintf(w, "client session: %s\n", session)
	})
}
