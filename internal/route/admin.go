package route

import (
	"fmt"
	"net/http"

	"tailscale.com/tsweb"
)

// AttachAdminRoutes registers a debug endpoint reporting the coordinator's
// current state, for operators watching a live vehicle over the admin port.
func (c *Coordinator) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	debug.HandleFunc("route-state", "show the route coordinator's current state", func(w http.ResponseWriter, r *http.Request) {
		s := c.Snapshot()
		fmt.Fprintf(w, "direction: %s\n", s.Direction)
		fmt.Fprintf(w, "next_action: %s\n", s.NextAction)
		fmt.Fprintf(w, "action_completed: %t\n", s.ActionCompleted)
		fmt.Fprintf(w, "waiting_for_route: %t\n", s.WaitingForRoute)
		fmt.Fprintf(w, "intersection_active: %t\n", s.IntersectionActive)
		fmt.Fprintf(w, "stop_section_active: %t\n", s.StopSectionActive)
		fmt.Fprintf(w, "pending_actions: %d\n", s.PendingActions)
	})
}
