// Package shutdown coordinates graceful process termination.
//
// A Handler waits for SIGINT, SIGTERM or a programmatic Trigger (the admin
// "exit" command) and then runs the registered hooks in reverse order under
// a shared timeout.
//
//	h := shutdown.NewHandler(10 * time.Second)
//	h.OnShutdown(srv.Shutdown)
//	err := h.Wait()
package shutdown
